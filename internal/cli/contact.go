package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sinwaunyu/site/internal/content"
	"github.com/sinwaunyu/site/internal/editor"
	"github.com/sinwaunyu/site/internal/present"
	"github.com/sinwaunyu/site/internal/present/tui"
)

func newContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Submit and read contact form messages",
	}
	cmd.AddCommand(newContactSendCmd(), newContactListCmd(), newContactShowCmd())
	return cmd
}

func newContactSendCmd() *cobra.Command {
	var in content.ContactInput
	var fromFile string
	var edit, interactive bool
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a contact message as the site form would",
		Example: `  sinwa-site contact send --name "山田 太郎" --email taro@example.com --message "見積もり依頼"
  sinwa-site contact send --from-file form.json
  sinwa-site contact send --edit --name "山田 太郎"
  sinwa-site contact send --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile != "" {
				var err error
				if in, err = readContactFile(cmd, fromFile); err != nil {
					return err
				}
			}
			if edit {
				var err error
				if in, err = editContact(in); err != nil {
					return err
				}
			}
			if interactive {
				if !isTerminal(cmd.InOrStdin()) {
					return errors.New("--interactive needs a terminal on stdin")
				}
				var err error
				if in, err = tui.RunContactForm(in, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			c, err := app.Content.SubmitContact(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c.ID, c.ReceivedAt, c.Category)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "sender name (required)")
	f.StringVar(&in.CompanyName, "company", "", "sender company")
	f.StringVar(&in.Email, "email", "", "reply address (required)")
	f.StringVar(&in.Tel, "tel", "", "phone number")
	f.StringVar(&in.Category, "category", "", "inquiry category (default contact.default_category)")
	f.StringVar(&in.Subject, "subject", "", "subject line")
	f.StringVarP(&in.Message, "message", "m", "", "message body (required)")
	f.StringVar(&fromFile, "from-file", "", "read the form as JSON from a file, or - for stdin")
	f.BoolVarP(&edit, "edit", "e", false, "fill in the form in $EDITOR, starting from the other flags")
	f.BoolVarP(&interactive, "interactive", "i", false, "fill in the form on screen, starting from the other flags")
	cmd.MarkFlagsMutuallyExclusive("edit", "interactive")
	return cmd
}

func readContactFile(cmd *cobra.Command, path string) (content.ContactInput, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return content.ContactInput{}, err
		}
		defer f.Close()
		r = f
	}
	var in content.ContactInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return content.ContactInput{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return in, nil
}

var contactComments = []string{
	"Lines starting with '#' are ignored above the separator.",
	"Name, Email and the message below '---' are required.",
}

func contactFields(in content.ContactInput) []editor.Field {
	return []editor.Field{
		{Label: "Name", Value: in.Name},
		{Label: "Company", Value: in.CompanyName},
		{Label: "Email", Value: in.Email},
		{Label: "Tel", Value: in.Tel},
		{Label: "Category", Value: in.Category},
		{Label: "Subject", Value: in.Subject},
	}
}

// contactFromForm reads the edited form back; the text below the separator
// is the message.
func contactFromForm(text string) content.ContactInput {
	h, body := editor.Parse(text)
	return content.ContactInput{
		Name:        h["Name"],
		CompanyName: h["Company"],
		Email:       h["Email"],
		Tel:         h["Tel"],
		Category:    h["Category"],
		Subject:     h["Subject"],
		Message:     body,
	}
}

func editContact(in content.ContactInput) (content.ContactInput, error) {
	path, err := editor.TempPath("contact.md")
	if err != nil {
		return content.ContactInput{}, err
	}
	initial := editor.Compose(contactComments, contactFields(in), in.Message)
	out, changed, err := editor.OpenAt(path, []byte(initial))
	if err != nil {
		return content.ContactInput{}, err
	}
	if !changed {
		return content.ContactInput{}, errors.New("contact form unchanged; nothing sent")
	}
	return contactFromForm(string(out)), nil
}

func newContactListCmd() *cobra.Command {
	var out outputFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List received messages, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			items, err := app.Content.ContactMessages(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return out.render(cmd, func(w io.Writer, opts present.Options) error {
				return present.RenderList(w, items, present.ContactTable, opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum messages (default 20)")
	return cmd
}

func newContactShowCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "show <record-id>",
		Short: "Show one received message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			c, err := app.Content.ContactMessage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return out.render(cmd, func(w io.Writer, opts present.Options) error {
				return present.RenderDoc(w, c, present.ContactDoc(c), opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}
