package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/spf13/cobra"

	"github.com/sinwaunyu/site/internal/markdown"
	"github.com/sinwaunyu/site/internal/present"
)

// draftMatter is the optional front matter of a local draft.
type draftMatter struct {
	Title    string `yaml:"title" toml:"title" json:"title"`
	Slug     string `yaml:"slug" toml:"slug" json:"slug"`
	Category string `yaml:"category" toml:"category" json:"category"`
	Summary  string `yaml:"summary" toml:"summary" json:"summary"`
}

type renderOutput struct {
	draftMatter
	Nodes   []markdown.Node `json:"nodes"`
	HTML    string          `json:"html"`
	Excerpt string          `json:"excerpt"`
}

func newRenderCmd() *cobra.Command {
	var formatName string
	var excerpt int
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render site markdown to HTML, JSON nodes, text or the terminal",
		Long: `Render a body the way the site does: headings, "-"/"*" lists, paragraphs,
**strong**, *em* and [links](https://...); everything else is shown as text.

Reads the file, or stdin when no file or "-" is given. Front matter
(YAML ---, TOML +++ or JSON) is stripped and reported in json output.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			var meta draftMatter
			body, err := frontmatter.Parse(strings.NewReader(src), &meta)
			if err != nil {
				return fmt.Errorf("front matter: %w", err)
			}
			doc := markdown.Parse(string(body))
			out := cmd.OutOrStdout()

			switch strings.ToLower(formatName) {
			case "html":
				_, err = io.WriteString(out, markdown.ToHTML(doc))
			case "text":
				_, err = io.WriteString(out, doc.PlainText()+"\n")
			case "json":
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				err = enc.Encode(renderOutput{
					draftMatter: meta,
					Nodes:       markdown.Nodes(doc),
					HTML:        markdown.ToHTML(doc),
					Excerpt:     markdown.Excerpt(doc, excerpt),
				})
			case "pretty":
				err = present.RenderDoc(out, nil, present.Doc{Title: meta.Title, Body: string(body)},
					present.Options{Mode: present.ModePretty, Width: present.TermWidth(out)})
			default:
				return fmt.Errorf("invalid --format: %s", formatName)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "html", "html|json|text|pretty")
	cmd.Flags().IntVar(&excerpt, "excerpt", 120, "excerpt length in characters for json output")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"html", "json", "text", "pretty"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}
