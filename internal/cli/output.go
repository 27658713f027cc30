package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/sinwaunyu/site/internal/present"
)

const defaultPager = "less -FRSX"

// outputFlags are shared by every command that prints records.
type outputFlags struct {
	mode      string
	noHeaders bool
	indent    bool
	noPager   bool
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().StringVarP(&f.mode, "output", "o", "", "output mode: plain|pretty|json|ndjson (default pretty on a terminal, plain otherwise)")
	cmd.Flags().BoolVar(&f.noHeaders, "noheaders", false, "hide column headers (plain)")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent json output")
	cmd.Flags().BoolVar(&f.noPager, "no-pager", false, "never pipe output through $PAGER")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "pretty", "json", "ndjson"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func (f outputFlags) options(out io.Writer) (present.Options, error) {
	mode := present.DefaultMode(out)
	if f.mode != "" {
		m, ok := present.ParseMode(f.mode)
		if !ok {
			return present.Options{}, fmt.Errorf("invalid --output: %s", f.mode)
		}
		mode = m
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: f.indent,
		Headers:    !f.noHeaders,
		Width:      present.TermWidth(out),
	}, nil
}

// render writes through the pager when stdout is a terminal.
func (f outputFlags) render(cmd *cobra.Command, write func(w io.Writer, opts present.Options) error) error {
	out := cmd.OutOrStdout()
	opts, err := f.options(out)
	if err != nil {
		return err
	}
	if f.noPager {
		return write(out, opts)
	}
	return withPager(cmd.Context(), out, cmd.ErrOrStderr(), func(w io.Writer) error {
		return write(w, opts)
	})
}

func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !present.IsTTY(out) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
