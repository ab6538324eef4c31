package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fakecheck/internal/extract"
	"github.com/ppiankov/fakecheck/internal/highlight"
	"github.com/ppiankov/fakecheck/internal/samples"
)

var highlightText string

var highlightCmd = &cobra.Command{
	Use:   "highlight [file | -]",
	Short: "Print text as HTML with evidence words marked",
	Long: `Highlight escapes the text for HTML and wraps every matched keyword in
<mark class="hl-fake">, <mark class="hl-real"> or <mark class="hl-extra">.

Example:
  fakecheck highlight artikel.txt > artikel.html
  fakecheck highlight --text "Skandal! Laut Studie..."`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := highlightInput(cmd.InOrStdin(), args, highlightText)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("no text provided")
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), highlight.Highlight(text))
		return err
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the built-in example texts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTITLE")
		for _, s := range samples.All() {
			fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Title)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(samplesCmd)

	highlightCmd.Flags().StringVar(&highlightText, "text", "", "highlight literal text instead of a file")
}

func highlightInput(stdin io.Reader, args []string, text string) (string, error) {
	if text != "" {
		return text, nil
	}

	if len(args) == 0 || args[0] == "-" {
		doc, err := extract.Text(stdin, extract.DefaultMaxBytes)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return doc.Text, nil
	}

	doc, err := extract.File(args[0], extract.DefaultMaxBytes)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", args[0], err)
	}
	return doc.Text, nil
}
