package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/graph"
)

// convertCommand creates the convert command that re-encodes a document.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a family document between JSON, TOML and YAML",
		Long: `Convert a family document between JSON, TOML and YAML.

Both formats are chosen by file extension (.json, .toml, .yaml or .yml). The
document is validated before it is written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			if _, err := graph.FormatFromPath(out); err != nil {
				return err
			}
			doc, err := graph.ReadFile(in)
			if err != nil {
				return fmt.Errorf("load document %s: %w", in, err)
			}
			if err := graph.WriteFile(doc, out); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess("Converted %d persons and %d relations", len(doc.Persons), len(doc.Relations))
			printFile(out)
			return nil
		},
	}
}
