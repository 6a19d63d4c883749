package cli

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/graph"
)

// layoutCommand creates the layout command for computing canvas positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  engineFlags
		apply  bool
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout [document]",
		Short: "Compute canvas positions for a family document",
		Long: `Compute canvas positions for a family document.

Generations are laid out in rows (ancestors above, descendants below the
reference person). Spouses and co-parents stay side by side and each row is
centred under the parents placed above it.

With --apply the positions are written back into the document (in place, or
to --output). Persons not connected to the reference person keep their
current position.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && !apply {
				apply = true
			}
			return c.runLayout(cmd.Context(), args[0], flags, apply, output, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&apply, "apply", "a", false, "write positions back into the document")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the arranged document here instead of in place (implies --apply)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print positions as JSON")

	return cmd
}

// runLayout loads the document, computes the layout, and prints or writes it.
func (c *CLI) runLayout(ctx context.Context, input string, flags engineFlags, apply bool, output string, asJSON bool) error {
	doc, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(flags)
	var (
		positions map[string]family.Point
		cacheHit  bool
	)
	err = c.spin(ctx, "Laying out "+filepath.Base(input)+"...", func() error {
		positions, cacheHit, err = runner.LayoutWithCacheInfo(ctx, doc, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(graph.FromPoints(positions))
	}

	if !apply {
		printPositions(doc, positions)
		printDetail("%d of %d persons placed (%s)", len(positions), len(doc.Persons), cacheStatus(cacheHit))
		printNewline()
		printNextStep("Write positions", "kintree layout --apply "+input)
		return nil
	}

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}
	if err := graph.WriteFile(doc.Arrange(positions), outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout applied")
	printFile(outputPath)
	printDetail("%d of %d persons placed (%s)", len(positions), len(doc.Persons), cacheStatus(cacheHit))
	return nil
}

// printPositions lists placed persons top to bottom, left to right.
func printPositions(doc family.Document, positions map[string]family.Point) {
	placed := make([]family.Person, 0, len(positions))
	for _, p := range doc.Persons {
		if _, ok := positions[p.ID]; ok {
			placed = append(placed, p)
		}
	}
	slices.SortStableFunc(placed, func(a, b family.Person) int {
		pa, pb := positions[a.ID], positions[b.ID]
		if c := cmp.Compare(pa.Y, pb.Y); c != 0 {
			return c
		}
		return cmp.Compare(pa.X, pb.X)
	})
	for _, p := range placed {
		printKeyValue(p.ID, fmt.Sprintf("%-24s %s", p.Name, formatPoint(positions[p.ID])))
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return iconCached
	}
	return iconFresh
}
