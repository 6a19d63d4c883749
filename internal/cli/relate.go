package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/graph"
	"github.com/kintree/kintree/pkg/pipeline"
)

// relateCommand creates the relate command that labels every person.
func (c *CLI) relateCommand() *cobra.Command {
	var (
		flags  engineFlags
		pick   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "relate [document]",
		Short: "Show how everyone is related to the reference person",
		Long: `Show how everyone is related to the reference person.

Every person reachable from the reference person gets a kinship label such as
"Grandmother", "Brother-in-law" or "2nd Cousin 1x Removed", together with the
generation and canvas position computed by the layout engine. Persons with no
path to the reference person are listed last without a label.

Use --pick to choose the reference person interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRelate(cmd.Context(), args[0], flags, pick, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "pick the reference person interactively")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("pick", "root")

	return cmd
}

func (c *CLI) runRelate(ctx context.Context, input string, flags engineFlags, pick, asJSON bool) error {
	doc, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	if pick {
		id, err := pickPerson(doc)
		if err != nil {
			return err
		}
		if id == "" {
			return context.Canceled
		}
		flags.root = id
	}

	res, err := c.compute(ctx, doc, flags)
	if err != nil {
		return err
	}

	if asJSON {
		return writeResultJSON(res)
	}

	fmt.Println(renderRelationships(doc, res))
	printStats(res.Stats, res.CacheInfo.ResultHit)
	return nil
}

// compute runs both engines behind a spinner.
func (c *CLI) compute(ctx context.Context, doc family.Document, flags engineFlags) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var res *pipeline.Result
	err = c.spin(ctx, "Computing relationships...", func() error {
		res, err = runner.Execute(ctx, doc, c.options(flags))
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("compute: %w", err)
	}
	return res, nil
}

func writeResultJSON(res *pipeline.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(graph.Result{
		RootID:        res.RootID,
		Relationships: res.Relationships,
		Positions:     graph.FromPoints(res.Positions),
		Levels:        res.Levels,
	})
}
