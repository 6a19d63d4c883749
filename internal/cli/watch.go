package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/graph"
	"github.com/kintree/kintree/pkg/pipeline"
)

const defaultDebounce = 200 * time.Millisecond

// watchCommand creates the watch command that recomputes on every save.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    engineFlags
		output   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [document]",
		Short: "Recompute relationships and layout whenever a document changes",
		Long: `Recompute relationships and layout whenever a document changes.

The document's directory is watched so editors that save by renaming a
temporary file are picked up too. Bursts of events are coalesced. With
--output the latest result (labels, positions and levels) is written as
JSON after every successful run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], flags, output, debounce)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write each result to this JSON file")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "wait this long after the last change before recomputing")
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, flags engineFlags, output string, debounce time.Duration) error {
	path, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", input, err)
	}
	if output != "" {
		if out, _ := filepath.Abs(output); out == path {
			return fmt.Errorf("output must differ from the watched document")
		}
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	opts := c.options(flags)
	recompute := func() {
		if err := c.recompute(ctx, runner, path, output, opts); err != nil {
			printError("%v", err)
		}
	}

	recompute()
	printInfo("Watching %s (ctrl+c to stop)", input)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			c.Logger.Debug("document changed", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			recompute()
		}
	}
}

// recompute runs both engines on the current file contents.
func (c *CLI) recompute(ctx context.Context, runner *pipeline.Runner, path, output string, opts pipeline.Options) error {
	p := newProgress(c.Logger)
	doc, err := graph.ReadFile(path)
	if err != nil {
		return err
	}
	var res *pipeline.Result
	err = c.spin(ctx, "Recomputing "+filepath.Base(path)+"...", func() error {
		res, err = runner.Execute(ctx, doc, opts)
		return err
	})
	if err != nil {
		return err
	}
	if output != "" {
		data, err := graph.MarshalResult(graph.Result{
			RootID:        res.RootID,
			Relationships: res.Relationships,
			Positions:     graph.FromPoints(res.Positions),
			Levels:        res.Levels,
		})
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	}
	p.done(fmt.Sprintf("Recomputed %s", filepath.Base(path)))
	printStats(res.Stats, res.CacheInfo.ResultHit)
	return nil
}
