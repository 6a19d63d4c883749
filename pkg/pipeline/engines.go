package pipeline

import (
	"context"
	"time"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/family/kinship"
	"github.com/kintree/kintree/pkg/family/layout"
	"github.com/kintree/kintree/pkg/observability"
)

// Infer runs the kinship engine with instrumentation. opts must already be
// validated.
func Infer(ctx context.Context, doc family.Document, opts Options) (map[string]string, time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnInferStart(ctx, len(doc.Persons))
	start := time.Now()

	if err := ctx.Err(); err != nil {
		hooks.OnInferComplete(ctx, 0, time.Since(start), err)
		return nil, 0, err
	}
	labels := kinship.Infer(doc.Persons, doc.Relations, opts.RootID, opts.Overrides)

	d := time.Since(start)
	hooks.OnInferComplete(ctx, len(labels), d, nil)
	return labels, d, nil
}

// Arrange runs the layout engine with instrumentation and also returns the
// generation level of every positioned person. opts must already be
// validated.
func Arrange(ctx context.Context, doc family.Document, opts Options) (map[string]family.Point, map[string]int, time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(doc.Persons))
	start := time.Now()

	if err := ctx.Err(); err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, nil, 0, err
	}
	positions := layout.Compute(doc.Persons, doc.Relations, opts.RootID,
		layout.WithSiblingGap(opts.SiblingGap),
		layout.WithLevelHeight(opts.LevelHeight))
	levels := layout.Levels(
		family.BuildAdjacency(doc.Persons, doc.Relations),
		family.PersonIndex(doc.Persons),
		opts.RootID)

	d := time.Since(start)
	hooks.OnLayoutComplete(ctx, len(positions), d, nil)
	return positions, levels, d, nil
}

// generations counts distinct levels.
func generations(levels map[string]int) int {
	seen := make(map[int]bool)
	for _, l := range levels {
		seen[l] = true
	}
	return len(seen)
}
