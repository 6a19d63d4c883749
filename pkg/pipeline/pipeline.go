// Package pipeline runs kinship inference and layout over a family document.
//
// This package is the single entry point used by the CLI, the HTTP API and
// the watch loop, so validation, caching and instrumentation behave the same
// everywhere.
//
// # Architecture
//
// A run consists of two independent stages over the same document:
//
//  1. Relationships: label every reachable person relative to the
//     reference person (pkg/family/kinship)
//  2. Layout: assign generation rows and x positions (pkg/family/layout)
//
// [Runner.Execute] runs both concurrently and caches the combined result.
// Each stage can also be run on its own.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{RootID: "1"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Relationships["2"]) // "Father"
//
// Run individual stages:
//
//	labels, err := runner.Relationships(ctx, doc, opts)
//	positions, err := runner.Layout(ctx, doc, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kintree/kintree/pkg/cache"
	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSiblingGap is the horizontal spacing between neighbours.
	DefaultSiblingGap = family.DefaultSiblingGap

	// DefaultLevelHeight is the vertical spacing between generations.
	DefaultLevelHeight = family.DefaultLevelHeight
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Zero values are replaced by the
// document's own settings or the package defaults.
type Options struct {
	// RootID is the reference person. Defaults to the document's root.
	RootID string `json:"rootId,omitempty"`

	// Overrides replaces the document's relationship map when non-nil.
	Overrides map[string]string `json:"relationshipMap,omitempty"`

	// Layout spacing
	SiblingGap  float64 `json:"siblingGap,omitempty"`
	LevelHeight float64 `json:"levelHeight,omitempty"`

	// Refresh skips cache lookups but still stores fresh results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RootID is the reference person the labels are relative to.
	RootID string

	// DocHash is the content hash of the input document.
	DocHash string

	// Relationships maps reachable person IDs to kinship labels.
	Relationships map[string]string

	// Positions maps reachable person IDs to canvas positions.
	Positions map[string]family.Point

	// Levels maps reachable person IDs to generation levels (0 = reference).
	Levels map[string]int

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which results came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Persons     int
	Relations   int
	Reachable   int
	Unreachable int
	Generations int
	InferTime   time.Duration
	LayoutTime  time.Duration
}

// CacheInfo tracks cache hits for [Runner.Execute]. Stage-only runs report
// their hit through the second return value of the XWithCacheInfo methods.
type CacheInfo struct {
	ResultHit bool // Whether the combined result came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields from the document and package defaults.
func (o *Options) SetDefaults(doc family.Document) {
	if o.RootID == "" {
		o.RootID = doc.RootID
	}
	if o.Overrides == nil {
		o.Overrides = doc.Overrides
	}
	if o.SiblingGap == 0 {
		o.SiblingGap = DefaultSiblingGap
	}
	if o.LevelHeight == 0 {
		o.LevelHeight = DefaultLevelHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options against doc. Call SetDefaults first.
func (o *Options) Validate(doc family.Document) error {
	if o.SiblingGap <= 0 {
		return kerrors.New(kerrors.ErrCodeInvalidOptions, "sibling gap must be positive, got %g", o.SiblingGap)
	}
	if o.LevelHeight <= 0 {
		return kerrors.New(kerrors.ErrCodeInvalidOptions, "level height must be positive, got %g", o.LevelHeight)
	}
	if o.RootID == "" {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "no reference person: the document has no root and none was given")
	}
	if err := kerrors.ValidatePersonID(o.RootID); err != nil {
		return err
	}
	if !doc.HasPerson(o.RootID) {
		return kerrors.New(kerrors.ErrCodeUnknownPerson, "reference person %q is not in the document", o.RootID)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates in one step.
func (o *Options) ValidateAndSetDefaults(doc family.Document) error {
	o.SetDefaults(doc)
	return o.Validate(doc)
}

// ResultKeyOpts returns cache key options for a combined run.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		RootID:      o.RootID,
		SiblingGap:  o.SiblingGap,
		LevelHeight: o.LevelHeight,
		Overrides:   o.Overrides,
	}
}

// LayoutKeyOpts returns cache key options for a layout run.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		RootID:      o.RootID,
		SiblingGap:  o.SiblingGap,
		LevelHeight: o.LevelHeight,
	}
}

// RelationshipsKeyOpts returns cache key options for a relationships run.
func (o *Options) RelationshipsKeyOpts() cache.RelationshipsKeyOpts {
	return cache.RelationshipsKeyOpts{
		RootID:    o.RootID,
		Overrides: o.Overrides,
	}
}
