package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kintree/kintree/pkg/cache"
	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/observability"
)

// fixture is me with both parents, a sister and a paternal grandmother.
func fixture() family.Document {
	return family.Document{
		Persons: []family.Person{
			{ID: "me", Name: "Me"},
			{ID: "dad", Name: "Dad", Gender: family.GenderMale},
			{ID: "mum", Name: "Mum", Gender: family.GenderFemale},
			{ID: "gran", Name: "Gran", Gender: family.GenderFemale},
			{ID: "sis", Name: "Sis", Gender: family.GenderFemale},
			{ID: "stranger", Name: "Stranger"},
		},
		Relations: []family.Relation{
			{ID: "r1", Source: "dad", Target: "me", Type: family.Lineage},
			{ID: "r2", Source: "mum", Target: "me", Type: family.Lineage},
			{ID: "r3", Source: "dad", Target: "mum", Type: family.Spouse},
			{ID: "r4", Source: "gran", Target: "dad", Type: family.Lineage},
			{ID: "r5", Source: "dad", Target: "sis", Type: family.Lineage},
			{ID: "r6", Source: "mum", Target: "sis", Type: family.Lineage},
		},
		RootID: "me",
	}
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, nil)
}

func TestOptionsDefaults(t *testing.T) {
	doc := fixture()
	doc.Overrides = map[string]string{"me": "Self"}

	var o Options
	o.SetDefaults(doc)
	if o.RootID != "me" || o.SiblingGap != DefaultSiblingGap || o.LevelHeight != DefaultLevelHeight {
		t.Errorf("defaults = %+v", o)
	}
	if o.Overrides["me"] != "Self" || o.Logger == nil {
		t.Errorf("overrides/logger not defaulted: %+v", o)
	}

	o = Options{RootID: "dad", Overrides: map[string]string{}, SiblingGap: 50}
	o.SetDefaults(doc)
	if o.RootID != "dad" || len(o.Overrides) != 0 || o.SiblingGap != 50 {
		t.Errorf("explicit values should win: %+v", o)
	}
}

func TestOptionsValidate(t *testing.T) {
	doc := fixture()
	tests := []struct {
		name string
		opts Options
		doc  family.Document
		want kerrors.Code
	}{
		{"ok", Options{}, doc, ""},
		{"negative gap", Options{SiblingGap: -1}, doc, kerrors.ErrCodeInvalidOptions},
		{"negative height", Options{LevelHeight: -5}, doc, kerrors.ErrCodeInvalidOptions},
		{"unknown root", Options{RootID: "ghost"}, doc, kerrors.ErrCodeUnknownPerson},
		{"no root", Options{}, family.Document{Persons: []family.Person{{ID: "a"}}}, kerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults(tt.doc)
			if got := kerrors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	res, err := quietRunner(nil).Execute(context.Background(), fixture(), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	wantLabels := map[string]string{
		"me":   "Me",
		"dad":  "Father",
		"mum":  "Mother",
		"gran": "Grandmother",
		"sis":  "Sister",
	}
	if len(res.Relationships) != len(wantLabels) {
		t.Errorf("labels = %v", res.Relationships)
	}
	for id, want := range wantLabels {
		if got := res.Relationships[id]; got != want {
			t.Errorf("label[%s] = %q, want %q", id, got, want)
		}
	}

	wantPos := map[string]family.Point{
		"gran": {X: 0, Y: -400},
		"dad":  {X: -100, Y: -200},
		"mum":  {X: 100, Y: -200},
		"me":   {X: -100, Y: 0},
		"sis":  {X: 100, Y: 0},
	}
	for id, want := range wantPos {
		if got := res.Positions[id]; got != want {
			t.Errorf("pos[%s] = %+v, want %+v", id, got, want)
		}
	}
	if _, ok := res.Positions["stranger"]; ok {
		t.Error("unreachable person should not be positioned")
	}

	if res.Levels["gran"] != -2 {
		t.Errorf("level[gran] = %d, want -2", res.Levels["gran"])
	}
	s := res.Stats
	if s.Persons != 6 || s.Relations != 6 || s.Reachable != 5 || s.Unreachable != 1 || s.Generations != 3 {
		t.Errorf("stats = %+v", s)
	}
	if res.DocHash == "" || res.RootID != "me" {
		t.Errorf("hash %q root %q", res.DocHash, res.RootID)
	}
	if res.CacheInfo.ResultHit {
		t.Error("NullCache run should not hit")
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	defer r.Close()

	first, err := r.Execute(ctx, fixture(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, fixture(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ResultHit || !second.CacheInfo.ResultHit {
		t.Errorf("hits = %v, %v; want false, true", first.CacheInfo.ResultHit, second.CacheInfo.ResultHit)
	}
	for id, p := range first.Positions {
		if second.Positions[id] != p {
			t.Errorf("cached pos[%s] = %+v, want %+v", id, second.Positions[id], p)
		}
	}
	if second.Relationships["gran"] != "Grandmother" || second.Stats.Generations != 3 {
		t.Errorf("cached result incomplete: %+v", second)
	}

	refreshed, err := r.Execute(ctx, fixture(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.ResultHit {
		t.Error("Refresh should bypass the cache")
	}

	other, err := r.Execute(ctx, fixture(), Options{RootID: "dad"})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheInfo.ResultHit || other.Relationships["me"] != "Child" {
		t.Errorf("different root must not reuse entry: hit=%v me=%q", other.CacheInfo.ResultHit, other.Relationships["me"])
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	doc := fixture()
	doc.Persons = append(doc.Persons, family.Person{ID: "me"})
	_, err := quietRunner(nil).Execute(context.Background(), doc, Options{})
	if !kerrors.Is(err, kerrors.ErrCodeInvalidDocument) {
		t.Errorf("err = %v, want INVALID_DOCUMENT", err)
	}
	if !errors.Is(err, family.ErrDuplicatePersonID) {
		t.Errorf("err = %v should wrap ErrDuplicatePersonID", err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quietRunner(nil).Execute(ctx, fixture(), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRelationshipsUsesDocumentOverrides(t *testing.T) {
	doc := fixture()
	doc.Overrides = map[string]string{family.RoleMe: "Yours Truly"}
	labels, hit, err := quietRunner(nil).RelationshipsWithCacheInfo(context.Background(), doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("NullCache should miss")
	}
	if labels["me"] != "Yours Truly" {
		t.Errorf("root label = %q", labels["me"])
	}

	labels, err = quietRunner(nil).Relationships(context.Background(), doc, Options{Overrides: map[string]string{}})
	if err != nil {
		t.Fatal(err)
	}
	if labels["me"] != "Me" {
		t.Errorf("explicit empty overrides should win, got %q", labels["me"])
	}
}

func TestStageCachesAreSeparate(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)

	if _, hit, err := r.RelationshipsWithCacheInfo(ctx, fixture(), Options{}); err != nil || hit {
		t.Fatalf("first relationships: hit %v err %v", hit, err)
	}
	labels, hit, err := r.RelationshipsWithCacheInfo(ctx, fixture(), Options{})
	if err != nil || !hit {
		t.Fatalf("second relationships: hit %v err %v", hit, err)
	}
	if labels["gran"] != "Grandmother" {
		t.Errorf("gran = %q", labels["gran"])
	}

	res, err := r.Execute(ctx, fixture(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.ResultHit {
		t.Error("a relationships-only entry must not satisfy Execute")
	}
}

func TestLayoutCacheAndApply(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)

	opts := Options{SiblingGap: 100, LevelHeight: 50}
	if _, hit, err := r.LayoutWithCacheInfo(ctx, fixture(), opts); err != nil || hit {
		t.Fatalf("first layout: hit %v err %v", hit, err)
	}
	positions, hit, err := r.LayoutWithCacheInfo(ctx, fixture(), opts)
	if err != nil || !hit {
		t.Fatalf("second layout: hit %v err %v", hit, err)
	}
	if positions["gran"] != (family.Point{X: 0, Y: -100}) {
		t.Errorf("gran = %+v", positions["gran"])
	}

	doc := fixture()
	doc.Persons[5].X, doc.Persons[5].Y = 999, 999
	applied, err := r.Apply(ctx, doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := applied.Person("mum"); p.X != 50 || p.Y != -50 {
		t.Errorf("mum = %+v", p)
	}
	if p, _ := applied.Person("stranger"); p.X != 999 || p.Y != 999 {
		t.Errorf("unreachable person should keep its position: %+v", p)
	}
	if doc.Persons[2].X != 0 {
		t.Error("Apply must not mutate its input")
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	infers, layouts atomic.Int32
}

func (h *countingHooks) OnInferComplete(context.Context, int, time.Duration, error) {
	h.infers.Add(1)
}

func (h *countingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.layouts.Add(1)
}

type cacheCounter struct {
	observability.NoopCacheHooks
	hits, misses, sets atomic.Int32
}

func (c *cacheCounter) OnCacheHit(context.Context, string)      { c.hits.Add(1) }
func (c *cacheCounter) OnCacheMiss(context.Context, string)     { c.misses.Add(1) }
func (c *cacheCounter) OnCacheSet(context.Context, string, int) { c.sets.Add(1) }

func TestExecuteEmitsHooks(t *testing.T) {
	defer observability.Reset()
	hooks := &countingHooks{}
	counter := &cacheCounter{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(counter)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), fixture(), Options{}); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.infers.Load() != 1 || hooks.layouts.Load() != 1 {
		t.Errorf("engine hooks = %d/%d, want 1/1", hooks.infers.Load(), hooks.layouts.Load())
	}
	if counter.misses.Load() != 1 || counter.hits.Load() != 1 || counter.sets.Load() != 1 {
		t.Errorf("cache hooks miss/hit/set = %d/%d/%d, want 1/1/1",
			counter.misses.Load(), counter.hits.Load(), counter.sets.Load())
	}
}

func TestHashDocumentStable(t *testing.T) {
	a, err := HashDocument(fixture())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashDocument(fixture())
	if a != b {
		t.Error("hash should be deterministic")
	}
	moved := fixture()
	moved.Persons[0].X = 1
	if c, _ := HashDocument(moved); c == a {
		t.Error("positions influence layout and must change the hash")
	}
}
