package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/graph"
)

// runCLI executes the root command with isolated config and cache dirs.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func readDoc(t *testing.T, path string) family.Document {
	t.Helper()
	doc, err := graph.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return doc
}

func TestInitAddLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")

	if err := runCLI(t, "init", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := runCLI(t, "init", path); !kerrors.Is(err, kerrors.ErrCodeConflict) {
		t.Errorf("second init = %v, want CONFLICT", err)
	}

	steps := [][]string{
		{"add", path, family.StarterID, "--as", "parent", "--name", "Mum", "--gender", "female", "--id", "mum"},
		{"add", path, family.StarterID, "--as", "parent", "--name", "Dad", "--gender", "male", "--id", "dad"},
	}
	for _, args := range steps {
		if err := runCLI(t, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	doc := readDoc(t, path)
	if len(doc.Persons) != 3 {
		t.Fatalf("persons = %+v", doc.Persons)
	}
	if len(doc.Relations) != 3 {
		t.Errorf("want two lineage relations and one co-parent spouse relation, got %+v", doc.Relations)
	}

	if err := runCLI(t, "layout", path, "--apply", "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	doc = readDoc(t, path)
	want := map[string]family.Point{
		family.StarterID: {X: 0, Y: 0},
		"mum":            {X: -100, Y: -200},
		"dad":            {X: 100, Y: -200},
	}
	for id, w := range want {
		p, _ := doc.Person(id)
		if p.Position() != w {
			t.Errorf("%s at %+v, want %+v", id, p.Position(), w)
		}
	}
}

func TestLayoutOutputLeavesInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.yaml")
	if err := graph.WriteFile(family.NewDocument(), in); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(in)

	if err := runCLI(t, "layout", in, "-o", out, "--gap", "50"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	after, _ := os.ReadFile(in)
	if string(before) != string(after) {
		t.Error("layout -o must not touch the input")
	}
	if doc := readDoc(t, out); len(doc.Persons) != 1 {
		t.Errorf("output persons = %+v", doc.Persons)
	}
}

func TestRelateJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.toml")
	if err := runCLI(t, "init", path); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "relate", path, "--json"); err != nil {
		t.Errorf("relate: %v", err)
	}
	if err := runCLI(t, "relate", path, "--root", "ghost"); !kerrors.Is(err, kerrors.ErrCodeUnknownPerson) {
		t.Errorf("relate --root ghost = %v, want UNKNOWN_PERSON", err)
	}
}

func TestEditErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	if err := runCLI(t, "init", path); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want kerrors.Code
	}{
		{"remove root", []string{"remove", path, family.StarterID}, kerrors.ErrCodeConflict},
		{"remove unknown", []string{"remove", path, "ghost"}, kerrors.ErrCodeUnknownPerson},
		{"remove unknown relation", []string{"remove", path, "r1", "--relation"}, kerrors.ErrCodeUnknownRelation},
		{"self relation", []string{"connect", path, family.StarterID, family.StarterID, "--type", "spouse"}, kerrors.ErrCodeInvalidInput},
		{"bad type", []string{"connect", path, family.StarterID, "x", "--type", "cousin"}, kerrors.ErrCodeInvalidInput},
		{"bad direction", []string{"add", path, family.StarterID, "--as", "sibling"}, kerrors.ErrCodeInvalidInput},
		{"bad gender", []string{"add", path, family.StarterID, "--as", "child", "--gender", "x"}, kerrors.ErrCodeInvalidInput},
		{"missing file", []string{"relate", filepath.Join(t.TempDir(), "none.json")}, kerrors.ErrCodeFileNotFound},
		{"bad extension", []string{"init", filepath.Join(t.TempDir(), "family.txt")}, kerrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if got := kerrors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}

	if doc := readDoc(t, path); len(doc.Persons) != 1 || len(doc.Relations) != 0 {
		t.Errorf("failed edits must leave the document unchanged: %+v", doc)
	}
}

func TestConnectAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	doc := family.Document{
		Persons: []family.Person{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		RootID:  "a",
	}
	if err := graph.WriteFile(doc, path); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "connect", path, "a", "b", "--type", "spouse"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := runCLI(t, "connect", path, "b", "a", "--type", "spousal"); err != nil {
		t.Fatalf("connect again: %v", err)
	}
	doc = readDoc(t, path)
	if len(doc.Relations) != 1 {
		t.Fatalf("duplicate spouse relation should be a no-op: %+v", doc.Relations)
	}

	if err := runCLI(t, "remove", path, "b"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	doc = readDoc(t, path)
	if len(doc.Persons) != 1 || len(doc.Relations) != 0 {
		t.Errorf("after remove: %+v", doc)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	if err := graph.WriteFile(family.NewDocument(), good); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "validate", good); err != nil {
		t.Errorf("validate good: %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	body := `{"nodes": [{"id": "a"}, {"id": "a", "gender": "other"}], "edges": [{"source": "a", "target": "zz", "type": "lineage"}]}`
	if err := os.WriteFile(bad, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "validate", bad); !errors.Is(err, errInvalidDocument) {
		t.Errorf("validate bad = %v, want errInvalidDocument", err)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "family.json")
	doc := family.NewDocument()
	doc.Overrides = map[string]string{family.RoleMe: "Myself"}
	if err := graph.WriteFile(doc, in); err != nil {
		t.Fatal(err)
	}

	for _, ext := range []string{".yaml", ".toml"} {
		out := filepath.Join(dir, "family"+ext)
		if err := runCLI(t, "convert", in, out); err != nil {
			t.Fatalf("convert %s: %v", ext, err)
		}
		got := readDoc(t, out)
		if len(got.Persons) != 1 || got.RootID != family.StarterID || got.Overrides[family.RoleMe] != "Myself" {
			t.Errorf("%s roundtrip = %+v", ext, got)
		}
	}

	if err := runCLI(t, "convert", in, filepath.Join(dir, "family.csv")); !kerrors.Is(err, kerrors.ErrCodeInvalidFormat) {
		t.Errorf("convert to .csv = %v, want INVALID_FORMAT", err)
	}
}

func TestUnknownConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	if err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "init", path); err == nil {
		t.Error("missing --config file should fail")
	}
}

func TestCompletion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var buf bytes.Buffer
			root.SetOut(&buf)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(buf.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}

	if err := runCLI(t, "completion", "powershell"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestCompletePersonIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	doc := family.Document{
		Persons: []family.Person{{ID: "ada", Name: "Ada"}, {ID: "al", Name: "Al"}, {ID: "bo", Name: "Bo"}},
		RootID:  "ada",
	}
	if err := graph.WriteFile(doc, path); err != nil {
		t.Fatal(err)
	}

	got, dir := completePersonIDs(nil, []string{path}, "a")
	want := []string{"ada\tAda", "al\tAl"}
	if strings.Join(got, ",") != strings.Join(want, ",") || dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("completePersonIDs = %q, %v", got, dir)
	}

	if _, dir := completePersonIDs(nil, []string{filepath.Join(t.TempDir(), "none.json")}, ""); dir != cobra.ShellCompDirectiveError {
		t.Errorf("missing document directive = %v", dir)
	}
}

func TestEditPerson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.yaml")
	if err := runCLI(t, "init", path); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "edit", path, family.StarterID, "--name", "Grace", "--gender", "female"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	p, _ := readDoc(t, path).Person(family.StarterID)
	if p.Name != "Grace" || p.Gender != family.GenderFemale {
		t.Errorf("after edit: %+v", p)
	}

	if err := runCLI(t, "edit", path, family.StarterID, "--gender", "male"); err != nil {
		t.Fatalf("edit gender: %v", err)
	}
	p, _ = readDoc(t, path).Person(family.StarterID)
	if p.Name != "Grace" || p.Gender != family.GenderMale {
		t.Errorf("only the gender should change: %+v", p)
	}

	tests := []struct {
		name string
		args []string
		want kerrors.Code
	}{
		{"no flags", []string{"edit", path, family.StarterID}, kerrors.ErrCodeInvalidInput},
		{"unknown person", []string{"edit", path, "ghost", "--name", "X"}, kerrors.ErrCodeUnknownPerson},
		{"bad gender", []string{"edit", path, family.StarterID, "--gender", "robot"}, kerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kerrors.GetCode(runCLI(t, tt.args...)); got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddSpouseLeft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	if err := runCLI(t, "init", path); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "add", path, family.StarterID, "--as", "spouse-left", "--id", "wife"); err != nil {
		t.Fatalf("add: %v", err)
	}

	doc := readDoc(t, path)
	p, _ := doc.Person("wife")
	if p.X != -family.DefaultSiblingGap || p.Y != 0 {
		t.Errorf("left spouse at %+v", p.Position())
	}
	if len(doc.Relations) != 1 || doc.Relations[0].Source != "wife" || doc.Relations[0].Target != family.StarterID {
		t.Errorf("relations = %+v", doc.Relations)
	}
}
