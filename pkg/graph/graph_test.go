package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
)

// browserExport is a document as saved by the browser editor.
const browserExport = `{
  "nodes": [
    {"id": "1", "name": "Me", "gender": "neutral", "x": 0, "y": 0},
    {"id": "2", "name": "Dad", "gender": "male", "x": -100, "y": -200},
    {"id": "3", "name": "Mum", "gender": "female", "x": 100, "y": -200}
  ],
  "edges": [
    {"id": "e1", "source": "2", "target": "1", "type": "lineage"},
    {"id": "e2", "source": "3", "target": "1", "type": "lineage"},
    {"id": "e3", "source": "2", "target": "3", "type": "spouse"}
  ],
  "rootId": "1",
  "relationshipMap": {"me": "Myself"}
}`

func sample() family.Document {
	d, err := Unmarshal([]byte(browserExport), FormatJSON)
	if err != nil {
		panic(err)
	}
	return d
}

func TestUnmarshalBrowserExport(t *testing.T) {
	d := sample()
	if len(d.Persons) != 3 || len(d.Relations) != 3 {
		t.Fatalf("got %d persons, %d relations", len(d.Persons), len(d.Relations))
	}
	if d.RootID != "1" {
		t.Errorf("RootID = %q, want 1", d.RootID)
	}
	if d.Overrides[family.RoleMe] != "Myself" {
		t.Errorf("Overrides = %v", d.Overrides)
	}
	dad := d.Persons[1]
	if dad.Gender != family.GenderMale || dad.X != -100 || dad.Y != -200 {
		t.Errorf("dad = %+v", dad)
	}
	if d.Relations[2].Type != family.Spouse {
		t.Errorf("relation e3 type = %q", d.Relations[2].Type)
	}
}

func TestToDocumentDefaults(t *testing.T) {
	tests := []struct {
		name  string
		in    Document
		check func(t *testing.T, d family.Document)
	}{
		{
			name: "root defaults to first node",
			in:   Document{Nodes: []Node{{ID: "a"}, {ID: "b"}}},
			check: func(t *testing.T, d family.Document) {
				if d.RootID != "a" {
					t.Errorf("RootID = %q, want a", d.RootID)
				}
			},
		},
		{
			name: "empty nodes keep empty root",
			in:   Document{Nodes: []Node{}},
			check: func(t *testing.T, d family.Document) {
				if d.RootID != "" || len(d.Persons) != 0 {
					t.Errorf("got %+v", d)
				}
			},
		},
		{
			name: "missing gender is neutral",
			in:   Document{Nodes: []Node{{ID: "a"}}},
			check: func(t *testing.T, d family.Document) {
				if d.Persons[0].Gender != family.GenderNeutral {
					t.Errorf("Gender = %q", d.Persons[0].Gender)
				}
			},
		},
		{
			name: "spousal alias",
			in: Document{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Edges: []Edge{{ID: "e", Source: "a", Target: "b", Type: "spousal"}},
			},
			check: func(t *testing.T, d family.Document) {
				if d.Relations[0].Type != family.Spouse {
					t.Errorf("Type = %q, want spouse", d.Relations[0].Type)
				}
			},
		},
		{
			name: "unknown type kept for validation",
			in: Document{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Edges: []Edge{{ID: "e", Source: "a", Target: "b", Type: "friend"}},
			},
			check: func(t *testing.T, d family.Document) {
				if d.Relations[0].Type != "friend" {
					t.Errorf("Type = %q", d.Relations[0].Type)
				}
				if d.Validate() == nil {
					t.Error("Validate should reject unknown relation type")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ToDocument(tt.in)
			if err != nil {
				t.Fatalf("ToDocument: %v", err)
			}
			tt.check(t, d)
		})
	}
}

func TestToDocumentMissingNodes(t *testing.T) {
	_, err := ToDocument(Document{Edges: []Edge{{ID: "e"}}})
	if !kerrors.Is(err, kerrors.ErrCodeInvalidDocument) {
		t.Errorf("err = %v, want INVALID_DOCUMENT", err)
	}

	_, err = Unmarshal([]byte(`{"edges": []}`), FormatJSON)
	if !kerrors.Is(err, kerrors.ErrCodeInvalidDocument) {
		t.Errorf("err = %v, want INVALID_DOCUMENT", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	want := sample()
	dir := t.TempDir()

	for _, ext := range []string{"json", "toml", "yaml", "yml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "family."+ext)
			if err := WriteFile(want, path); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if len(got.Persons) != len(want.Persons) || len(got.Relations) != len(want.Relations) {
				t.Fatalf("got %d/%d, want %d/%d", len(got.Persons), len(got.Relations), len(want.Persons), len(want.Relations))
			}
			for i := range want.Persons {
				if got.Persons[i] != want.Persons[i] {
					t.Errorf("person %d = %+v, want %+v", i, got.Persons[i], want.Persons[i])
				}
			}
			for i := range want.Relations {
				if got.Relations[i] != want.Relations[i] {
					t.Errorf("relation %d = %+v, want %+v", i, got.Relations[i], want.Relations[i])
				}
			}
			if got.RootID != want.RootID || got.Overrides[family.RoleMe] != "Myself" {
				t.Errorf("root %q overrides %v", got.RootID, got.Overrides)
			}
		})
	}
}

func TestReadTOMLByHand(t *testing.T) {
	src := `
rootId = "me"

[relationshipMap]
me = "Self"

[[nodes]]
id = "me"
name = "Me"
x = 0.0
y = 0.0

[[nodes]]
id = "kid"
name = "Kid"
gender = "female"
x = 0.0
y = 200.0

[[edges]]
id = "e1"
source = "me"
target = "kid"
type = "lineage"
`
	d, err := Read(strings.NewReader(src), FormatTOML)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if d.RootID != "me" || len(d.Persons) != 2 || d.Persons[1].Y != 200 {
		t.Errorf("got %+v", d)
	}
	if d.Overrides["me"] != "Self" {
		t.Errorf("Overrides = %v", d.Overrides)
	}
}

func TestReadYAMLByHand(t *testing.T) {
	src := `
nodes:
  - {id: a, name: A, gender: male, x: 0, y: 0}
  - {id: b, name: B, gender: female, x: 200, y: 0}
edges:
  - {id: e1, source: a, target: b, type: spousal}
`
	d, err := Read(strings.NewReader(src), FormatYAML)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if d.RootID != "a" {
		t.Errorf("RootID = %q, want a", d.RootID)
	}
	if d.Relations[0].Type != family.Spouse {
		t.Errorf("Type = %q", d.Relations[0].Type)
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		want kerrors.Code
	}{
		{"missing file", filepath.Join(dir, "nope.json"), kerrors.ErrCodeFileNotFound},
		{"bad extension", write("family.txt", "{}"), kerrors.ErrCodeInvalidFormat},
		{"malformed json", write("bad.json", "{"), kerrors.ErrCodeInvalidFormat},
		{"malformed yaml", write("bad.yaml", "nodes: [\n"), kerrors.ErrCodeInvalidFormat},
		{"empty yaml", write("empty.yaml", ""), kerrors.ErrCodeInvalidDocument},
		{"duplicate ids", write("dup.json", `{"nodes":[{"id":"a"},{"id":"a"}]}`), kerrors.ErrCodeInvalidDocument},
		{"unknown root", write("root.json", `{"nodes":[{"id":"a"}],"rootId":"z"}`), kerrors.ErrCodeInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(tt.path)
			if got := kerrors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestDecodeFileSkipsValidation(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dup.json")
	if err := os.WriteFile(p, []byte(`{"nodes":[{"id":"a"},{"id":"a"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := DecodeFile(p)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if d.Validate() == nil {
		t.Error("decoded document should still fail validation")
	}
}

func TestMarshalJSONLayout(t *testing.T) {
	data, err := Marshal(family.NewDocument(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"nodes": [`, `"edges": []`, `"rootId": "1"`, `"gender": "neutral"`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("output missing %s:\n%s", want, data)
		}
	}
	if bytes.Contains(data, []byte("relationshipMap")) {
		t.Errorf("empty overrides should be omitted:\n%s", data)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{".TOML", FormatTOML, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFromAdjacency(t *testing.T) {
	d := sample()
	a := FromAdjacency(family.BuildAdjacency(d.Persons, d.Relations))
	if got := a.ParentsOf["1"]; len(got) != 2 || got[0] != "2" || got[1] != "3" {
		t.Errorf("ParentsOf[1] = %v", got)
	}
	if got := a.SpousesOf["3"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("SpousesOf[3] = %v", got)
	}
	if a.ChildrenOf == nil || a.SpousesOf == nil {
		t.Error("maps should never be nil")
	}
}

func TestResultRoundTrip(t *testing.T) {
	in := Result{
		RootID:        "1",
		Relationships: map[string]string{"1": "Me", "2": "Father"},
		Positions:     FromPoints(map[string]family.Point{"1": {X: 0, Y: 0}, "2": {X: -100, Y: -200}}),
		Levels:        map[string]int{"1": 0, "2": -1},
	}
	data, err := MarshalResult(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := UnmarshalResult(data)
	if err != nil {
		t.Fatal(err)
	}
	if out.Relationships["2"] != "Father" || ToPoints(out.Positions)["2"] != (family.Point{X: -100, Y: -200}) || out.Levels["2"] != -1 {
		t.Errorf("round trip lost data: %+v", out)
	}
}
