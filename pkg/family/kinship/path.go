package kinship

import "strings"

// Step is one hop of a kinship path.
type Step byte

const (
	StepUp      Step = 'U' // to a parent
	StepDown    Step = 'D' // to a child
	StepSpouse  Step = 'H' // to a spouse
	StepSibling Step = 'S' // normalized U+D to a different person
)

// String returns the step code.
func (s Step) String() string { return string(s) }

// Path is the route the traversal took to reach a person. Nodes has one more
// element than Steps: Nodes[0] is the reference person and Nodes[i+1] the
// person reached by Steps[i].
type Path struct {
	Steps []Step
	Nodes []string
}

// extend returns a copy of p with one more hop.
func (p Path) extend(s Step, id string) Path {
	steps := make([]Step, len(p.Steps)+1)
	copy(steps, p.Steps)
	steps[len(p.Steps)] = s

	nodes := make([]string, len(p.Nodes)+1)
	copy(nodes, p.Nodes)
	nodes[len(p.Nodes)] = id

	return Path{Steps: steps, Nodes: nodes}
}

// String renders the step codes, e.g. "UUD".
func (p Path) String() string { return encode(p.Steps) }

func encode(steps []Step) string {
	var b strings.Builder
	for _, s := range steps {
		b.WriteByte(byte(s))
	}
	return b.String()
}

// Normalize scans steps left to right without overlap and replaces each U
// immediately followed by D with S, provided the walk came back down to a
// different person than the one it went up from. nodes must follow the
// [Path] convention (len(nodes) == len(steps)+1).
func Normalize(steps []Step, nodes []string) []Step {
	if len(steps) <= 1 {
		return steps
	}
	out := make([]Step, 0, len(steps))
	for i := 0; i < len(steps); {
		if i+1 < len(steps) && steps[i] == StepUp && steps[i+1] == StepDown && nodes[i] != nodes[i+2] {
			out = append(out, StepSibling)
			i += 2
			continue
		}
		out = append(out, steps[i])
		i++
	}
	return out
}
