package layout

// item is one person with the x it would like to sit at.
type item struct {
	id      string
	desired float64
}

// block is a run of persons forced to move together, spaced by the gap.
type block struct {
	ids          []string
	totalDesired float64
	width        float64
}

func (b block) center() float64 { return b.totalDesired / float64(len(b.ids)) }

func (b block) left() float64 { return b.center() - b.width/2 }

func (b block) right() float64 { return b.center() + b.width/2 }

// resolve removes overlaps from an ordered list of items. Each new item starts
// as its own block and absorbs the previous block while the two would sit
// closer than gap. Blocks are centred on their mean desired x.
func resolve(items []item, gap float64) map[string]float64 {
	var stack []block
	for _, it := range items {
		curr := block{ids: []string{it.id}, totalDesired: it.desired}
		for len(stack) > 0 {
			prev := stack[len(stack)-1]
			if prev.right()+gap <= curr.left()+mergeEpsilon {
				break
			}
			stack = stack[:len(stack)-1]
			ids := make([]string, 0, len(prev.ids)+len(curr.ids))
			ids = append(append(ids, prev.ids...), curr.ids...)
			curr = block{
				ids:          ids,
				totalDesired: prev.totalDesired + curr.totalDesired,
				width:        float64(len(ids)-1) * gap,
			}
		}
		stack = append(stack, curr)
	}

	out := make(map[string]float64, len(items))
	for _, b := range stack {
		start := b.left()
		for i, id := range b.ids {
			out[id] = start + float64(i)*gap
		}
	}
	return out
}
