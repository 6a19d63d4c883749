package kinship

import "github.com/kintree/kintree/pkg/family"

// Label maps a normalized path to a kinship label for a target of gender g.
// The shape checks run in a fixed order; the first match wins and
// [FallbackLabel] is returned only when none matches. An empty path yields
// [DefaultRootLabel].
func Label(norm []Step, g family.Gender) string {
	g = g.Normalize()
	n := len(norm)
	if n == 0 {
		return DefaultRootLabel
	}

	if n == 1 && norm[0] == StepSpouse {
		return label{noun: termSpouse}.render(g)
	}

	// Through the spouse: in-laws.
	if norm[0] == StepSpouse {
		rest := norm[1:]
		if all(rest, StepUp) {
			return ascending(len(rest), true).render(g)
		}
		if rest[0] == StepSibling {
			if len(rest) == 1 {
				return collateral(0, true).render(g)
			}
			if all(rest[1:], StepDown) {
				return collateral(len(rest)-1, true).render(g)
			}
		}
	}

	if all(norm, StepUp) {
		return ascending(n, false).render(g)
	}
	if all(norm, StepDown) {
		return descending(n).render(g)
	}
	if norm[0] == StepSibling && all(norm[1:], StepDown) {
		return collateral(n-1, false).render(g)
	}

	if s := indexOf(norm, StepSibling); s > 0 && all(norm[:s], StepUp) && all(norm[s+1:], StepDown) {
		ups, downs := s, n-s-1
		if downs == 0 {
			return pibling(ups).render(g)
		}
		removed := ups - downs
		if removed < 0 {
			removed = -removed
		}
		return Cousin(min(ups, downs), removed)
	}

	if n == 2 && norm[0] == StepDown && norm[1] == StepSpouse {
		return label{noun: termChild, inLaw: true}.render(g)
	}

	return FallbackLabel
}

// all reports whether every step equals want. It is true for an empty slice.
func all(steps []Step, want Step) bool {
	for _, s := range steps {
		if s != want {
			return false
		}
	}
	return true
}

func indexOf(steps []Step, want Step) int {
	for i, s := range steps {
		if s == want {
			return i
		}
	}
	return -1
}
