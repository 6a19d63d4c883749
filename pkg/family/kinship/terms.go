package kinship

import (
	"fmt"
	"strings"

	"github.com/kintree/kintree/pkg/family"
)

// term is a base kinship noun with its three surface forms.
type term struct {
	male, female, neutral string
}

func (t term) form(g family.Gender) string {
	switch g {
	case family.GenderMale:
		return t.male
	case family.GenderFemale:
		return t.female
	}
	return t.neutral
}

var (
	termParent       = term{"Father", "Mother", "Parent"}
	termGrandparent  = term{"Grandfather", "Grandmother", "Grandparent"}
	termSibling      = term{"Brother", "Sister", "Sibling"}
	termChild        = term{"Son", "Daughter", "Child"}
	termGrandchild   = term{"Grandson", "Granddaughter", "Grandchild"}
	termNibling      = term{"Nephew", "Niece", "Nibling"}
	termGrandNibling = term{"Grandnephew", "Grandniece", "Grandnibling"}
	termPibling      = term{"Uncle", "Aunt", "Pibling"}
	termSpouse       = term{"Husband", "Wife", "Spouse"}
)

const (
	greatPrefix = "Great-"
	inLawSuffix = "-in-law"

	// FallbackLabel is used for paths that match no known shape.
	FallbackLabel = "Relative"

	// DefaultRootLabel is the reference person's label when no override is set.
	DefaultRootLabel = "Me"
)

// label composes "Great-" x greats + gendered noun + suffix.
type label struct {
	greats int
	noun   term
	inLaw  bool
}

func (l label) render(g family.Gender) string {
	s := strings.Repeat(greatPrefix, l.greats) + l.noun.form(g)
	if l.inLaw {
		s += inLawSuffix
	}
	return s
}

// ascending returns Parent, Grandparent, then Great-Grandparent chains for n
// generations up.
func ascending(n int, inLaw bool) label {
	switch n {
	case 1:
		return label{noun: termParent, inLaw: inLaw}
	case 2:
		return label{noun: termGrandparent, inLaw: inLaw}
	}
	return label{greats: n - 2, noun: termGrandparent, inLaw: inLaw}
}

// descending returns Child, Grandchild, then Great-Grandchild chains.
func descending(n int) label {
	switch n {
	case 1:
		return label{noun: termChild}
	case 2:
		return label{noun: termGrandchild}
	}
	return label{greats: n - 2, noun: termGrandchild}
}

// collateral returns the label for a sibling's line k generations down.
func collateral(k int, inLaw bool) label {
	switch k {
	case 0:
		return label{noun: termSibling, inLaw: inLaw}
	case 1:
		return label{noun: termNibling, inLaw: inLaw}
	}
	return label{greats: k - 1, noun: termGrandNibling, inLaw: inLaw}
}

// pibling returns Aunt/Uncle for u generations above the shared sibling hop.
func pibling(u int) label {
	return label{greats: u - 1, noun: termPibling}
}

// Cousin formats a cousin label, e.g. "2nd Cousin 1x Removed".
func Cousin(degree, removed int) string {
	var base string
	switch degree {
	case 1:
		base = "1st Cousin"
	case 2:
		base = "2nd Cousin"
	case 3:
		base = "3rd Cousin"
	default:
		base = fmt.Sprintf("%dth Cousin", degree)
	}
	if removed == 0 {
		return base
	}
	return fmt.Sprintf("%s %dx Removed", base, removed)
}
