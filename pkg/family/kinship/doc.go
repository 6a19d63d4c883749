// Package kinship derives natural-language kinship labels relative to a
// reference person.
//
// # Algorithm
//
// [Infer] walks the family graph breadth-first from the reference person.
// Each node offers its unvisited neighbours in a fixed order (parents, then
// children, then spouses), tagging the hop with a [Step]:
//
//	U  move to a parent
//	D  move to a child
//	H  move to a spouse
//
// A person is visited once; the step sequence of its first discovery is its
// path. When several equal-length paths exist, the exploration order decides
// which one wins and no alternative is considered.
//
// [Normalize] then collapses every U immediately followed by D that lands on
// a different person into a single sibling hop S, so "my parent's other
// child" becomes a sibling instead of a compound term.
//
// [Label] maps the normalized path onto a term through an ordered list of
// shape checks:
//
//	H            Spouse
//	H U...       Parent-in-law, Grandparent-in-law, Great-...-in-law
//	H S D...     Sibling-in-law, Niece/Nephew-in-law, ...
//	U...         Parent, Grandparent, Great-Grandparent, ...
//	D...         Child, Grandchild, Great-Grandchild, ...
//	S D...       Sibling, Niece/Nephew, Great-Grand-niece/nephew, ...
//	U... S D...  Aunt/Uncle, Nth Cousin Mx Removed
//	D H          Child-in-law
//
// Anything else is a "Relative".
//
// # Gendering
//
// Every base noun has a male, female and neutral surface form chosen by the
// target person's gender (Father/Mother/Parent, Uncle/Aunt/Pibling, ...).
// Prefixes ("Great-") and suffixes ("-in-law") wrap the gendered noun.
// Cousin labels are not gendered.
//
// # Concurrency
//
// Infer is a pure function over its arguments and may be called from many
// goroutines at once.
package kinship
