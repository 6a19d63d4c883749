package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/graph"
)

// errInvalidDocument is returned after the problems have been printed.
var errInvalidDocument = errors.New("document is invalid")

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [document]",
		Short: "Check a family document for structural problems",
		Long: `Check a family document for structural problems.

Errors: missing or duplicate person ids, unknown genders, unknown relation
types, relations with an empty endpoint and a root that is not a person.

Warnings: relations pointing at persons that do not exist. The engines
ignore these relations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0])
		},
	}
}

func (c *CLI) runValidate(input string) error {
	doc, err := graph.DecodeFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	problems := unjoin(doc.Validate())
	for _, p := range problems {
		printError("%v", p)
	}
	dangling := doc.Dangling()
	for _, r := range dangling {
		printWarning("relation %s (%s %s -> %s) references an unknown person", r.ID, r.Type, r.Source, r.Target)
	}

	if len(problems) > 0 {
		printDetail("%d errors, %d warnings", len(problems), len(dangling))
		return errInvalidDocument
	}
	printSuccess("%s is valid", input)
	printDetail("%d persons, %d relations, %d warnings", len(doc.Persons), len(doc.Relations), len(dangling))
	return nil
}

// unjoin splits an errors.Join result back into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
