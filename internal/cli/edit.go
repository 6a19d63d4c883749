package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/graph"
)

// =============================================================================
// init
// =============================================================================

func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [document]",
		Short: "Create a starter family document",
		Long: `Create a starter family document containing a single person, "Me",
who is also the reference person. The format follows the file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := kerrors.ValidateDocumentPath(path); err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return kerrors.New(kerrors.ErrCodeConflict, "%s already exists (use --force to overwrite)", path)
			}
			if err := graph.WriteFile(family.NewDocument(), path); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printSuccess("Created family document")
			printFile(path)
			printNewline()
			printNextStep("Add a parent", fmt.Sprintf("kintree add %s %s --as parent --name Mum --gender female", path, family.StarterID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// =============================================================================
// connect
// =============================================================================

func (c *CLI) connectCommand() *cobra.Command {
	var (
		relType string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "connect [document] [source] [target]",
		Short: "Add a parent or spouse relation between two persons",
		Long: `Add a parent or spouse relation between two persons.

For --type lineage, source is the parent and target the child. Any other
parent of the child that is not yet married to source is linked to it with
a spouse relation. Adding a relation that already exists changes nothing.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := family.ParseRelationType(relType)
			if err != nil {
				return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid --type")
			}
			return c.edit(args[0], output, func(doc family.Document) (family.Document, error) {
				for _, id := range args[1:] {
					if err := kerrors.ValidatePersonID(id); err != nil {
						return doc, err
					}
				}
				out, err := doc.Connect(args[1], args[2], t)
				if err != nil {
					return doc, err
				}
				printSuccess("Connected %s %s %s", args[1], StyleHighlight.Render(string(t)), args[2])
				if added := len(out.Relations) - len(doc.Relations); added > 1 {
					printDetail("%d co-parent spouse relations added", added-1)
				} else if added == 0 {
					printDetail("relation already present")
				}
				return out, nil
			})
		},
	}

	cmd.Flags().StringVarP(&relType, "type", "t", string(family.Lineage), "relation type: lineage or spouse")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of in place")
	return cmd
}

// =============================================================================
// add
// =============================================================================

func (c *CLI) addCommand() *cobra.Command {
	var (
		as     string
		name   string
		gender string
		id     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "add [document] [anchor]",
		Short: "Add a parent, child or spouse of an existing person",
		Long: `Add a parent, child or spouse of an existing person.

The new person is placed one generation above (parent), one generation below
(child) or beside the anchor, to the right (spouse) or to the left
(spouse-left). Run "kintree layout --apply" to tidy up.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := family.ParseDirection(as)
			if err != nil {
				return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid --as")
			}
			g, err := family.ParseGender(gender)
			if err != nil {
				return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid --gender")
			}
			if err := kerrors.ValidateName(name); err != nil {
				return err
			}
			if id != "" {
				if err := kerrors.ValidatePersonID(id); err != nil {
					return err
				}
			}
			return c.edit(args[0], output, func(doc family.Document) (family.Document, error) {
				out, p, err := doc.AddRelative(args[1], dir, family.Person{ID: id, Name: name, Gender: g})
				if err != nil {
					return doc, err
				}
				printSuccess("Added %s as %s of %s", StyleHighlight.Render(p.Name), dir, args[1])
				printDetail("id %s", p.ID)
				return out, nil
			})
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "relation to the anchor: parent, child, spouse or spouse-left")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&gender, "gender", "g", string(family.GenderNeutral), "male, female or neutral")
	cmd.Flags().StringVar(&id, "id", "", "person id (default: generated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of in place")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

// =============================================================================
// edit
// =============================================================================

func (c *CLI) editCommand() *cobra.Command {
	var (
		name   string
		gender string
		output string
	)

	cmd := &cobra.Command{
		Use:   "edit [document] [id]",
		Short: "Rename a person or change their gender",
		Long: `Rename a person or change their gender. Only the flags given are changed.
Gender decides the wording of labels ("Brother" or "Sister").`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				newName   *string
				newGender *family.Gender
			)
			if cmd.Flags().Changed("name") {
				if err := kerrors.ValidateName(name); err != nil {
					return err
				}
				newName = &name
			}
			if cmd.Flags().Changed("gender") {
				g, err := family.ParseGender(gender)
				if err != nil {
					return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid --gender")
				}
				newGender = &g
			}
			if newName == nil && newGender == nil {
				return kerrors.New(kerrors.ErrCodeInvalidInput, "nothing to change: pass --name or --gender")
			}
			return c.edit(args[0], output, func(doc family.Document) (family.Document, error) {
				out, err := doc.UpdatePerson(args[1], newName, newGender)
				if err != nil {
					return doc, err
				}
				printSuccess("Updated %s", args[1])
				return out, nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new display name")
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "new gender: male, female or neutral")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of in place")
	return cmd
}

// =============================================================================
// remove
// =============================================================================

func (c *CLI) removeCommand() *cobra.Command {
	var (
		relation bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "remove [document] [id]",
		Short: "Remove a person (with their relations) or a single relation",
		Long: `Remove a person together with every relation touching them, or with
--relation a single relation. The reference person cannot be removed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(args[0], output, func(doc family.Document) (family.Document, error) {
				if relation {
					out, err := doc.RemoveRelation(args[1])
					if err != nil {
						return doc, err
					}
					printSuccess("Removed relation %s", args[1])
					return out, nil
				}
				out, err := doc.RemovePerson(args[1])
				if err != nil {
					return doc, err
				}
				printSuccess("Removed %s", args[1])
				printDetail("%d relations removed", len(doc.Relations)-len(out.Relations))
				return out, nil
			})
		},
	}

	cmd.Flags().BoolVar(&relation, "relation", false, "treat id as a relation id")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of in place")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// edit loads input, applies fn and writes the result to output (or back to
// input).
func (c *CLI) edit(input, output string, fn func(family.Document) (family.Document, error)) error {
	doc, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	out, err := fn(doc)
	if err != nil {
		return editError(err)
	}
	if output == "" {
		output = input
	}
	if err := graph.WriteFile(out, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	c.Logger.Debug("document written", "path", output, "persons", len(out.Persons), "relations", len(out.Relations))
	printFile(output)
	return nil
}

// editError attaches an error code to the family package's sentinel errors.
func editError(err error) error {
	switch {
	case kerrors.GetCode(err) != "":
		return err
	case errors.Is(err, family.ErrUnknownPerson):
		return kerrors.Wrap(kerrors.ErrCodeUnknownPerson, err, "%s", err.Error())
	case errors.Is(err, family.ErrRelationNotFound):
		return kerrors.Wrap(kerrors.ErrCodeUnknownRelation, err, "%s", err.Error())
	case errors.Is(err, family.ErrDuplicatePersonID), errors.Is(err, family.ErrRootDeletion):
		return kerrors.Wrap(kerrors.ErrCodeConflict, err, "%s", err.Error())
	}
	return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "%s", err.Error())
}
