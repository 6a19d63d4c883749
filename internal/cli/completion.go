package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/graph"
)

// completionCommand prints a completion script. Besides subcommands and
// flags, the scripts complete person ids for --root from the document named
// on the command line.
func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	}

	return &cobra.Command{
		Use:   "completion bash|zsh|fish",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for kintree.

  $ source <(kintree completion bash)
  $ kintree completion zsh > "${fpath[1]}/_kintree"
  $ kintree completion fish > ~/.config/fish/completions/kintree.fish

Person ids are completed for --root from the document argument.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completePersonIDs suggests "id\tname" pairs from the document in args[0].
func completePersonIDs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	doc, err := graph.ReadFile(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, p := range doc.Persons {
		if strings.HasPrefix(p.ID, toComplete) {
			out = append(out, fmt.Sprintf("%s\t%s", p.ID, p.Name))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
