package main

import (
	"context"
	"os"
	"strings"

	"github.com/jacksmith/snip/internal/model"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for snip.

To load completions:

Bash:
  $ source <(snip completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ snip completion bash > /etc/bash_completion.d/snip
  # macOS:
  $ snip completion bash > $(brew --prefix)/etc/bash_completion.d/snip

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ snip completion zsh > "${fpath[1]}/_snip"

Fish:
  $ snip completion fish | source
  # To load completions for each session, execute once:
  $ snip completion fish > ~/.config/fish/completions/snip.fish
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd, completionZshCmd, completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// loadForCompletion reads the stored data without reporting errors, which
// would end up in the user's shell.
func loadForCompletion() (*model.StorageData, bool) {
	a, err := openApp(context.Background())
	if err != nil {
		return nil, false
	}
	defer a.Close()
	return a.session.Snapshot(), true
}

// completeGroupRefs completes group IDs and names.
func completeGroupRefs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	d, ok := loadForCompletion()
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return groupCompletions(d, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeTemplateIDs completes template IDs, described by name.
func completeTemplateIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	d, ok := loadForCompletion()
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return templateCompletions(d, nil, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeGroupThenTemplates completes a group, then that group's templates.
func completeGroupThenTemplates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	d, ok := loadForCompletion()
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if len(args) == 0 {
		return groupCompletions(d, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
	var gid *int
	if id, err := model.ParseGroupID(args[0]); err == nil {
		gid = model.GroupRef(id)
	} else {
		for _, g := range d.Groups {
			if strings.EqualFold(g.Name, args[0]) {
				gid = model.GroupRef(g.ID)
			}
		}
	}
	if gid == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return templateCompletions(d, gid, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func groupCompletions(d *model.StorageData, toComplete string) []string {
	r := newRefs(d)
	prefix := strings.ToLower(toComplete)
	var out []string
	for _, g := range d.SortedGroups() {
		ref := r.group(g.ID)
		if strings.HasPrefix(strings.ToLower(ref), prefix) {
			out = append(out, ref+"\t"+g.DisplayName())
		}
		if g.Name != "" && !strings.ContainsAny(g.Name, " \t") && strings.HasPrefix(strings.ToLower(g.Name), prefix) {
			out = append(out, g.Name)
		}
	}
	return out
}

// templateCompletions lists templates of group gid, or all templates when
// gid is nil.
func templateCompletions(d *model.StorageData, gid *int, toComplete string) []string {
	r := newRefs(d)
	prefix := strings.ToLower(toComplete)
	var out []string
	for _, b := range d.Buckets() {
		if gid != nil && (b.Orphan || b.Group.ID != *gid) {
			continue
		}
		for _, t := range b.Templates {
			ref := r.template(t.ID)
			if strings.HasPrefix(strings.ToLower(ref), prefix) {
				out = append(out, ref+"\t"+groupLabel(d, t)+": "+t.Name)
			}
		}
	}
	return out
}
