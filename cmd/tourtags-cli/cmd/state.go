package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tourtags/internal/application/commands"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset saved view state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved layout and expanded paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewShowViewStateCommand(env.State, env.Config.View.Name).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, path := range result.Paths {
			segs := make([]string, len(path))
			for i, s := range path {
				segs[i] = s.String()
			}
			fmt.Println("  " + strings.Join(segs, " > "))
		}
		if result.Defect != nil {
			fmt.Printf("  (stream defect: %v)\n", result.Defect)
		}
		fmt.Printf("  tokens: %v\n", result.State.Expanded)
		return nil
	},
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved state of the view",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewClearViewStateCommand(env.State, env.Config.View.Name).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List views with saved state",
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := env.State.Views()
		if err != nil {
			return err
		}
		for _, v := range views {
			fmt.Println(v)
		}
		return nil
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand <node-key>...",
	Short: "Expand nodes in the saved view",
	Long: `Expand nodes, and every node above them, in the saved view.

Examples:
  tourtags-cli expand tag:3 year:3/2022
  tourtags-cli expand month:3/2022-04`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleNodes(args, true)
	},
}

var collapseCmd = &cobra.Command{
	Use:   "collapse <node-key>...",
	Short: "Collapse nodes in the saved view",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleNodes(args, false)
	},
}

func toggleNodes(args []string, expand bool) error {
	ctx := context.Background()
	keys, err := parseKeys(args)
	if err != nil {
		return err
	}
	tree, err := openView(ctx)
	if err != nil {
		return err
	}

	for _, key := range keys {
		id, ok := tree.Locate(ctx, key)
		if !ok {
			fmt.Printf("  not found %s\n", key)
			continue
		}
		if !expand {
			tree.Collapse(id)
			continue
		}
		for p := tree.Parent(id); p > 0; p = tree.Parent(p) {
			tree.Expand(ctx, p)
		}
		tree.Expand(ctx, id)
	}
	return saveView(ctx, tree)
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateClearCmd)
	stateCmd.AddCommand(stateListCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(collapseCmd)
}
