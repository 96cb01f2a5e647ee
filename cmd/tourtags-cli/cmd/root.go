package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tourtags/internal/app"
	"tourtags/internal/application/commands"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/config"
	"tourtags/internal/domain"
)

// skipOpen marks commands that must run without a valid config or open
// stores.
const skipOpen = "skip-open"

var (
	configPath string
	viewName   string
	layoutFlag string

	env *app.App
)

var rootCmd = &cobra.Command{
	Use:   "tourtags-cli",
	Short: "CLI for browsing tours by tag",
	Long: `tourtags-cli browses a tour database through its tag tree.

Tags are grouped by category, or listed flat, and every tag expands into
years, months and tours with aggregated statistics. The expanded state of
the tree is saved per view and restored on the next run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Annotations[skipOpen] != "" {
			return nil
		}

		var cfg *config.Config
		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if viewName != "" {
			cfg.View.Name = viewName
		}

		env, err = app.Open(cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return env.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a tourtags.yaml config file")
	rootCmd.PersistentFlags().StringVar(&viewName, "view", "", "name of the persisted view (default from config)")
	rootCmd.PersistentFlags().StringVarP(&layoutFlag, "layout", "l", "", "root layout: flat or hierarchical (default: saved layout)")
}

// openView builds the tree of the current view and restores its expand
// state. Warnings go to stderr.
func openView(ctx context.Context) (*tagtree.Tree, error) {
	opts, err := env.TreeOptions()
	if err != nil {
		return nil, err
	}

	open := commands.NewOpenViewCommand(env.Tours, env.State, env.Config.View.Name, opts...)
	open.Layout = env.LayoutOverride()
	if layoutFlag != "" {
		l, err := domain.ParseLayout(layoutFlag)
		if err != nil {
			return nil, err
		}
		open.Layout = &l
	}

	result, err := open.Execute(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	env.Log.Debug().Int("restored", result.Restored).Msg(result.Message)
	return result.Tree, nil
}

// saveView persists the tree's layout and expand state.
func saveView(ctx context.Context, tree *tagtree.Tree) error {
	_, err := commands.NewSaveViewStateCommand(env.State, env.Config.View.Name, tree).Execute(ctx)
	return err
}

// applyEvents patches the restored view with committed changes, prints the
// resulting notifications and saves the view.
func applyEvents(ctx context.Context, events ...domain.Event) error {
	tree, err := openView(ctx)
	if err != nil {
		return err
	}

	unsubscribe := tree.Subscribe(func(n tagtree.Notification) {
		fmt.Printf("  %-8s %s\n", n.Kind, n.Key)
	})
	defer unsubscribe()

	for _, evt := range events {
		if err := tree.Apply(ctx, evt); err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
	}
	return saveView(ctx, tree)
}
