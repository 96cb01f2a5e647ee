package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tourtags/internal/application/commands"
)

var tagCmd = &cobra.Command{
	Use:   "tag <tag-id> <tour-id>...",
	Short: "Attach a tag to tours",
	Long: `Attach a tag to one or more tours and patch the saved view.

The notifications printed are the node additions, removals and updates
the change caused in the tree.

Examples:
  tourtags-cli tag 3 101 102
  tourtags-cli tag 3 101,102,103`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagging(args, true)
	},
}

var untagCmd = &cobra.Command{
	Use:   "untag <tag-id> <tour-id>...",
	Short: "Remove a tag from tours",
	Long: `Remove a tag from one or more tours and patch the saved view.

Examples:
  tourtags-cli untag 3 101`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagging(args, false)
	},
}

func runTagging(args []string, add bool) error {
	ctx := context.Background()

	tagID, err := parseID("tagID", args[0])
	if err != nil {
		return err
	}
	tourIDs, err := parseIDs("tourIDs", args[1:])
	if err != nil {
		return err
	}

	c := commands.NewUntagToursCommand(env.Tours, tagID, tourIDs)
	if add {
		c = commands.NewTagToursCommand(env.Tours, tagID, tourIDs)
	}
	result, err := c.Execute(ctx)
	if err != nil {
		return err
	}

	fmt.Println(result.Message)
	return applyEvents(ctx, result.Event)
}

func init() {
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(untagCmd)
}
