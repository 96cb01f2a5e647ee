package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tourtags/internal/application/commands"
)

var toursIDsOnly bool

var toursCmd = &cobra.Command{
	Use:   "tours <node-key>...",
	Short: "List the tours below tree nodes",
	Long: `List the distinct tours below one or more nodes of the tag tree.

Examples:
  tourtags-cli tours tag:3
  tourtags-cli tours year:3/2022 tag:10
  tourtags-cli tours month:3/2022-04 --ids`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		keys, err := parseKeys(args)
		if err != nil {
			return err
		}

		tree, err := openView(ctx)
		if err != nil {
			return err
		}
		result, err := commands.NewCollectToursCommand(tree, keys).Execute(ctx)
		if err != nil {
			return err
		}
		for _, key := range result.Missing {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: node %s not found\n", key)
		}

		if toursIDsOnly {
			ids := make([]string, len(result.TourIDs))
			for i, id := range result.TourIDs {
				ids[i] = fmt.Sprint(id)
			}
			fmt.Println(strings.Join(ids, ","))
			return nil
		}

		tours, err := env.Tours.Tours(ctx, result.TourIDs)
		if err != nil {
			return err
		}
		for _, t := range tours {
			fmt.Printf("%6d  %-40s tags %v\n", t.ID, t.Title, t.TagIDs)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <tour-id>...",
	Short: "Delete tours",
	Long: `Delete tours with their tag links and patch the saved view.

Warning: This operation cannot be undone.

Examples:
  tourtags-cli delete 101
  tourtags-cli delete 101,102`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		ids, err := parseIDs("tourIDs", args)
		if err != nil {
			return err
		}

		result, err := commands.NewDeleteToursCommand(env.Tours, ids).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return applyEvents(ctx, result.Event)
	},
}

var retitleCmd = &cobra.Command{
	Use:   "retitle <tour-id> <title>",
	Short: "Change a tour's title",
	Long: `Change a tour's title and patch the saved view.

Examples:
  tourtags-cli retitle 101 "Sunday long run"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id, err := parseID("tourID", args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewRetitleTourCommand(env.Tours, id, args[1]).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return applyEvents(ctx, result.Event)
	},
}

func init() {
	toursCmd.Flags().BoolVar(&toursIDsOnly, "ids", false, "print only a comma-separated id list")
	rootCmd.AddCommand(toursCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(retitleCmd)
}
