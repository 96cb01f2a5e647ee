package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tourtags/internal/application/commands"
	"tourtags/internal/domain"
)

var (
	createParent     int64
	createExpandType string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create tags and categories",
}

var createTagCmd = &cobra.Command{
	Use:   "tag <name>",
	Short: "Create a tag",
	Long: `Create a tag at the root or inside a category.

The expand type decides how the tag groups its tours: by year, month and
day (ymd), by year and day (yd) or as a flat list (flat).

Examples:
  tourtags-cli create tag Commute
  tourtags-cli create tag Races --category 2 --expand flat`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		expandType, err := domain.ParseExpandType(createExpandType)
		if err != nil {
			return err
		}

		result, err := commands.NewCreateTagCommand(env.Tours, args[0], createParent, expandType).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return applyEvents(ctx, result.Event)
	},
}

var createCategoryCmd = &cobra.Command{
	Use:   "category <name>",
	Short: "Create a category",
	Long: `Create a category at the root or inside another category.

Examples:
  tourtags-cli create category Sport
  tourtags-cli create category Running --category 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewCreateCategoryCommand(env.Tours, args[0], createParent).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return applyEvents(ctx, result.Event)
	},
}

func init() {
	createCmd.PersistentFlags().Int64Var(&createParent, "category", 0, "parent category id (default: root)")
	createTagCmd.Flags().StringVar(&createExpandType, "expand", "ymd", "expand type: ymd, yd or flat")
	rootCmd.AddCommand(createCmd)
	createCmd.AddCommand(createTagCmd)
	createCmd.AddCommand(createCategoryCmd)
}
