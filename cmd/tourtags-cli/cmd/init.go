package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tourtags/internal/app"
)

var demoTours int

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the tour database",
	Long: `Create the tour database and view state file if they do not exist.

With --demo the database is filled with sample categories, tags and tours.

Examples:
  tourtags-cli init
  tourtags-cli init --demo 200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if demoTours > 0 {
			if err := app.SeedDemo(context.Background(), env.Tours, demoTours); err != nil {
				return fmt.Errorf("failed to seed demo data: %w", err)
			}
			fmt.Printf("Seeded %d demo tours\n", demoTours)
		}
		fmt.Printf("Database ready at %s\n", env.Tours.Path())
		return nil
	},
}

func init() {
	initCmd.Flags().IntVar(&demoTours, "demo", 0, "seed this many demo tours")
	rootCmd.AddCommand(initCmd)
}
