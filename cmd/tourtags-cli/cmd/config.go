package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tourtags/internal/adapters/editor"
	"tourtags/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and TOURTAGS_*
environment variables have been merged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := env.Config.YAML()
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n", config.ResolvePath(configPath))
		_, err = os.Stdout.Write(data)
		return err
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long: `Open the config file in $EDITOR, writing the defaults first when it does
not exist yet. The file is validated after the editor exits.`,
	Annotations: map[string]string{skipOpen: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolvePath(configPath)
		created, err := config.WriteDefault(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Wrote default configuration to %s\n", path)
		}

		if err := editor.New().Edit(context.Background(), path); err != nil {
			return fmt.Errorf("failed to run editor: %w", err)
		}

		if _, err := config.LoadFrom(path); err != nil {
			return err
		}
		fmt.Printf("Configuration %s is valid\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}
