package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/adapters/tui"
	"tourtags/internal/app"
	"tourtags/internal/application/commands"
	"tourtags/internal/config"
)

func main() {
	configFlag := flag.String("config", "", "path to a tourtags.yaml config file")
	viewFlag := flag.String("view", "", "name of the persisted view")
	flag.Parse()

	if err := run(*configFlag, *viewFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, view string) error {
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
	if view != "" {
		cfg.View.Name = view
	}
	// Log lines would corrupt the alternate screen.
	if cfg.Log.Level != "disabled" {
		cfg.Log.Level = "error"
	}

	a, err := app.Open(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := a.TreeOptions()
	if err != nil {
		return err
	}
	open := commands.NewOpenViewCommand(a.Tours, a.State, cfg.View.Name, opts...)
	open.Layout = a.LayoutOverride()
	result, err := open.Execute(context.Background())
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		a.Log.Warn().Msg(w)
	}

	// Initialize and run the TUI
	model := tui.NewApp(result.Tree, a.Tours, a.State, cfg.View.Name)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
