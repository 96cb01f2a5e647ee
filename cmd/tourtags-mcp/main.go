package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "tourtags/internal/adapters/mcp"
	"tourtags/internal/app"
	"tourtags/internal/application/commands"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/config"
	"tourtags/internal/logging"
)

const (
	eventBuffer = 64
	saveTimeout = 5 * time.Second
)

func main() {
	configFlag := flag.String("config", "", "path to a tourtags.yaml config file")
	flag.Parse()

	if err := run(*configFlag); err != nil {
		log := logging.Logger()
		log.Fatal().Err(err).Msg("tourtags-mcp")
	}
}

func run(configPath string) error {
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

	a, err := app.Open(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := a.TreeOptions()
	if err != nil {
		return err
	}
	open := commands.NewOpenViewCommand(a.Tours, a.State, cfg.View.Name, opts...)
	open.Layout = a.LayoutOverride()
	view, err := open.Execute(ctx)
	if err != nil {
		return err
	}
	for _, w := range view.Warnings {
		a.Log.Warn().Msg(w)
	}

	// The session outlives the signal so the view can be saved on the way out.
	sessionCtx, stopSession := context.WithCancel(context.Background())
	defer stopSession()
	session := tagtree.NewSession(view.Tree, eventBuffer, logging.With("session"))
	sessionDone := make(chan error, 1)
	go func() { sessionDone <- session.Run(sessionCtx) }()

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(a),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.Log.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.Log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
	}

	mcpServer := server.NewMCPServer(
		"tourtags-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, session)
	mcpadapter.RegisterWriteTools(mcpServer, a.Tours, session)

	serveErr := server.NewStdioServer(mcpServer).Listen(ctx, os.Stdin, os.Stdout)
	stop()

	saveCtx, cancelSave := context.WithTimeout(context.Background(), saveTimeout)
	if err := mcpadapter.SaveView(saveCtx, session, a.State, cfg.View.Name); err != nil {
		a.Log.Error().Err(err).Msg("view state not saved")
	}
	cancelSave()
	stopSession()
	<-sessionDone

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return serveErr
	}
	return nil
}

func metricsMux(a *app.App) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	return mux
}
