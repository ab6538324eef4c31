package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fakecheck/internal/api"
)

type serveOptions struct {
	fetch fetchFlags
	llm   llmFlags

	addr string
}

var serveOpts serveOptions

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes scoring, highlighting and hints over HTTP:

  POST /api/v1/analyze    {"text": "...", "title": "..."} or {"url": "..."}
  POST /api/v1/score      {"text": "..."}
  POST /api/v1/highlight  {"text": "..."}
  POST /api/v1/hint       {"text": "..."} or {"analysis": {...}}
  GET  /api/v1/keywords
  GET  /health

Example:
  fakecheck serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		serveOpts.fetch.apply(cmd.Flags(), cfg)
		if err := serveOpts.llm.apply(cmd.Flags(), cfg); err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveOpts.addr
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(cfg, Version)
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	fs := serveCmd.Flags()
	fs.StringVar(&serveOpts.addr, "addr", ":8080", "listen address (default from config)")
	serveOpts.fetch.register(fs)
	serveOpts.llm.register(fs)
}
