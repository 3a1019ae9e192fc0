package cli

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill-cli/internal/adapters/driving/api"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Endpoints:
  POST /generate     {"service": "openai", "keyword": "..."}
  GET  /manuscripts  ?category=hospital
  GET  /health`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if manuscriptService == nil {
		return errors.New("manuscript service not configured")
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := api.NewServer(api.Config{
		Manuscripts: manuscriptService,
		Provider:    llmProvider,
	})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = defaultServeAddr
	}
	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
