package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/jasonmyers/PythonAutoImport/internal/config"
	"github.com/jasonmyers/PythonAutoImport/internal/mcp"
	"github.com/jasonmyers/PythonAutoImport/internal/observability"
	"github.com/jasonmyers/PythonAutoImport/pkg/version"
)

func mcpCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start a Model Context Protocol server (stdio mode)",
		Long: `Start an MCP server exposing import statement building and insertion
as tools over stdio transport.

Examples:
  pyimport mcp
  pyimport mcp --debug`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if debug {
				cfg.Logging.Level = "debug"
			}

			providers, err := observability.Init(observability.Config{
				ServiceName:    "pyimport-mcp",
				ServiceVersion: version.Version,
				OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
				OTLPInsecure:   cfg.Telemetry.OTLPInsecure,
				SampleRatio:    cfg.Telemetry.SampleRatio,
			})
			if err != nil {
				return err
			}

			metrics, tracer, err := toolTelemetry(cfg, providers)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  newLogger(cfg),
				Config:  cfg,
				Metrics: metrics,
				Tracer:  tracer,
			})

			runErr := srv.Run(cmd.Context())

			return errors.Join(runErr, providers.Shutdown(context.Background()))
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

// toolTelemetry builds the per-tool instrumentation from the initialized
// providers. Without an OTLP endpoint both stay nil and the tool
// handlers run unwrapped.
func toolTelemetry(cfg *config.Config, providers observability.Providers) (*observability.REDMetrics, trace.Tracer, error) {
	if cfg.Telemetry.OTLPEndpoint == "" {
		return nil, nil, nil
	}

	metrics, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, nil, err
	}

	return metrics, providers.Tracer, nil
}
