package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jasonmyers/PythonAutoImport/internal/config"
)

// ErrConfigExists is returned when init would overwrite an existing config file.
var ErrConfigExists = errors.New("config file already exists")

// configFilePerm is the permission mode for generated config files.
const configFilePerm = 0o644

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and generate configuration",
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())

	return cmd
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			printConfig(cmd.OutOrStdout(), cfg)

			return nil
		},
	}

	return cmd
}

func configInitCmd() *cobra.Command {
	var path string

	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a config file with default settings.

Examples:
  pyimport config init
  pyimport config init --path ~/.pyimport.yaml
  pyimport config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(path, force, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&path, "path", ".pyimport.yaml", "destination file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func printConfig(writer io.Writer, cfg *config.Config) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"setting", "value"})
	tbl.AppendRow(table.Row{"root_path", cfg.RootPath})
	tbl.AppendRow(table.Row{"style", cfg.Style})
	tbl.AppendRow(table.Row{"max_line_width", strconv.Itoa(cfg.MaxLineWidth)})
	tbl.AppendRow(table.Row{"scroll_to_import", strconv.FormatBool(cfg.ScrollToImport)})
	tbl.AppendRow(table.Row{"logging.level", cfg.Logging.Level})
	tbl.AppendRow(table.Row{"logging.format", cfg.Logging.Format})
	tbl.AppendRow(table.Row{"logging.output", cfg.Logging.Output})
	tbl.AppendRow(table.Row{"telemetry.otlp_endpoint", cfg.Telemetry.OTLPEndpoint})
	tbl.AppendRow(table.Row{"telemetry.otlp_insecure", strconv.FormatBool(cfg.Telemetry.OTLPInsecure)})
	tbl.AppendRow(table.Row{"telemetry.sample_ratio", strconv.FormatFloat(cfg.Telemetry.SampleRatio, 'g', -1, 64)})
	tbl.Render()
}

// configFileLayout mirrors Config with yaml tags for config file generation.
type configFileLayout struct {
	RootPath       string              `yaml:"root_path"`
	Style          string              `yaml:"style"`
	MaxLineWidth   int                 `yaml:"max_line_width"`
	ScrollToImport bool                `yaml:"scroll_to_import"`
	Logging        logFileLayout       `yaml:"logging"`
	Telemetry      telemetryFileLayout `yaml:"telemetry"`
}

type logFileLayout struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type telemetryFileLayout struct {
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	OTLPInsecure bool    `yaml:"otlp_insecure"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

func runConfigInit(path string, force bool, writer io.Writer) error {
	_, statErr := os.Stat(path)
	if statErr == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}

	defaults := config.Default()

	layout := configFileLayout{
		RootPath:       defaults.RootPath,
		Style:          defaults.Style,
		MaxLineWidth:   defaults.MaxLineWidth,
		ScrollToImport: defaults.ScrollToImport,
		Logging: logFileLayout{
			Level:  defaults.Logging.Level,
			Format: defaults.Logging.Format,
			Output: defaults.Logging.Output,
		},
		Telemetry: telemetryFileLayout{
			OTLPEndpoint: defaults.Telemetry.OTLPEndpoint,
			OTLPInsecure: defaults.Telemetry.OTLPInsecure,
			SampleRatio:  defaults.Telemetry.SampleRatio,
		},
	}

	data, err := yaml.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	err = os.WriteFile(path, data, configFilePerm)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if !quiet {
		color.New(color.FgGreen).Fprintf(writer, "wrote %s\n", path)
	}

	return nil
}
