// Package main provides a command line renderer for saved upload bodies.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/services"
)

type options struct {
	outputPath string
	format     string
	theme      string
	themesFile string
	strict     bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "pivotctl",
		Short: "Render dashboard extracts into workbooks",
	}

	renderCmd := &cobra.Command{
		Use:   "render [session.json] [table.json...]",
		Short: "Render a session body and its table bodies",
		Long: `render reads the body sent to POST /upload/start and the bodies sent to
POST /upload/{id}, and writes the document the server would publish.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd, opts, args[0], args[1:])
		},
	}
	renderCmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output file path (default: <title><ext>)")
	renderCmd.Flags().StringVar(&opts.format, "format", "excel", "Output format: excel, pdf")
	renderCmd.Flags().StringVar(&opts.theme, "theme", "", "Theme used when the session names none")
	renderCmd.Flags().StringVar(&opts.themesFile, "themes", "", "YAML file with additional themes")
	renderCmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when cells are skipped")
	renderCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every rendered table")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List the available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadThemes(opts.themesFile)
			if err != nil {
				return err
			}
			for _, name := range set.Names() {
				marker := " "
				if name == set.Default {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
	themesCmd.Flags().StringVar(&opts.themesFile, "themes", "", "YAML file with additional themes")

	rootCmd.AddCommand(renderCmd, themesCmd)
	return rootCmd
}

func render(cmd *cobra.Command, opts *options, sessionPath string, tablePaths []string) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	themes, err := loadThemes(opts.themesFile)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(sessionPath)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	var req models.SessionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("invalid session body: %w", err)
	}

	payloads := make([][]byte, len(tablePaths))
	for i, p := range tablePaths {
		if payloads[i], err = os.ReadFile(p); err != nil {
			return fmt.Errorf("failed to read table: %w", err)
		}
	}
	tables, err := services.DecodeTables(payloads)
	if err != nil {
		return err
	}

	wb, err := services.NewWorkbookBuilder(themes, opts.theme).Build(&req, tables)
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level)
	engine := pivot.NewEngine(logger, pivot.WithStrictCells(opts.strict))

	result, err := export.NewService(engine).Export(wb, format)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	out := opts.outputPath
	if out == "" {
		out = wb.Title + result.Extension
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, result.Data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d tables, sheets: %s, %d cells skipped)\n",
		out, len(wb.Tables), strings.Join(result.Outcome.Sheets, ", "), result.Outcome.CellsSkipped)
	return nil
}

func loadThemes(path string) (*pivot.ThemeSet, error) {
	set := pivot.BuiltinThemes()
	if path == "" {
		return set, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes: %w", err)
	}
	extra, err := pivot.LoadThemes(data)
	if err != nil {
		return nil, err
	}
	set.Merge(extra)
	return set, nil
}
