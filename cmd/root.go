// =============================================================================
// SVG Badge Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Unlike tools that
// split their work across subcommands, badge generation is the whole job, so
// the root command carries it directly:
//
//   namer <template.svg> <table.tsv> <output_dir> [flags]
//
// The root command is responsible for:
//   1. Positional argument validation (template, table, output directory)
//   2. Loading the optional YAML configuration and applying flag overrides
//   3. Setting up logging
//   4. Handing the resolved options to the generator pipeline
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/badgetools/namer/internal/config"
	"github.com/badgetools/namer/internal/generator"
	"github.com/badgetools/namer/internal/tableparser"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// cfgFile holds the path to the YAML configuration file.
// When empty, defaultConfigFile is used if it exists.
var cfgFile string

// tagPrefix is the placeholder prefix to look for in the template.
var tagPrefix string

// delimiter is the field delimiter of the attendee table.
var delimiter string

// force allows writing into an existing, non-empty output directory.
var force bool

// noPDF disables PDF conversion even when a converter is installed.
var noPDF bool

// withReport enables the XLSX run manifest.
var withReport bool

// verbose enables debug logging when set to true.
var verbose bool

// defaultConfigFile is picked up from the working directory when --config
// is not given. Its absence is not an error.
const defaultConfigFile = "namer.yaml"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command. It performs the badge generation run.
var rootCmd = &cobra.Command{
	Use:   "namer <template.svg> <table.tsv> <output_dir>",
	Short: "Fill an SVG badge template with rows from an attendee list",
	Long: `namer generates conference badge pages by substituting attendee data into
an SVG template. The template marks substitutable text with placeholder
identifiers of the form <prefix><column><slot>, e.g. PXTAG_name1, PXTAG_name2.
The number of slots in the template determines how many attendees are packed
into each output page.

For every batch of attendees one SVG file (page_1.svg, page_2.svg, ...) is
written into the output directory. If an SVG-to-PDF converter (Inkscape or
rsvg-convert) is found on this machine, a matching PDF is produced for each
page; conversion is best-effort and never fails the run.

Example Usage:
  namer badge.svg attendees.tsv ./out             # tab-separated table
  namer badge.svg attendees.csv ./out --delimiter ,
  namer badge.svg attendees.tsv ./out --tag BADGE_ --report`,

	Args: cobra.ExactArgs(3),

	// RunE is preferred over Run for commands that can fail, as it allows
	// Cobra to handle the error gracefully.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args[0], args[1], args[2])
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the flags of the root command.
func init() {
	// Errors are printed once by Execute; keep Cobra from duplicating them.
	rootCmd.SilenceErrors = true

	rootCmd.Flags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file (default namer.yaml if present)",
	)

	rootCmd.Flags().StringVar(
		&tagPrefix,
		"tag",
		config.DefaultTagPrefix,
		"Placeholder prefix used in the SVG template",
	)

	rootCmd.Flags().StringVar(
		&delimiter,
		"delimiter",
		"tab",
		`Field delimiter of the attendee table ("tab", ",", ";", "|", ...)`,
	)

	rootCmd.Flags().BoolVar(
		&force,
		"force",
		false,
		"Write into the output directory even if it is not empty",
	)

	rootCmd.Flags().BoolVar(
		&noPDF,
		"no-pdf",
		false,
		"Skip PDF conversion even if a converter is installed",
	)

	rootCmd.Flags().BoolVar(
		&withReport,
		"report",
		false,
		"Also write an XLSX run manifest into the output directory",
	)

	rootCmd.Flags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// MAIN GENERATION FUNCTION
// =============================================================================

// runGenerate resolves configuration, sets up logging and runs the pipeline.
func runGenerate(cmd *cobra.Command, templatePath, tablePath, outputDir string) error {
	// Arguments are valid from here on; runtime failures should not dump
	// the full usage text on top of the error.
	cmd.SilenceUsage = true

	// =========================================================================
	// STEP 1: RESOLVE CONFIGURATION
	// =========================================================================
	// Defaults first, then the optional YAML file, then flag overrides.

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("tag") {
		cfg.TagPrefix = tagPrefix
	}
	if cmd.Flags().Changed("delimiter") {
		cfg.Delimiter = delimiter
	}
	if noPDF {
		cfg.PDF.Enabled = false
	}
	if withReport {
		cfg.Report.Enabled = true
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	delim, err := tableparser.DelimiterRune(cfg.Delimiter)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: SET UP LOGGING
	// =========================================================================

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// =========================================================================
	// STEP 3: RUN THE PIPELINE
	// =========================================================================

	gen := generator.New(generator.Options{
		TemplatePath:  templatePath,
		TablePath:     tablePath,
		OutputDir:     outputDir,
		TagPrefix:     cfg.TagPrefix,
		Delimiter:     delim,
		Force:         force,
		PDF:           cfg.PDF.Enabled,
		ConverterPath: cfg.PDF.ConverterPath,
		PDFTimeout:    cfg.PDFTimeout(),
		Report:        cfg.Report.Enabled,
		ReportFile:    cfg.Report.FileName,
		Logger:        logger,
	})

	result, err := gen.Run(context.Background())
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Println("=== Badge Generation Complete ===")
	fmt.Printf("Records:    %d\n", result.Stats.Records)
	fmt.Printf("Capacity:   %d per page\n", result.Stats.Capacity)
	fmt.Printf("Pages:      %d\n", result.Stats.Pages)
	fmt.Printf("PDFs:       %d\n", result.Stats.PDFs)
	if result.ReportFile != "" {
		fmt.Printf("Manifest:   %s\n", result.ReportFile)
	}
	fmt.Printf("Output dir: %s\n", result.OutputDir)

	return nil
}

// loadConfig loads the configuration file given with --config, or the default
// file when it exists, or plain defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.Load(defaultConfigFile)
	}
	return config.Default(), nil
}
