package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/variantly/imgvariant/internal/cli"
	"github.com/variantly/imgvariant/internal/cli/config"
	"github.com/variantly/imgvariant/pkg/converter"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "imgvariant",
	Short: "Generates WebP and AVIF variants for JPEG/PNG assets.",
	Long: `imgvariant scans the assets directory for JPEG and PNG images and
generates a WebP and an AVIF sibling next to each one, using whichever
external encoders (magick, cwebp, avifenc) are installed.

Existing variants are left alone unless --force is given. Files that fail
to convert are reported but never abort the batch; the run exits zero as
long as the input directory was readable.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts, logger, err := config.LoadAndValidate(cfgFile, version, cmd.Flags())
		if err != nil {
			return err
		}
		return cli.Run(ctx, opts, logger)
	},
}

// Execute runs the root command; cobra prints any returned error and the
// caller maps it to the exit code.
func Execute() error {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default: imgvariant.yaml in . or $HOME/.config/imgvariant/)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose (debug) logging output (disables TUI)")

	rootCmd.Flags().Int("quality-webp", converter.DefaultQualityWebP, "WebP quality (0-100)")
	rootCmd.Flags().Int("quality-avif", converter.DefaultQualityAVIF, "AVIF quality (0-100)")
	rootCmd.Flags().BoolP("force", "f", false, "Regenerate variants even when the output already exists")
	rootCmd.Flags().Int("concurrency", converter.DefaultConcurrency, "Number of parallel workers (0 for auto-detect CPU cores)")
	rootCmd.Flags().StringArray("ignore", []string{}, "Glob patterns to exclude (can be repeated)")
	rootCmd.Flags().Bool("changed-only", false, "Only process files changed in the git working tree vs HEAD")
	rootCmd.Flags().Bool("no-tui", false, "Disable the interactive terminal UI even in a TTY")
	rootCmd.Flags().String("output-format", string(converter.DefaultOutputFormat), `Final report format ("text", "json")`)
}
