// Package config loads imgvariant's configuration from defaults, config
// file, environment, and flags (in rising priority), validates the merged
// settings against an embedded JSON schema, and produces converter.Options
// plus the application logger.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"

	"github.com/variantly/imgvariant/pkg/converter"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. IMGVARIANT_FORCE=1.
	EnvPrefix = "IMGVARIANT"
	// DefaultConfigName is the config file base name searched in standard
	// locations.
	DefaultConfigName = "imgvariant"
)

// LoadAndValidate merges all configuration sources into converter.Options
// and builds the final logger. The returned error is fatal: the CLI prints
// it and exits non-zero.
func LoadAndValidate(cfgFile, appVersion string, flags *pflag.FlagSet) (converter.Options, *slog.Logger, error) {
	var opts converter.Options
	v := viper.New()

	// Early errors are logged with a plain Info-level handler; the real
	// logger depends on the verbose setting being resolved first.
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return opts, tempLogger, fmt.Errorf("failed to get user home directory: %w", err)
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags")
		} else {
			used := cfgFile
			if used == "" {
				used = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", used, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return opts, tempLogger, err
		}
	}

	if err := validateSchema(v); err != nil {
		return opts, tempLogger, err
	}

	if err := v.Unmarshal(&opts); err != nil {
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	opts.AppVersion = appVersion

	// Boolean flags need explicit override handling: a flag left at its
	// default must not mask a config-file or env value, while an explicit
	// flag always wins.
	if flags != nil {
		if flags.Changed("force") {
			opts.Force, _ = flags.GetBool("force")
		}
		if flags.Changed("verbose") {
			opts.Verbose, _ = flags.GetBool("verbose")
		}
		if flags.Changed("changed-only") {
			opts.ChangedOnly, _ = flags.GetBool("changed-only")
		}
		if flags.Changed("no-tui") {
			if noTui, _ := flags.GetBool("no-tui"); noTui {
				opts.TuiEnabled = false
			}
		}
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
		opts.TuiEnabled = false
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	opts.Logger = handler

	logger.Debug("Configuration loading complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("input", opts.InputPath),
		slog.Bool("force", opts.Force),
		slog.Bool("verbose", opts.Verbose))

	return opts, logger, nil
}

// setDefaults establishes the default values in Viper. The input root
// default honors the fixed "assets" convention; it has no flag on purpose.
func setDefaults(v *viper.Viper) {
	v.SetDefault("inputPath", converter.DefaultInputPath)
	v.SetDefault("qualityWebp", converter.DefaultQualityWebP)
	v.SetDefault("qualityAvif", converter.DefaultQualityAVIF)
	v.SetDefault("force", converter.DefaultForce)
	v.SetDefault("concurrency", converter.DefaultConcurrency)
	v.SetDefault("ignore", []string{})
	v.SetDefault("changedOnly", converter.DefaultChangedOnly)
	v.SetDefault("verbose", converter.DefaultVerbose)
	v.SetDefault("tuiEnabled", converter.DefaultTuiEnabled)
	v.SetDefault("outputFormat", string(converter.DefaultOutputFormat))
}

// bindFlags binds each CLI flag to its Viper key. Flag names use
// kebab-case; config keys use camelCase, so aliases bridge the two.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"qualityWebp":  "quality-webp",
		"qualityAvif":  "quality-avif",
		"force":        "force",
		"concurrency":  "concurrency",
		"ignore":       "ignore",
		"changedOnly":  "changed-only",
		"verbose":      "verbose",
		"outputFormat": "output-format",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag '--%s': %w", name, err)
		}
	}
	return nil
}

// validateSchema checks the merged settings against the embedded JSON
// schema, so malformed config files fail fast with a precise message
// instead of surfacing later as odd encoder arguments.
func validateSchema(v *viper.Viper) error {
	settings, err := json.Marshal(v.AllSettings())
	if err != nil {
		return fmt.Errorf("error serializing configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(settings),
	)
	if err != nil {
		return fmt.Errorf("error validating configuration: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", converter.ErrConfigValidation, strings.Join(problems, "; "))
}
