package main

import (
	"github.com/spf13/cobra"

	"wlengine/config"
	"wlengine/logging"
)

// RootOptions holds global flags and what they load
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string

	Config *config.Config
	Logger logging.Logger
}

// NewRootCommand creates the root command of the engine CLI
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "wlengine",
		Short:         "Shader parameter and audio playground built on ebiten",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewUniformsCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))

	return cmd
}

// load reads the config file and builds the logger, flags overriding the file
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	o.Config = cfg
	o.Logger = logger
	return nil
}
