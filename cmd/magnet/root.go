package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pablor21/magnet/config"
	"github.com/pablor21/magnet/logger"
	"github.com/pablor21/magnet/types"
	"github.com/pablor21/magnet/utils"
)

// default config files looked up in the working directory
var configCandidates = []string{"magnet.yml", "magnet.yaml", "magnet.json"}

type rootOptions struct {
	configPath string
	logLevel   string
	tests      bool
}

func RootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "magnet",
		Short:        "Derive MongoDB $jsonSchema validators from Go types",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (yaml or json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error or disabled")
	root.PersistentFlags().BoolVar(&opts.tests, "tests", false, "also scan _test.go files")

	root.AddCommand(
		GenerateCmd(opts),
		PrintCmd(opts),
		VersionCmd(),
	)
	return root
}

// processContext loads the configuration and applies the command line
// overrides shared by all commands.
func (o *rootOptions) processContext(cmd *cobra.Command, patterns []string) (*types.ProcessContext, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if len(patterns) > 0 {
		cfg.Scanning.Packages = patterns
	}
	if cmd.Flags().Changed("tests") {
		cfg.Scanning.Tests = o.tests
	}
	if o.logLevel != "" {
		level := logger.ParseLevel(o.logLevel)
		cfg.LogLevel = &level
	}

	lc := logger.DefaultConfig()
	lc.Level = cfg.Level()
	lc.Output = cmd.ErrOrStderr()
	return types.NewProcessContext(cfg, logger.NewLogger(lc)), nil
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		for _, name := range configCandidates {
			if utils.FileExists(name) {
				path = name
				break
			}
		}
	}
	if path == "" {
		return config.NewDefaultConfig(), nil
	}
	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}
