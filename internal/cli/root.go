// Package cli defines the pqcbench command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iotsec-lab/pqcbench/internal/appconfig"
	"github.com/iotsec-lab/pqcbench/pkg/version"
)

var (
	cfgFile    string
	appVersion = ""
	appCommit  = "unknown"
	appDate    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pqcbench",
	Short: "pqcbench: post-quantum KEM + compression cost benchmark for IoT links",
	Long: `pqcbench measures the combined bandwidth and CPU cost of pairing
post-quantum key encapsulation (ML-KEM / Kyber) with payload compression,
as a constrained IoT sender would. It runs a matrix of dataset, codec and
KEM parameter-set combinations and writes JSON and LaTeX reports.`,
}

// Execute runs the root command. It is called once from main.
func Execute() {
	rootCmd.Version = effectiveVersion()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func effectiveVersion() string {
	v := appVersion
	if v == "" {
		v = version.String()
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, appCommit, appDate)
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(ver, commit, date string) {
	if ver != "" {
		appVersion = ver
	}
	if commit != "" {
		appCommit = commit
	}
	if date != "" {
		appDate = date
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath,
		"config file (JSON)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logFormat", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig points viper at the config file if one was given.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadConfig reads the config file (missing file is fine, defaults apply)
// and merges the bound flags into one Config.
func loadConfig() (*appconfig.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("load config: %w", err)
			}
		}
	}

	var cfg appconfig.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = cfgFile
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
