// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the govinfo-table CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/govinfo-table/internal/secrets"
	"github.com/pdiddy/govinfo-table/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets secrets.Set

// rootCmd is the base command for the govinfo-table CLI.
var rootCmd = &cobra.Command{
	Use:   "govinfo-table",
	Short: "Query the GovInfo API as a table",
	Long: `govinfo-table exposes the GovInfo (Government Publishing Office) API as a
queryable relation. A table is named by a URI such as

  https://api.govinfo.gov/collections/BILLS/2023-03-01T00:00:00Z?offset=0&pageSize=100&api_key=KEY

Use supports and schema to inspect a URI, query to fetch its rows, and sql
to run SQLite queries over one or more GovInfo tables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("secrets_dir")
		s, err := secrets.Load(dir, logWriter(cmd))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(logWriter(cmd), "Loaded secrets: %v\n", s.Names())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./govinfo-table.yaml or ~/.config/govinfo-table/config.yaml)")
	rootCmd.PersistentFlags().String("api-key", "", "GovInfo API key used when the URI has no api_key parameter")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress progress output on stderr")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the response cache")

	viper.BindPFlag("govinfo.api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	viper.BindPFlag("cache.disabled", rootCmd.PersistentFlags().Lookup("no-cache"))
}

// setDefaults registers every config key so env variables and Unmarshal
// see it.
func setDefaults() {
	d := types.DefaultConfig()
	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)
	viper.SetDefault("http.max_retries", d.HTTP.MaxRetries)
	viper.SetDefault("http.rate_limit", d.HTTP.RateLimit)
	viper.SetDefault("http.rate_burst", d.HTTP.RateBurst)
	viper.SetDefault("cache.path", d.Cache.Path)
	viper.SetDefault("cache.expire_after", d.Cache.ExpireAfter)
	viper.SetDefault("cache.disabled", d.Cache.Disabled)
	viper.SetDefault("govinfo.host", d.GovInfo.Host)
	viper.SetDefault("govinfo.base_url", d.GovInfo.BaseURL)
	viper.SetDefault("govinfo.api_key", d.GovInfo.APIKey)
	viper.SetDefault("secrets_dir", d.SecretsDir)
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("govinfo-table")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "govinfo-table"))
		}
	}

	viper.SetEnvPrefix("GOVINFO_TABLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		quiet, _ := rootCmd.PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// loadConfig decodes the merged flag, env, file, and default settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// logWriter returns where progress lines go for cmd.
func logWriter(cmd *cobra.Command) io.Writer {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
