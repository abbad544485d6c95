/*
Copyright © 2025 The avharvest authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/avharvest/avharvest/internal/iofs"
	"github.com/avharvest/avharvest/internal/iologger"
	app "github.com/avharvest/avharvest/pkg"
	"github.com/avharvest/avharvest/pkg/config"
	"github.com/gnames/gn"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "avharvest",
		Short:   "avharvest keeps a catalog of video pages up to date",
		Long: `avharvest crawls a paginated listing of video pages, extracts
metadata of every page and keeps it in a document store.

Commands:
  - create:  create record tables (PostgreSQL) or the SQLite file
  - update:  drain the backlog, ingest new links and compute new records
  - diff:    compute new records only
  - extract: print the record of one page without saving it

Records are kept in three collections:
  - videos:        canonical records
  - videos_update: working set of every discovered page
  - videos_new:    records missing from the canonical set

Configuration is read from ~/.config/avharvest/config.yaml and from
AVHARVEST_* environment variables, for example:
  AVHARVEST_DATABASE_DRIVER       sqlite or postgres
  AVHARVEST_DATABASE_URL          PostgreSQL connection string
  AVHARVEST_HARVEST_LISTING_URL   listing template with {page}
  AVHARVEST_LOG_LEVEL             debug, info, warn or error

A .env file in the working directory is loaded first.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "avharvest version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for avharvest")

	rootCmd.AddCommand(
		getCreateCmd(),
		getUpdateCmd(),
		getDiffCmd(),
		getExtractCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	// .env is optional
	_ = godotenv.Load()

	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureTagsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	missing, err := iofs.CheckConfigFile(homeDir)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	for _, v := range missing {
		gn.Warn("Section <em>%s</em> is missing in config.yaml, using defaults", v)
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// keep bootstrap records in the same log file
	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
	)
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// initEnvVars binds every persistent setting to its environment
// variable. The list matches config.ToOptions.
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("AVHARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		env := "AVHARVEST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
	}

	v.AutomaticEnv()
}

var envKeys = []string{
	"database.driver",
	"database.url",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",
	"database.path",
	"database.batch_size",

	"harvest.listing_url",
	"harvest.first_page",
	"harvest.max_pages",
	"harvest.enrich_url",
	"harvest.stale_days",
	"harvest.user_agent",
	"harvest.timeout_sec",
	"harvest.requests_per_second",
	"harvest.tags_file",

	"log.level",
	"log.format",
	"log.destination",
}
