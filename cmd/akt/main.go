// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for akt using the
// Cobra library. It defines the root command, subcommands (show-keys,
// list-keys, history, export, trust-host), flags, and the entry point.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aktool/akt/internal/config"
	"github.com/aktool/akt/internal/db"
	"github.com/aktool/akt/internal/i18n"
	"github.com/aktool/akt/internal/logging"
)

var version = "dev" // this will be set by the linker
var cfgFile string

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error at this point.
		os.Exit(1)
	}
}

var rootCmd = newRootCmd()

// newRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "akt",
		Short: "akt is an authorized_keys hygiene auditor for SSH.",
		Long: `akt correlates the entries of an authorized_keys file against the
successful public-key logins recorded in the host's auth logs and reports
every key that has not been used recently enough to remain trusted.

akt never modifies the authorized_keys file; it only reports candidates
for manual revocation.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	cmd.AddCommand(showKeysCmd)
	cmd.AddCommand(listKeysCmd)
	cmd.AddCommand(historyCmd)
	cmd.AddCommand(exportCmd)
	cmd.AddCommand(trustHostCmd)

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is akt.yaml in the user config dir, /etc/akt or .)")
	cmd.PersistentFlags().String("db-type", "sqlite", "database type for the audit history (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./akt.db", "database connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `output language ("en", "de")`)
	cmd.PersistentFlags().String("log-level", "off", "logging level: off, error, warn, info, debug")

	return cmd
}

// setup runs before every subcommand: it resolves the configuration,
// initializes localization and logging and opens the audit history store.
// When no config file exists yet a default one is written so the settings
// are discoverable.
func setup(cmd *cobra.Command, args []string) error {
	cfg, found, err := config.Load(cmd, cfgFile)
	if err != nil {
		return err
	}

	i18n.Init(cfg.Language)
	logging.SetLevel(cfg.LogLevel)

	if !found && cfgFile == "" {
		if path, err := config.Write(&cfg, false); err == nil {
			fmt.Fprintf(os.Stderr, "No config file found. Created %s with default values.\n", path)
		} else {
			logging.Debugf("could not write default config: %v", err)
		}
	}

	if err := db.InitDB(cfg.Database.Type, cfg.Database.DSN); err != nil {
		return fmt.Errorf("%s", i18n.T("config.error_init_db", err))
	}
	return nil
}
