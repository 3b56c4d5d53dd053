// Package commands wires the headless reconciliation CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/warp/attendance-reconciler/store/sqlite"
)

// Config carries the shared dependencies of the subcommands.
type Config struct {
	Store *sqlite.Store
}

// New builds the root command. The database is opened once in the
// persistent pre-run so every subcommand shares one store.
func New(conf *Config) *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:   "reconcile-import",
		Short: "Headless attendance reconciliation",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.New(dbPath)
			if err != nil {
				return err
			}
			conf.Store = store
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if conf.Store != nil {
				return conf.Store.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"db",
		"./attendance.db",
		"sqlite database path",
	)

	rootCmd.AddCommand(newImportCmd(conf))
	return rootCmd
}
