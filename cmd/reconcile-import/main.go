// Headless import entry point. See commands/import.go for the batch
// reconciliation flow.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/warp/attendance-reconciler/commands"
)

func main() {
	conf := &commands.Config{}
	rootCmd := commands.New(conf)

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("import failed")
		os.Exit(1)
	}
}
