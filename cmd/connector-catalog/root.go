package main

import (
	"github.com/open-sspm/connector-catalog/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "connector-catalog",
	Short:             "Keeps the persisted source and destination connector catalog in step with the latest definitions.",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrapCommand,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd, syncCmd, workerCmd, serveCmd, validateCatalogCmd, templateCmd)
}

func bootstrapCommand(cmd *cobra.Command, _ []string) error {
	ctx := commandExecutionContext{
		CommandPath:       cmd.CommandPath(),
		UsesStructuredLog: commandUsesStructuredLogging(cmd),
	}
	setCommandExecutionContext(ctx)
	if !ctx.UsesStructuredLog {
		return nil
	}

	_, err := logging.BootstrapFromEnv(logging.BootstrapOptions{
		Command: ctx.CommandPath,
		Writer:  cmd.OutOrStdout(),
	})
	return err
}
