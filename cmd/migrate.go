package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Run: func(_ *cobra.Command, _ []string) {
		logger, config := bootstrap()
		defer logger.Sync()

		st, err := openStore(context.Background(), config.Database, logger)
		if err != nil {
			logger.Fatal("migrating the database", zap.Error(err))
		}
		defer st.Close()

		logger.Info("schema is up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
