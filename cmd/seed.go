package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screening/internal/interview"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the sample job postings",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		logger, config := bootstrap()
		defer logger.Sync()

		st, err := openStore(ctx, config.Database, logger)
		if err != nil {
			logger.Fatal("opening the database", zap.Error(err))
		}
		defer st.Close()

		svc, err := newCatalogueService(st, logger)
		if err != nil {
			logger.Fatal("building the interview service", zap.Error(err))
		}

		created, err := svc.SeedJobs(ctx, interview.SampleJobs)
		if err != nil {
			logger.Fatal("seeding job postings", zap.Error(err))
		}

		for _, job := range created {
			logger.Info("created job posting",
				zap.String("id", job.ID),
				zap.String("title", job.Title),
				zap.String("department", job.Department))
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
