package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screening/internal/domain"
	"github.com/spigell/screening/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write interview results to an Excel workbook",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()

		logger, config := bootstrap()
		defer logger.Sync()

		out, _ := cmd.Flags().GetString("out")
		status, _ := cmd.Flags().GetString("status")

		st, err := openStore(ctx, config.Database, logger)
		if err != nil {
			logger.Fatal("opening the database", zap.Error(err))
		}
		defer st.Close()

		svc, err := newCatalogueService(st, logger)
		if err != nil {
			logger.Fatal("building the interview service", zap.Error(err))
		}

		reports, err := svc.Reports(ctx, domain.Status(strings.ToUpper(strings.TrimSpace(status))))
		if err != nil {
			logger.Fatal("loading interviews", zap.Error(err))
		}

		path, err := export.SaveWorkbook(out, reports, time.Now())
		if err != nil {
			logger.Fatal("writing the workbook", zap.Error(err))
		}

		logger.Info("interviews exported",
			zap.String("filename", path),
			zap.Int("count", len(reports)))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "interviews.xlsx", "output workbook path")
	exportCmd.Flags().StringP("status", "s", "", "only export interviews in this status (PENDING, IN_PROGRESS, COMPLETED)")
}
