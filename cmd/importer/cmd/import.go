package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Broker-Document-Importer/internal/config"
	"github.com/ndewijer/Broker-Document-Importer/internal/database"
	"github.com/ndewijer/Broker-Document-Importer/internal/repository"
	"github.com/ndewijer/Broker-Document-Importer/internal/secret"
	"github.com/ndewijer/Broker-Document-Importer/internal/service"
)

func newImportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Parse files and store their activities",
		Long: `Parse files and store their activities in the database.

Documents that were imported before are reported as duplicates. The source
text is retained encrypted when DOCUMENT_ENCRYPTION_KEY is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Database.Path
			}

			docs, err := readDocuments(args)
			if err != nil {
				return err
			}

			db, err := database.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}

			var box *secret.Box
			if cfg.Import.EncryptionKey != "" {
				if box, err = secret.NewBox(cfg.Import.EncryptionKey); err != nil {
					return fmt.Errorf("invalid DOCUMENT_ENCRYPTION_KEY: %w", err)
				}
			}

			svc := service.NewImportService(newRegistry(), repository.NewActivityRepository(db), box, cfg.Import.Workers)
			summary := svc.ImportBatch(ctx, docs)
			if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default DB_PATH)")

	return cmd
}
