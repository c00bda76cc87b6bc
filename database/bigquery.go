package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"

	"kucukaslan/gadsconversion/config"
	"kucukaslan/gadsconversion/logger"
)

// BigQueryLogStore streams log rows into a BigQuery table.
type BigQueryLogStore struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

// NewBigQueryLogStore opens a client with Application Default Credentials.
func NewBigQueryLogStore(ctx context.Context, cfg *config.BigQueryConfig) (*BigQueryLogStore, error) {
	if cfg.ProjectID == "" || cfg.DatasetID == "" || cfg.TableID == "" {
		return nil, fmt.Errorf("BigQuery project, dataset and table are required")
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}

	inserter := client.Dataset(cfg.DatasetID).Table(cfg.TableID).Inserter()
	// rows carry columns the table may not have yet
	inserter.IgnoreUnknownValues = true

	logger.Info("BigQuery log store ready",
		zap.String("project", cfg.ProjectID),
		zap.String("dataset", cfg.DatasetID),
		zap.String("table", cfg.TableID))

	return &BigQueryLogStore{client: client, inserter: inserter}, nil
}

// WriteLogRow inserts one row. The schema is inferred from LogRow's bigquery tags.
func (s *BigQueryLogStore) WriteLogRow(ctx context.Context, row LogRow) error {
	if err := s.inserter.Put(ctx, []*LogRow{&row}); err != nil {
		return fmt.Errorf("BigQuery insert: %w", err)
	}
	return nil
}

func (s *BigQueryLogStore) Close() error {
	return s.client.Close()
}
