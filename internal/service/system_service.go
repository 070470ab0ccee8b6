package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Broker-Document-Importer/internal/database"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
	"github.com/ndewijer/Broker-Document-Importer/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	registry *parser.Registry
	features map[string]bool
}

// NewSystemService creates a new SystemService. features lists optional
// capabilities enabled by configuration, e.g. source retention.
func NewSystemService(db *sql.DB, registry *parser.Registry, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		registry: registry,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports application and schema versions, the supported
// brokers and whether the schema needs migrating.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, pending, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	features := make(map[string]bool, len(s.features))
	for k, v := range s.features {
		features[k] = v
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       fmt.Sprintf("%d", dbVersion),
		Brokers:         s.registry.Brokers(),
		Features:        features,
		MigrationNeeded: pending,
	}
	if pending {
		msg := "database schema is behind the application, run migrations"
		info.MigrationMessage = &msg
	}
	return info, nil
}
