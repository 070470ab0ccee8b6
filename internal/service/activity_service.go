package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
	"github.com/ndewijer/Broker-Document-Importer/internal/repository"
	"github.com/ndewijer/Broker-Document-Importer/internal/secret"
)

// ActivityService handles reading and removing stored activities.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	registry     *parser.Registry
	box          *secret.Box
}

// NewActivityService creates a new ActivityService. box may be nil when no
// encryption key is configured; retained sources then cannot be read.
func NewActivityService(
	activityRepo *repository.ActivityRepository,
	registry *parser.Registry,
	box *secret.Box,
) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		registry:     registry,
		box:          box,
	}
}

// GetActivities lists stored activities matching the filter.
func (s *ActivityService) GetActivities(filter model.ActivityFilter) ([]model.ImportedActivity, error) {
	return s.activityRepo.ListActivities(filter)
}

// GetActivity retrieves one stored activity.
func (s *ActivityService) GetActivity(id string) (model.ImportedActivity, error) {
	return s.activityRepo.GetActivity(id)
}

// DeleteActivity removes a stored activity so its document can be imported again.
func (s *ActivityService) DeleteActivity(ctx context.Context, id string) error {
	return s.activityRepo.DeleteActivity(ctx, id)
}

// ReparseActivity parses the retained source of a stored activity again and
// reports whether the current engine extracts different values.
func (s *ActivityService) ReparseActivity(id string) (model.ReparseResult, error) {
	stored, err := s.activityRepo.GetActivity(id)
	if err != nil {
		return model.ReparseResult{}, err
	}
	if s.box == nil {
		return model.ReparseResult{}, fmt.Errorf("%w: no encryption key configured", apperrors.ErrSourceNotRetained)
	}

	token, err := s.activityRepo.GetSource(id)
	if err != nil {
		return model.ReparseResult{}, err
	}
	text, err := s.box.Decrypt(token)
	if err != nil {
		return model.ReparseResult{}, fmt.Errorf("%w: %w", apperrors.ErrSourceNotRetained, err)
	}

	current, err := s.registry.Parse(parser.SplitLines(text))
	if err != nil {
		return model.ReparseResult{}, err
	}

	return model.ReparseResult{
		ID:      id,
		Stored:  stored.Activity,
		Current: current,
		Changed: !stored.Activity.Equal(current),
	}, nil
}
