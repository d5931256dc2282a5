package application

import (
	"context"
	stderrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// SettingsApplicationService serves per-user preferences
type SettingsApplicationService struct {
	repo     domain.SettingsRepository
	validate *validator.Validate
	logger   *logging.Logger
}

// NewSettingsApplicationService creates a new SettingsApplicationService
func NewSettingsApplicationService(repo domain.SettingsRepository, validate *validator.Validate, logger *logging.Logger) *SettingsApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsApplicationService{
		repo:     repo,
		validate: validate,
		logger:   logger.WithComponent("settings"),
	}
}

// GetSettings returns the stored settings or the defaults for a new user
func (s *SettingsApplicationService) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	settings, err := s.repo.FindByUserID(ctx, userID)
	if stderrors.Is(err, domain.ErrNotFound) {
		return domain.DefaultUserSettings(userID), nil
	}
	if err != nil {
		return nil, toAppError("settings", err)
	}
	return settings, nil
}

// UpdateSettings merges the supplied sections and stores the result
func (s *SettingsApplicationService) UpdateSettings(ctx context.Context, userID string, patch domain.SettingsPatch) (*domain.UserSettings, error) {
	if err := s.validate.Struct(patch); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			fields := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields[fe.Field()] = "failed on " + fe.Tag()
			}
			return nil, errors.ErrValidationWithFields("invalid settings", fields)
		}
		return nil, errors.ErrValidation(err.Error())
	}

	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.Merge(patch)

	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.WithError(err).Error("Failed to save settings", "userId", userID)
		return nil, toAppError("settings", err)
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "settings.updated",
		EntityType: "userSettings",
		EntityID:   userID,
		Action:     "updated",
		UserID:     userID,
	})
	return settings, nil
}
