package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "rentflow/internal/errors"
	"rentflow/internal/logger"
	"rentflow/internal/models"
)

// activityService records user actions into the append-only activity log.
type activityService struct {
	db *gorm.DB
}

// NewActivityService creates a new ActivityServicer.
func NewActivityService(db *gorm.DB) ActivityServicer {
	return &activityService{db: db}
}

// Record writes an activity row. Failures are logged and swallowed so an
// unavailable log never fails the operation being recorded.
func (s *activityService) Record(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Warnw("failed to marshal activity changes", "action", action, "error", err)
		} else {
			changesJSON = string(data)
		}
	}

	activity := &models.Activity{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(activity).Error; err != nil {
		logger.Get().Errorw("failed to record activity",
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"error", err,
		)
	}
}

// GetRecent returns the user's most recent activity entries, newest first.
func (s *activityService) GetRecent(userID string, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var activities []models.Activity
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return activities, nil
}
