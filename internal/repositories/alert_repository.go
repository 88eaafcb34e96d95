package repositories

import (
	"errors"

	"loadlink_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrServiceAreaNotFound = errors.New("service area not found")

// AlertRepository manages the data behind load matching: the service areas a
// user watches and the per-user alert preference row.
type AlertRepository interface {
	CreateArea(area *models.ServiceArea) error
	FindAreasByUser(userID string) ([]models.ServiceArea, error)
	DeleteArea(userID, areaID string) error

	FindPreference(userID string) (*models.AlertPreference, error)
	UpsertPreference(pref *models.AlertPreference) error
}

type AlertRepositoryImpl struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &AlertRepositoryImpl{db: db}
}

func (r *AlertRepositoryImpl) CreateArea(area *models.ServiceArea) error {
	return r.db.Create(area).Error
}

func (r *AlertRepositoryImpl) FindAreasByUser(userID string) ([]models.ServiceArea, error) {
	var areas []models.ServiceArea
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&areas).Error
	if err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *AlertRepositoryImpl) DeleteArea(userID, areaID string) error {
	result := r.db.Where("id = ? AND user_id = ?", areaID, userID).
		Delete(&models.ServiceArea{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceAreaNotFound
	}
	return nil
}

func (r *AlertRepositoryImpl) FindPreference(userID string) (*models.AlertPreference, error) {
	var pref models.AlertPreference
	if err := r.db.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *AlertRepositoryImpl) UpsertPreference(pref *models.AlertPreference) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email_enabled", "rfp_alerts", "open_truck_alerts", "updated_at",
		}),
	}).Create(pref).Error
}
