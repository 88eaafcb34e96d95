package repositories

import (
	"errors"
	"time"

	"loadlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrLoadNotFound = errors.New("load not found")

// LoadFilter narrows the open-load listing. Zero values mean "any".
type LoadFilter struct {
	Type       models.LoadType
	Status     models.LoadStatus
	PickupZip  string
	OwnerID    string
	AssignedTo string
	Page       int
	PageSize   int
}

type LoadRepository interface {
	Create(load *models.Load) error
	FindByID(id string) (*models.Load, error)
	Update(load *models.Load) error
	UpdateStatus(loadID string, status models.LoadStatus) error
	List(filter LoadFilter) ([]models.Load, int64, error)

	// CancelExpired cancels active loads whose pickup date has passed.
	// Returns the number of loads cancelled.
	CancelExpired(now time.Time) (int64, error)
}

type LoadRepositoryImpl struct {
	db *gorm.DB
}

func NewLoadRepository(db *gorm.DB) LoadRepository {
	return &LoadRepositoryImpl{db: db}
}

func (r *LoadRepositoryImpl) Create(load *models.Load) error {
	return r.db.Create(load).Error
}

func (r *LoadRepositoryImpl) FindByID(id string) (*models.Load, error) {
	var load models.Load
	err := r.db.Preload("Owner").First(&load, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoadNotFound
		}
		return nil, err
	}
	return &load, nil
}

func (r *LoadRepositoryImpl) Update(load *models.Load) error {
	return r.db.Save(load).Error
}

func (r *LoadRepositoryImpl) UpdateStatus(loadID string, status models.LoadStatus) error {
	result := r.db.Model(&models.Load{}).Where("id = ?", loadID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLoadNotFound
	}
	return nil
}

func (r *LoadRepositoryImpl) List(filter LoadFilter) ([]models.Load, int64, error) {
	query := r.db.Model(&models.Load{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PickupZip != "" {
		query = query.Where("pickup_zip = ?", filter.PickupZip)
	}
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var loads []models.Load
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&loads).Error
	if err != nil {
		return nil, 0, err
	}

	return loads, total, nil
}

func (r *LoadRepositoryImpl) CancelExpired(now time.Time) (int64, error) {
	result := r.db.Model(&models.Load{}).
		Where("status = ? AND pickup_date < ?", models.LoadStatusActive, now).
		Update("status", models.LoadStatusCancelled)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
