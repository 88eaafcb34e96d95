package repositories

import (
	"errors"
	"time"

	"loadlink_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRequestNotFound = errors.New("load request not found")

	// ErrAssignmentConflict is returned when the load was assigned to another
	// carrier between the decision check and the transactional re-check.
	ErrAssignmentConflict = errors.New("load already assigned")
)

type RequestRepository interface {
	Create(request *models.LoadRequest) error
	FindByID(id string) (*models.LoadRequest, error)
	FindByLoad(loadID string) ([]models.LoadRequest, error)
	FindByRequester(requesterID string) ([]models.LoadRequest, error)
	HasPendingRequest(loadID, requesterID string) (bool, error)
	CountPendingByLoad(loadID string) (int64, error)

	// Reject marks a single pending request rejected with an optional message
	// from the load owner. The load itself is untouched.
	Reject(requestID string, responseMessage *string) error

	// AcceptAndAssign runs the winning decision as one transaction: the load
	// row is locked and re-checked (still active, still unassigned), the
	// winning request becomes accepted, every other pending request on the
	// load is bulk-rejected with the cascade message, and the load is marked
	// assigned to the requester. A failed re-check aborts the whole
	// transaction with ErrAssignmentConflict so a concurrent accept can win.
	AcceptAndAssign(requestID, loadID, requesterID string, responseMessage *string) error
}

type RequestRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &RequestRepositoryImpl{db: db}
}

func (r *RequestRepositoryImpl) Create(request *models.LoadRequest) error {
	return r.db.Create(request).Error
}

func (r *RequestRepositoryImpl) FindByID(id string) (*models.LoadRequest, error) {
	var request models.LoadRequest
	err := r.db.Preload("Load").First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepositoryImpl) FindByLoad(loadID string) ([]models.LoadRequest, error) {
	var requests []models.LoadRequest
	err := r.db.Preload("Requester").
		Where("load_id = ?", loadID).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepositoryImpl) FindByRequester(requesterID string) ([]models.LoadRequest, error) {
	var requests []models.LoadRequest
	err := r.db.Preload("Load").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepositoryImpl) HasPendingRequest(loadID, requesterID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.LoadRequest{}).
		Where("load_id = ? AND requester_id = ? AND status = ?",
			loadID, requesterID, models.RequestStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RequestRepositoryImpl) CountPendingByLoad(loadID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.LoadRequest{}).
		Where("load_id = ? AND status = ?", loadID, models.RequestStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RequestRepositoryImpl) Reject(requestID string, responseMessage *string) error {
	result := r.db.Model(&models.LoadRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":           models.RequestStatusRejected,
			"response_message": responseMessage,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepositoryImpl) AcceptAndAssign(requestID, loadID, requesterID string, responseMessage *string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Lock the load row and re-check under the lock. A concurrent accept
		// that already committed leaves nothing to lock here.
		var load models.Load
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ? AND assigned_to IS NULL",
				loadID, models.LoadStatusActive).
			First(&load).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentConflict
			}
			return err
		}

		now := time.Now()

		// The winner.
		result := tx.Model(&models.LoadRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":           models.RequestStatusAccepted,
				"response_message": responseMessage,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRequestNotFound
		}

		// Every other pending request on this load loses.
		err = tx.Model(&models.LoadRequest{}).
			Where("load_id = ? AND status = ? AND id <> ?",
				loadID, models.RequestStatusPending, requestID).
			Updates(map[string]interface{}{
				"status":           models.RequestStatusRejected,
				"response_message": models.CascadeRejectionMessage,
			}).Error
		if err != nil {
			return err
		}

		// The load leaves the open marketplace.
		result = tx.Model(&models.Load{}).
			Where("id = ? AND status = ? AND assigned_to IS NULL",
				loadID, models.LoadStatusActive).
			Updates(map[string]interface{}{
				"status":      models.LoadStatusAssigned,
				"assigned_to": requesterID,
				"assigned_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAssignmentConflict
		}

		return nil
	})
}
