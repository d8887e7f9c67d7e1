package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"artmarket.backoffice/internal/domain/entities"
	domainerrors "artmarket.backoffice/internal/domain/errors"
	"artmarket.backoffice/internal/infrastructure/models"
	"artmarket.backoffice/pkg/utils"
)

// CollectionRepository implements collection data operations with GORM
type CollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Create(ctx context.Context, collection *entities.Collection) error {
	m := r.toModel(collection)
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := GetDB(ctx, r.db).Omit("Artist", "SmartContract").Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	collection.ID = m.ID
	collection.CreatedAt = m.CreatedAt
	collection.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id int64) (*entities.Collection, error) {
	var m models.Collection
	if err := lockedQuery(ctx, GetDB(ctx, r.db)).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *CollectionRepository) List(ctx context.Context, status *entities.CollectionStatus, pagination utils.PaginationParams) ([]*entities.Collection, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.Collection{})
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}

	var ms []models.Collection
	if err := query.Order("id DESC").Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Collection, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

func (r *CollectionRepository) ListSyncable(ctx context.Context, limit int) ([]*entities.Collection, error) {
	query := GetDB(ctx, r.db).
		Where("status = ? AND transaction_hash IS NOT NULL AND transaction_hash <> ''", string(entities.CollectionStatusPending)).
		Order("updated_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ms []models.Collection
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.Collection, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *CollectionRepository) Update(ctx context.Context, collection *entities.Collection) error {
	now := time.Now()
	result := GetDB(ctx, r.db).Model(&models.Collection{}).
		Where("id = ?", collection.ID).
		Updates(map[string]interface{}{
			"name":             collection.Name,
			"symbol":           collection.Symbol,
			"contract_address": collection.ContractAddress.Ptr(),
			"status":           string(collection.Status),
			"transaction_hash": collection.TransactionHash.Ptr(),
			"updated_at":       now,
		})
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	collection.UpdatedAt = now
	return nil
}

func (r *CollectionRepository) MarkConfirmed(ctx context.Context, id int64, contractAddress string) (bool, error) {
	result := GetDB(ctx, r.db).Model(&models.Collection{}).
		Where("id = ? AND status = ?", id, string(entities.CollectionStatusPending)).
		Updates(map[string]interface{}{
			"status":           string(entities.CollectionStatusConfirmed),
			"contract_address": contractAddress,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CollectionRepository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	result := GetDB(ctx, r.db).Model(&models.Collection{}).
		Where("id = ? AND status = ?", id, string(entities.CollectionStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entities.CollectionStatusFailed),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CollectionRepository) TouchSyncAttempt(ctx context.Context, id int64) error {
	return GetDB(ctx, r.db).Model(&models.Collection{}).
		Where("id = ? AND status = ?", id, string(entities.CollectionStatusPending)).
		UpdateColumn("updated_at", time.Now()).Error
}

func (r *CollectionRepository) toModel(c *entities.Collection) *models.Collection {
	status := c.Status
	if status == "" {
		status = entities.CollectionStatusPending
	}
	return &models.Collection{
		ID:              c.ID,
		Name:            c.Name,
		Symbol:          c.Symbol,
		ContractAddress: c.ContractAddress.Ptr(),
		Status:          string(status),
		TransactionHash: c.TransactionHash.Ptr(),
		ArtistID:        c.ArtistID,
		SmartContractID: c.SmartContractID,
	}
}

func (r *CollectionRepository) toEntity(m *models.Collection) *entities.Collection {
	return &entities.Collection{
		ID:              m.ID,
		Name:            m.Name,
		Symbol:          m.Symbol,
		ContractAddress: null.StringFromPtr(m.ContractAddress),
		Status:          entities.CollectionStatus(m.Status),
		TransactionHash: null.StringFromPtr(m.TransactionHash),
		ArtistID:        m.ArtistID,
		SmartContractID: m.SmartContractID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
