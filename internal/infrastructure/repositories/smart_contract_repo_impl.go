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

// SmartContractRepository implements smart contract data operations
type SmartContractRepository struct {
	db *gorm.DB
}

// NewSmartContractRepository creates a new smart contract repository
func NewSmartContractRepository(db *gorm.DB) *SmartContractRepository {
	return &SmartContractRepository{db: db}
}

// Create creates a new smart contract record
func (r *SmartContractRepository) Create(ctx context.Context, contract *entities.SmartContract) error {
	m := r.toModel(contract)
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	contract.ID = m.ID
	contract.CreatedAt = m.CreatedAt
	contract.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a smart contract by ID
func (r *SmartContractRepository) GetByID(ctx context.Context, id int64) (*entities.SmartContract, error) {
	var m models.SmartContract
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetAll gets all smart contracts
func (r *SmartContractRepository) GetAll(ctx context.Context, pagination utils.PaginationParams) ([]*entities.SmartContract, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.SmartContract{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}

	var ms []models.SmartContract
	if err := query.Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.SmartContract, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

// Update updates a smart contract
func (r *SmartContractRepository) Update(ctx context.Context, contract *entities.SmartContract) error {
	now := time.Now()
	result := GetDB(ctx, r.db).Model(&models.SmartContract{}).
		Where("id = ?", contract.ID).
		Updates(map[string]interface{}{
			"name":        contract.Name,
			"abi":         abiPtr(contract.ABI),
			"is_active":   contract.IsActive,
			"description": contract.Description.Ptr(),
			"updated_at":  now,
		})
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	contract.UpdatedAt = now
	return nil
}

// SoftDelete soft deletes a smart contract
func (r *SmartContractRepository) SoftDelete(ctx context.Context, id int64) error {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.SmartContract{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func abiPtr(abi null.JSON) *string {
	if !abi.Valid || len(abi.JSON) == 0 {
		return nil
	}
	s := string(abi.JSON)
	return &s
}

func (r *SmartContractRepository) toModel(c *entities.SmartContract) *models.SmartContract {
	return &models.SmartContract{
		ID:              c.ID,
		Name:            c.Name,
		ChainID:         c.ChainID,
		ContractAddress: c.ContractAddress,
		ABI:             abiPtr(c.ABI),
		IsActive:        c.IsActive,
		Description:     c.Description.Ptr(),
	}
}

func (r *SmartContractRepository) toEntity(m *models.SmartContract) *entities.SmartContract {
	contract := &entities.SmartContract{
		ID:              m.ID,
		Name:            m.Name,
		ChainID:         m.ChainID,
		ContractAddress: m.ContractAddress,
		IsActive:        m.IsActive,
		Description:     null.StringFromPtr(m.Description),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.ABI != nil && *m.ABI != "" {
		contract.ABI = null.JSONFrom([]byte(*m.ABI))
	}
	return contract
}
