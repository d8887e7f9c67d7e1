package repositories

import (
	"context"

	"artmarket.backoffice/internal/domain/entities"
	"artmarket.backoffice/pkg/utils"
)

// SmartContractRepository defines smart contract data operations
type SmartContractRepository interface {
	Create(ctx context.Context, contract *entities.SmartContract) error
	GetByID(ctx context.Context, id int64) (*entities.SmartContract, error)
	GetAll(ctx context.Context, pagination utils.PaginationParams) ([]*entities.SmartContract, int64, error)
	Update(ctx context.Context, contract *entities.SmartContract) error
	SoftDelete(ctx context.Context, id int64) error
}
