package repositories

import (
	"context"

	"artmarket.backoffice/internal/domain/entities"
	"artmarket.backoffice/pkg/utils"
)

// CollectionRepository defines collection data operations
type CollectionRepository interface {
	Create(ctx context.Context, collection *entities.Collection) error
	GetByID(ctx context.Context, id int64) (*entities.Collection, error)
	List(ctx context.Context, status *entities.CollectionStatus, pagination utils.PaginationParams) ([]*entities.Collection, int64, error)
	// ListSyncable returns pending collections carrying a transaction hash,
	// least recently attempted first
	ListSyncable(ctx context.Context, limit int) ([]*entities.Collection, error)
	// TouchSyncAttempt bumps updated_at of a still pending row so the next
	// batch starts with collections that were not tried yet
	TouchSyncAttempt(ctx context.Context, id int64) error
	Update(ctx context.Context, collection *entities.Collection) error
	// MarkConfirmed writes the contract address and the confirmed status in one
	// statement, only while the row is still pending. Reports whether a row changed.
	MarkConfirmed(ctx context.Context, id int64, contractAddress string) (bool, error)
	// MarkFailed moves a pending row to failed. Reports whether a row changed.
	MarkFailed(ctx context.Context, id int64) (bool, error)
}
