package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"artmarket.backoffice/internal/domain/entities"
	domainerrors "artmarket.backoffice/internal/domain/errors"
	"artmarket.backoffice/internal/domain/repositories"
	"artmarket.backoffice/pkg/logger"
	"artmarket.backoffice/pkg/metrics"
	"artmarket.backoffice/pkg/utils"
)

// DefaultSyncBatchSize bounds SyncPendingCollections when no limit is given
const DefaultSyncBatchSize = 50

// Messages shown to back-office users
const (
	MsgCollectionNotFound  = "Collection introuvable"
	MsgNoUpdateNeeded      = "Aucune mise à jour nécessaire"
	MsgNoTransaction       = "Aucune transaction à synchroniser"
	MsgPendingConfirmation = "Transaction en attente de confirmation"
	MsgTransactionReverted = "la transaction a échoué, statut mis à jour"
	MsgCollectionSynced    = "Collection synchronisée avec succès"
	MsgEventNotFound       = "Événement ArtistCreated introuvable dans les logs de la transaction"
	MsgSyncErrorPrefix     = "Erreur lors de la synchronisation: "

	msgBlankName             = "le nom de la collection ne peut pas être vide"
	msgBlankSymbol           = "le symbole de la collection ne peut pas être vide"
	msgAddressNeedsConfirmed = "l'adresse de contrat n'est autorisée que pour une collection confirmée"
	msgConfirmedNeedsAddress = "une collection confirmée doit avoir une adresse de contrat"
)

// ReceiptFetcher looks up transaction receipts on a chain.
// A nil receipt with a nil error means the transaction is not mined yet.
type ReceiptFetcher interface {
	FetchReceipt(ctx context.Context, chainID, txHash string) (*types.Receipt, error)
}

// CollectionUsecase handles collection lifecycle and on-chain reconciliation
type CollectionUsecase struct {
	collectionRepo repositories.CollectionRepository
	contractRepo   repositories.SmartContractRepository
	uow            repositories.UnitOfWork
	receipts       ReceiptFetcher
	abiResolver    *ABIResolverMixin
}

// NewCollectionUsecase creates a new collection usecase
func NewCollectionUsecase(
	collectionRepo repositories.CollectionRepository,
	contractRepo repositories.SmartContractRepository,
	uow repositories.UnitOfWork,
	receipts ReceiptFetcher,
) *CollectionUsecase {
	return &CollectionUsecase{
		collectionRepo: collectionRepo,
		contractRepo:   contractRepo,
		uow:            uow,
		receipts:       receipts,
		abiResolver:    NewABIResolverMixin(),
	}
}

// CreateCollection registers a new collection. Its status is always pending.
func (u *CollectionUsecase) CreateCollection(ctx context.Context, input *entities.CreateCollectionInput) (*entities.Collection, error) {
	name, symbol, err := cleanNameAndSymbol(input.Name, input.Symbol)
	if err != nil {
		return nil, err
	}

	collection := &entities.Collection{
		Name:            name,
		Symbol:          symbol,
		Status:          entities.CollectionStatusPending,
		ArtistID:        input.ArtistID,
		SmartContractID: input.SmartContractID,
	}
	if input.TransactionHash != "" {
		collection.TransactionHash = null.StringFrom(input.TransactionHash)
	}

	if err := u.collectionRepo.Create(ctx, collection); err != nil {
		return nil, u.toAppError(ctx, "create collection", err)
	}

	logger.Info(ctx, "Collection created",
		zap.Int64("collectionId", collection.ID),
		zap.String("symbol", collection.Symbol),
		zap.Int64("smartContractId", collection.SmartContractID))
	return collection, nil
}

// GetCollection returns one collection
func (u *CollectionUsecase) GetCollection(ctx context.Context, id int64) (*entities.Collection, error) {
	collection, err := u.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, u.toAppError(ctx, "get collection", err)
	}
	return collection, nil
}

// ListCollections lists collections, optionally filtered by status
func (u *CollectionUsecase) ListCollections(ctx context.Context, status *entities.CollectionStatus, pagination utils.PaginationParams) ([]*entities.Collection, utils.PaginationMeta, error) {
	if status != nil && !status.IsValid() {
		return nil, utils.PaginationMeta{}, domainerrors.BadRequest(fmt.Sprintf("statut inconnu: %s", *status))
	}

	items, total, err := u.collectionRepo.List(ctx, status, pagination)
	if err != nil {
		return nil, utils.PaginationMeta{}, u.toAppError(ctx, "list collections", err)
	}
	return items, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

// UpdateCollection applies a partial update under a row lock.
// An incoming status is applied only when it moves forward, and a contract
// address is only kept on a confirmed collection.
func (u *CollectionUsecase) UpdateCollection(ctx context.Context, id int64, input *entities.UpdateCollectionInput) (*entities.Collection, error) {
	var updated *entities.Collection

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.collectionRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			if current.Name = strings.TrimSpace(*input.Name); current.Name == "" {
				return domainerrors.BadRequest(msgBlankName)
			}
		}
		if input.Symbol != nil {
			if current.Symbol = strings.TrimSpace(*input.Symbol); current.Symbol == "" {
				return domainerrors.BadRequest(msgBlankSymbol)
			}
		}
		if input.TransactionHash != nil {
			current.TransactionHash = null.StringFrom(*input.TransactionHash)
		}
		if input.Status != nil {
			next := *input.Status
			if !next.IsValid() {
				return domainerrors.BadRequest(fmt.Sprintf("statut inconnu: %s", next))
			}
			if !current.Status.CanTransitionTo(next) {
				return domainerrors.InvalidTransition(fmt.Sprintf("transition de statut interdite: %s -> %s", current.Status, next))
			}
			current.Status = next
		}
		if input.ContractAddress != nil {
			if current.Status != entities.CollectionStatusConfirmed {
				return domainerrors.BadRequest(msgAddressNeedsConfirmed)
			}
			current.ContractAddress = null.StringFrom(*input.ContractAddress)
		}
		switch current.Status {
		case entities.CollectionStatusConfirmed:
			if current.ContractAddress.String == "" {
				return domainerrors.BadRequest(msgConfirmedNeedsAddress)
			}
		default:
			current.ContractAddress = null.String{}
		}

		if err := u.collectionRepo.Update(txCtx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, u.toAppError(ctx, "update collection", err)
	}

	logger.Info(ctx, "Collection updated",
		zap.Int64("collectionId", updated.ID),
		zap.String("status", string(updated.Status)))
	return updated, nil
}

// SyncCollection reconciles a collection with the receipt of its deployment
// transaction. Every outcome, failures included, is reported in the result.
func (u *CollectionUsecase) SyncCollection(ctx context.Context, id int64) *entities.SyncCollectionResult {
	result := u.syncCollection(ctx, id)
	result.CollectionID = id
	metrics.ObserveSync(result.Code)

	fields := []zap.Field{
		zap.Int64("collectionId", id),
		zap.Bool("updated", result.Updated),
		zap.String("code", result.Code),
	}
	switch {
	case result.Code == domainerrors.CodeUnknownError || result.Code == domainerrors.CodeEventNotFound:
		logger.Error(ctx, "Collection sync failed", append(fields, zap.String("message", result.Message))...)
	case result.Updated:
		logger.Info(ctx, "Collection synced", append(fields, zap.String("contractAddress", result.ContractAddress))...)
	default:
		logger.Debug(ctx, "Collection sync without change", fields...)
	}
	return result
}

func (u *CollectionUsecase) syncCollection(ctx context.Context, id int64) *entities.SyncCollectionResult {
	collection, err := u.collectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return &entities.SyncCollectionResult{Code: domainerrors.CodeNotFound, Message: MsgCollectionNotFound}
		}
		return syncFailure(err)
	}

	if collection.Status.IsTerminal() {
		return noUpdateNeeded()
	}
	if !collection.IsSyncable() {
		return &entities.SyncCollectionResult{Success: true, Code: domainerrors.CodeNothingToSync, Message: MsgNoTransaction}
	}

	contract, err := u.contractRepo.GetByID(ctx, collection.SmartContractID)
	if err != nil {
		return syncFailure(fmt.Errorf("smart contract %d: %w", collection.SmartContractID, err))
	}

	receipt, err := u.receipts.FetchReceipt(ctx, contract.ChainID, collection.TransactionHash.String)
	if err != nil {
		return syncFailure(err)
	}
	if receipt == nil {
		return &entities.SyncCollectionResult{Success: true, Code: domainerrors.CodePendingConfirmation, Message: MsgPendingConfirmation}
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		changed, err := u.collectionRepo.MarkFailed(ctx, id)
		if err != nil {
			return syncFailure(err)
		}
		if !changed {
			return noUpdateNeeded()
		}
		return &entities.SyncCollectionResult{
			Success: true,
			Updated: true,
			Code:    domainerrors.CodeTransactionReverted,
			Message: MsgTransactionReverted,
		}
	}

	contractABI := u.abiResolver.ResolveEventABI(ctx, contract)
	addr, found := DecodeCollectionAddress(ctx, contractABI, receipt.Logs)
	if !found {
		return &entities.SyncCollectionResult{Code: domainerrors.CodeEventNotFound, Message: MsgEventNotFound}
	}
	if addr == (common.Address{}) {
		return syncFailure(errors.New("ArtistCreated porte une adresse de collection nulle"))
	}

	address := addr.Hex()
	changed, err := u.collectionRepo.MarkConfirmed(ctx, id, address)
	if err != nil {
		return syncFailure(err)
	}
	if !changed {
		return noUpdateNeeded()
	}
	return &entities.SyncCollectionResult{
		Success:         true,
		Updated:         true,
		ContractAddress: address,
		Message:         MsgCollectionSynced,
	}
}

// SyncPendingCollections reconciles pending collections carrying a transaction
// hash, least recently attempted first, and returns one result per collection.
// Rows left unchanged are touched so they move to the back of the queue.
func (u *CollectionUsecase) SyncPendingCollections(ctx context.Context, limit int) ([]*entities.SyncCollectionResult, error) {
	if limit <= 0 {
		limit = DefaultSyncBatchSize
	}

	collections, err := u.collectionRepo.ListSyncable(ctx, limit)
	if err != nil {
		return nil, u.toAppError(ctx, "list syncable collections", err)
	}

	results := make([]*entities.SyncCollectionResult, 0, len(collections))
	for _, collection := range collections {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := u.SyncCollection(ctx, collection.ID)
		if !result.Updated {
			if err := u.collectionRepo.TouchSyncAttempt(ctx, collection.ID); err != nil {
				logger.Warn(ctx, "Failed to record sync attempt",
					zap.Int64("collectionId", collection.ID),
					zap.Error(err))
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func cleanNameAndSymbol(name, symbol string) (string, string, error) {
	name, symbol = strings.TrimSpace(name), strings.TrimSpace(symbol)
	if name == "" {
		return "", "", domainerrors.BadRequest(msgBlankName)
	}
	if symbol == "" {
		return "", "", domainerrors.BadRequest(msgBlankSymbol)
	}
	return name, symbol, nil
}

func noUpdateNeeded() *entities.SyncCollectionResult {
	return &entities.SyncCollectionResult{Success: true, Code: domainerrors.CodeNothingToSync, Message: MsgNoUpdateNeeded}
}

func syncFailure(err error) *entities.SyncCollectionResult {
	return &entities.SyncCollectionResult{Code: domainerrors.CodeUnknownError, Message: MsgSyncErrorPrefix + err.Error()}
}

// toAppError keeps typed errors and collapses everything else to an internal error
func (u *CollectionUsecase) toAppError(ctx context.Context, op string, err error) error {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(MsgCollectionNotFound)
	}
	logger.Error(ctx, "Collection operation failed", zap.String("op", op), zap.Error(err))
	return domainerrors.InternalError(err)
}
