package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"artmarket.backoffice/internal/domain/entities"
	domainerrors "artmarket.backoffice/internal/domain/errors"
	"artmarket.backoffice/internal/domain/repositories"
	"artmarket.backoffice/pkg/logger"
	"artmarket.backoffice/pkg/utils"
)

const msgContractNotFound = "Smart contract introuvable"

// SmartContractUsecase manages the factory contract registry
type SmartContractUsecase struct {
	repo repositories.SmartContractRepository
}

// NewSmartContractUsecase creates a new smart contract usecase
func NewSmartContractUsecase(repo repositories.SmartContractRepository) *SmartContractUsecase {
	return &SmartContractUsecase{repo: repo}
}

// CreateSmartContract validates and stores a new registry entry
func (u *SmartContractUsecase) CreateSmartContract(ctx context.Context, input *entities.CreateSmartContractInput) (*entities.SmartContract, error) {
	if !isEVMChain(input.ChainID) {
		return nil, domainerrors.BadRequest("chainId doit être au format CAIP-2 eip155:<id>")
	}
	contractABI, err := NormalizeContractABI(input.ABI)
	if err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}

	contract := &entities.SmartContract{
		Name:            strings.TrimSpace(input.Name),
		ChainID:         input.ChainID,
		ContractAddress: common.HexToAddress(input.ContractAddress).Hex(),
		ABI:             contractABI,
		IsActive:        true,
	}
	if input.Description != "" {
		contract.Description = null.StringFrom(input.Description)
	}

	if err := u.repo.Create(ctx, contract); err != nil {
		return nil, u.toAppError(ctx, err)
	}
	return contract, nil
}

// GetSmartContract returns one registry entry
func (u *SmartContractUsecase) GetSmartContract(ctx context.Context, id int64) (*entities.SmartContract, error) {
	contract, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, u.toAppError(ctx, err)
	}
	return contract, nil
}

// ListSmartContracts lists registry entries
func (u *SmartContractUsecase) ListSmartContracts(ctx context.Context, pagination utils.PaginationParams) ([]*entities.SmartContract, utils.PaginationMeta, error) {
	items, total, err := u.repo.GetAll(ctx, pagination)
	if err != nil {
		return nil, utils.PaginationMeta{}, u.toAppError(ctx, err)
	}
	return items, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

// UpdateSmartContract applies a partial update
func (u *SmartContractUsecase) UpdateSmartContract(ctx context.Context, id int64, input *entities.UpdateSmartContractInput) (*entities.SmartContract, error) {
	contract, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, u.toAppError(ctx, err)
	}

	if input.Name != "" {
		contract.Name = strings.TrimSpace(input.Name)
	}
	if input.ABI != nil {
		contractABI, err := NormalizeContractABI(input.ABI)
		if err != nil {
			return nil, domainerrors.BadRequest(err.Error())
		}
		contract.ABI = contractABI
	}
	if input.IsActive != nil {
		contract.IsActive = *input.IsActive
	}
	if input.Description != nil {
		contract.Description = null.StringFrom(*input.Description)
	}

	if err := u.repo.Update(ctx, contract); err != nil {
		return nil, u.toAppError(ctx, err)
	}
	return contract, nil
}

// DeleteSmartContract soft deletes a registry entry
func (u *SmartContractUsecase) DeleteSmartContract(ctx context.Context, id int64) error {
	if err := u.repo.SoftDelete(ctx, id); err != nil {
		return u.toAppError(ctx, err)
	}
	return nil
}

// NormalizeContractABI checks that raw is a parseable ABI and returns it as JSON.
// Both a bare ABI array and a JSON string holding one are accepted.
func NormalizeContractABI(raw interface{}) (null.JSON, error) {
	if raw == nil {
		return null.JSON{}, nil
	}

	var encoded []byte
	if s, ok := raw.(string); ok {
		encoded = []byte(s)
	} else {
		var err error
		if encoded, err = json.Marshal(raw); err != nil {
			return null.JSON{}, fmt.Errorf("ABI invalide: %w", err)
		}
	}

	if _, err := abi.JSON(bytes.NewReader(encoded)); err != nil {
		return null.JSON{}, fmt.Errorf("ABI invalide: %w", err)
	}
	return null.JSONFrom(encoded), nil
}

func (u *SmartContractUsecase) toAppError(ctx context.Context, err error) error {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(msgContractNotFound)
	}
	logger.Error(ctx, "Smart contract operation failed", zap.Error(err))
	return domainerrors.InternalError(err)
}

func isEVMChain(chainID string) bool {
	return strings.HasPrefix(chainID, "eip155:") && len(chainID) > len("eip155:")
}
