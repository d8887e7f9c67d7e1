package usecases_test

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"

	"artmarket.backoffice/internal/domain/entities"
	"artmarket.backoffice/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// Mock CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) Create(ctx context.Context, collection *entities.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) GetByID(ctx context.Context, id int64) (*entities.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Collection), args.Error(1)
}

func (m *MockCollectionRepository) List(ctx context.Context, status *entities.CollectionStatus, pagination utils.PaginationParams) ([]*entities.Collection, int64, error) {
	args := m.Called(ctx, status, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Collection), args.Get(1).(int64), args.Error(2)
}

func (m *MockCollectionRepository) ListSyncable(ctx context.Context, limit int) ([]*entities.Collection, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Update(ctx context.Context, collection *entities.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) MarkConfirmed(ctx context.Context, id int64, contractAddress string) (bool, error) {
	args := m.Called(ctx, id, contractAddress)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepository) TouchSyncAttempt(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock SmartContractRepository
type MockSmartContractRepository struct {
	mock.Mock
}

func (m *MockSmartContractRepository) Create(ctx context.Context, contract *entities.SmartContract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockSmartContractRepository) GetByID(ctx context.Context, id int64) (*entities.SmartContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SmartContract), args.Error(1)
}

func (m *MockSmartContractRepository) GetAll(ctx context.Context, pagination utils.PaginationParams) ([]*entities.SmartContract, int64, error) {
	args := m.Called(ctx, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.SmartContract), args.Get(1).(int64), args.Error(2)
}

func (m *MockSmartContractRepository) Update(ctx context.Context, contract *entities.SmartContract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockSmartContractRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock ReceiptFetcher
type MockReceiptFetcher struct {
	mock.Mock
}

func (m *MockReceiptFetcher) FetchReceipt(ctx context.Context, chainID, txHash string) (*types.Receipt, error) {
	args := m.Called(ctx, chainID, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}
