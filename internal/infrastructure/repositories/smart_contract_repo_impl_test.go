package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"artmarket.backoffice/internal/domain/entities"
	domainerrors "artmarket.backoffice/internal/domain/errors"
	"artmarket.backoffice/pkg/utils"
)

func TestSmartContractRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	createSmartContractTable(t, db)
	repo := NewSmartContractRepository(db)
	ctx := context.Background()

	contract := &entities.SmartContract{
		Name:            "ArtistFactory",
		ChainID:         "eip155:11155111",
		ContractAddress: "0x00000000000000000000000000000000000000f1",
		ABI:             null.JSONFrom([]byte(`[{"type":"event","name":"ArtistCreated","inputs":[]}]`)),
		IsActive:        true,
	}
	require.NoError(t, repo.Create(ctx, contract))
	require.NotZero(t, contract.ID)

	got, err := repo.GetByID(ctx, contract.ID)
	require.NoError(t, err)
	require.Equal(t, "eip155:11155111", got.ChainID)
	require.True(t, got.ABI.Valid)
	require.JSONEq(t, `[{"type":"event","name":"ArtistCreated","inputs":[]}]`, string(got.ABI.JSON))

	got.Name = "ArtistFactory v1.1"
	got.Description = null.StringFrom("Sepolia factory")
	require.NoError(t, repo.Update(ctx, got))

	items, total, err := repo.GetAll(ctx, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.Equal(t, "ArtistFactory v1.1", items[0].Name)
	require.Equal(t, "Sepolia factory", items[0].Description.String)

	dup := *contract
	dup.ID = 0
	err = repo.Create(ctx, &dup)
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	require.NoError(t, repo.SoftDelete(ctx, contract.ID))
	_, err = repo.GetByID(ctx, contract.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	require.ErrorIs(t, repo.SoftDelete(ctx, contract.ID), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, &entities.SmartContract{ID: 404}), domainerrors.ErrNotFound)
}

func TestSmartContractRepository_NoABI(t *testing.T) {
	db := newTestDB(t)
	createSmartContractTable(t, db)
	repo := NewSmartContractRepository(db)
	ctx := context.Background()

	contract := &entities.SmartContract{
		Name:            "LegacyFactory",
		ChainID:         "eip155:1",
		ContractAddress: "0x00000000000000000000000000000000000000f3",
		IsActive:        true,
	}
	require.NoError(t, repo.Create(ctx, contract))

	got, err := repo.GetByID(ctx, contract.ID)
	require.NoError(t, err)
	require.False(t, got.ABI.Valid)
}
