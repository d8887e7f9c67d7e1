package usecases

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"

	"artmarket.backoffice/internal/domain/entities"
	"artmarket.backoffice/pkg/logger"
)

// ABIResolverMixin resolves the factory ABI of a smart contract record
type ABIResolverMixin struct {
	abiCache sync.Map // map[string]*abi.ABI (key: contract id + last update)
}

func NewABIResolverMixin() *ABIResolverMixin {
	return &ABIResolverMixin{}
}

// ResolveABI parses the ABI stored on the contract record and caches it.
// It returns (nil, nil) when the record carries no ABI.
func (u *ABIResolverMixin) ResolveABI(contract *entities.SmartContract) (*abi.ABI, error) {
	if !contract.ABI.Valid || len(contract.ABI.JSON) == 0 {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("%d:%d", contract.ID, contract.UpdatedAt.UnixNano())
	if cached, ok := u.abiCache.Load(cacheKey); ok {
		if parsedABI, ok := cached.(*abi.ABI); ok {
			return parsedABI, nil
		}
	}

	parsed, err := abi.JSON(bytes.NewReader(contract.ABI.JSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of smart contract %d: %w", contract.ID, err)
	}

	u.abiCache.Store(cacheKey, &parsed)
	return &parsed, nil
}

// ResolveEventABI returns the contract ABI when it defines ArtistCreated,
// and the built-in factory ABI otherwise.
func (u *ABIResolverMixin) ResolveEventABI(ctx context.Context, contract *entities.SmartContract) abi.ABI {
	parsed, err := u.ResolveABI(contract)
	if err != nil {
		logger.Warn(ctx, "Stored ABI unusable, using built-in factory ABI",
			zap.Int64("smartContractId", contract.ID), zap.Error(err))
		return FallbackArtistFactoryABI
	}
	if parsed == nil {
		return FallbackArtistFactoryABI
	}
	if _, ok := parsed.Events[ArtistCreatedEvent]; !ok {
		logger.Debug(ctx, "Stored ABI has no ArtistCreated event, using built-in factory ABI",
			zap.Int64("smartContractId", contract.ID), zap.Int("events", len(parsed.Events)))
		return FallbackArtistFactoryABI
	}
	return *parsed
}
