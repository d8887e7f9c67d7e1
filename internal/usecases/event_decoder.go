package usecases

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"artmarket.backoffice/pkg/logger"
)

const (
	// ArtistCreatedEvent is emitted by the factory contract once a collection contract is deployed
	ArtistCreatedEvent = "ArtistCreated"
	// collectionAddressArg carries the deployed collection contract address
	collectionAddressArg = "_collectionAddress"
)

// FallbackArtistFactoryABI is used when the smart contract record carries no usable ABI.
// event ArtistCreated(address indexed _artist, address _collectionAddress, string _name, string _symbol)
var FallbackArtistFactoryABI = mustParseABI(`[
	{"anonymous":false,"inputs":[
		{"indexed":true,"internalType":"address","name":"_artist","type":"address"},
		{"indexed":false,"internalType":"address","name":"_collectionAddress","type":"address"},
		{"indexed":false,"internalType":"string","name":"_name","type":"string"},
		{"indexed":false,"internalType":"string","name":"_symbol","type":"string"}
	],"name":"ArtistCreated","type":"event"}
]`)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// DecodeCollectionAddress scans logs in receipt order and returns the collection
// address of the first ArtistCreated event that decodes. Logs of other events are
// skipped without decoding. The address may be zero; callers decide what to do with it.
func DecodeCollectionAddress(ctx context.Context, contractABI abi.ABI, logs []*types.Log) (common.Address, bool) {
	event, ok := contractABI.Events[ArtistCreatedEvent]
	if !ok {
		return common.Address{}, false
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}

	for _, lg := range logs {
		if lg == nil || len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
			continue
		}

		values := make(map[string]interface{})
		if err := contractABI.UnpackIntoMap(values, event.Name, lg.Data); err != nil {
			logger.Debug(ctx, "ArtistCreated data does not match ABI",
				zap.Uint("logIndex", lg.Index), zap.Error(err))
			continue
		}
		if err := abi.ParseTopicsIntoMap(values, indexed, lg.Topics[1:]); err != nil {
			logger.Debug(ctx, "ArtistCreated topics do not match ABI",
				zap.Uint("logIndex", lg.Index), zap.Error(err))
			continue
		}

		addr, ok := values[collectionAddressArg].(common.Address)
		if !ok {
			continue
		}
		return addr, true
	}
	return common.Address{}, false
}
