package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// CollectionStatus represents the on-chain deployment status of a collection
type CollectionStatus string

const (
	CollectionStatusPending   CollectionStatus = "pending"
	CollectionStatusConfirmed CollectionStatus = "confirmed"
	CollectionStatusFailed    CollectionStatus = "failed"
)

// IsValid reports whether s is a known status
func (s CollectionStatus) IsValid() bool {
	switch s {
	case CollectionStatusPending, CollectionStatusConfirmed, CollectionStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further synchronisation applies
func (s CollectionStatus) IsTerminal() bool {
	return s == CollectionStatusConfirmed || s == CollectionStatusFailed
}

// CanTransitionTo reports whether s may move to next.
// Status only moves forward: pending -> confirmed | failed.
func (s CollectionStatus) CanTransitionTo(next CollectionStatus) bool {
	if s == next {
		return true
	}
	return s == CollectionStatusPending && next.IsTerminal()
}

// Collection represents a deployable NFT contract grouping owned by one artist
type Collection struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Symbol          string           `json:"symbol"`
	ContractAddress null.String      `json:"contractAddress"`
	Status          CollectionStatus `json:"status"`
	TransactionHash null.String      `json:"transactionHash"`
	ArtistID        int64            `json:"artistId"`
	SmartContractID int64            `json:"smartContractId"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// IsSyncable reports whether the collection awaits a transaction outcome
func (c *Collection) IsSyncable() bool {
	return c.Status == CollectionStatusPending && c.TransactionHash.Valid && c.TransactionHash.String != ""
}

// CreateCollectionInput represents input for creating a collection
type CreateCollectionInput struct {
	Name            string `json:"name" binding:"required,min=1,max=100"`
	Symbol          string `json:"symbol" binding:"required,min=1,max=20"`
	ArtistID        int64  `json:"artistId" binding:"required,gt=0"`
	SmartContractID int64  `json:"smartContractId" binding:"required,gt=0"`
	TransactionHash string `json:"transactionHash,omitempty" binding:"omitempty,startswith=0x,len=66,hexadecimal"`
}

// UpdateCollectionInput represents a partial update of a collection
type UpdateCollectionInput struct {
	Name            *string           `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Symbol          *string           `json:"symbol,omitempty" binding:"omitempty,min=1,max=20"`
	TransactionHash *string           `json:"transactionHash,omitempty" binding:"omitempty,startswith=0x,len=66,hexadecimal"`
	ContractAddress *string           `json:"contractAddress,omitempty" binding:"omitempty,eth_addr"`
	Status          *CollectionStatus `json:"status,omitempty"`
}

// SyncCollectionResult is the outcome of reconciling a collection with its
// deployment transaction. Failures are reported here rather than returned.
type SyncCollectionResult struct {
	CollectionID    int64  `json:"collectionId"`
	Success         bool   `json:"success"`
	Updated         bool   `json:"updated"`
	ContractAddress string `json:"contractAddress,omitempty"`
	Message         string `json:"message"`
	Code            string `json:"code,omitempty"`
}
