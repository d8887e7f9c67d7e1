package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// SmartContract is a registry entry for a deployed factory contract.
// Collections are deployed through it and its ABI decodes their receipts.
type SmartContract struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	ChainID         string      `json:"chainId"` // CAIP-2 format: namespace:chainId
	ContractAddress string      `json:"contractAddress"`
	ABI             null.JSON   `json:"abi"`
	IsActive        bool        `json:"isActive"`
	Description     null.String `json:"description,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// CreateSmartContractInput represents input for creating a smart contract record
type CreateSmartContractInput struct {
	Name            string      `json:"name" binding:"required,min=1,max=100"`
	ChainID         string      `json:"chainId" binding:"required"`
	ContractAddress string      `json:"contractAddress" binding:"required,eth_addr"`
	ABI             interface{} `json:"abi,omitempty"`
	Description     string      `json:"description,omitempty"`
}

// UpdateSmartContractInput represents input for updating a smart contract
type UpdateSmartContractInput struct {
	Name        string      `json:"name,omitempty"`
	ABI         interface{} `json:"abi,omitempty"`
	IsActive    *bool       `json:"isActive,omitempty"`
	Description *string     `json:"description,omitempty"`
}
