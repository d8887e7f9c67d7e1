package models

import (
	"time"

	"gorm.io/gorm"
)

type SmartContract struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	Name            string  `gorm:"type:varchar(100);not null"`
	ChainID         string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_chain_contract"` // CAIP-2 format
	ContractAddress string  `gorm:"type:varchar(42);not null;uniqueIndex:idx_chain_contract"`
	ABI             *string `gorm:"type:jsonb"`
	IsActive        bool    `gorm:"default:true"`
	Description     *string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (SmartContract) TableName() string {
	return "smart_contracts"
}
