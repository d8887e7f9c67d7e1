package models

import (
	"time"
)

type Collection struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	Name            string  `gorm:"type:varchar(100);not null"`
	Symbol          string  `gorm:"type:varchar(20);not null;uniqueIndex:idx_collection_symbol_contract"`
	ContractAddress *string `gorm:"type:varchar(42)"`
	Status          string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	TransactionHash *string `gorm:"type:varchar(66)"`
	ArtistID        int64   `gorm:"not null;index"`
	SmartContractID int64   `gorm:"not null;uniqueIndex:idx_collection_symbol_contract"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Artist        *Artist        `gorm:"foreignKey:ArtistID;constraint:OnDelete:RESTRICT"`
	SmartContract *SmartContract `gorm:"foreignKey:SmartContractID;constraint:OnDelete:RESTRICT"`
}

func (Collection) TableName() string {
	return "collections"
}
