package models

import "time"

type Artist struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
}

func (Artist) TableName() string {
	return "artists"
}
