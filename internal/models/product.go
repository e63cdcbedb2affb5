package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null"`
	CategoryID uint   `gorm:"index;not null"`
	Category   Category
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Barcode    *string         `gorm:"size:100;uniqueIndex"` // opsiyonel, doluysa benzersiz
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
