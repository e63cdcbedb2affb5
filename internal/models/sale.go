package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale: Tamamlanmış bir satış. Kalemleriyle birlikte tek transaction içinde
// oluşturulur; TotalAmount = kalem toplamı - indirim + ilave.
type Sale struct {
	ID              uint            `gorm:"primaryKey"`
	SaleDatetime    time.Time       `gorm:"index;not null"`
	Discount        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Addition        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethodID uint            `gorm:"index;not null"`
	PaymentMethod   PaymentMethod
	UserID          uint `gorm:"index;not null"`
	User            User
	Items           []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SaleItem: Satışın bir kalemi. UnitPrice satış anındaki fiyattır, sonradan
// yapılan katalog fiyat değişiklikleri bu kaydı etkilemez.
type SaleItem struct {
	ID         uint `gorm:"primaryKey"`
	SaleID     uint `gorm:"index;not null"`
	ProductID  uint `gorm:"index;not null"`
	Product    Product
	Units      int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time
}
