package models

import "time"

// Batch: Tek bir stok giriş partisi. Quantity ilk giriş miktarıdır ve
// değişmez; kalan miktar Inventory tablosunda tutulur.
type Batch struct {
	ID             uint `gorm:"primaryKey"`
	ProductID      uint `gorm:"index;not null"`
	Product        Product
	Quantity       int        `gorm:"not null"`       // ilk giriş miktarı
	InclusionDate  time.Time  `gorm:"index;not null"` // FIFO sıralama anahtarı
	ExpirationDate *time.Time // son kullanma tarihi (opsiyonel)
	CreatedAt      time.Time
}
