package models

import "time"

// Inventory: (ürün, parti) başına kalan stok. Sadece stok girişi artırır,
// satış azaltır. Miktar asla negatife düşmez; sıfırlanan partiler tarihçe
// olarak kalır.
type Inventory struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_inventories_product_batch"`
	Product   Product
	BatchID   uint `gorm:"not null;uniqueIndex:idx_inventories_product_batch"`
	Batch     Batch
	Quantity  int `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
