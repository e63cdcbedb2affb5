package stock

import (
	"errors"
	"fmt"
	"time"

	"pos-backend/internal/apperr"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"gorm.io/gorm"
)

type AddBatchInput struct {
	ProductID      uint
	Quantity       int
	ExpirationDate *time.Time
}

type AddBatchResult struct {
	BatchID uint
}

// AddBatch: Yeni bir stok partisi açar ve (ürün, parti) envanter satırını
// oluşturur. Parti kaydı ile envanter satırı tek transaction içinde yazılır.
func AddBatch(db *gorm.DB, in AddBatchInput) (*AddBatchResult, error) {
	if in.ProductID == 0 {
		return nil, fmt.Errorf("%w: product_id zorunlu", apperr.ErrValidation)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: miktar 0'dan büyük olmalı", apperr.ErrValidation)
	}

	var result AddBatchResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: ürün %d", apperr.ErrNotFound, in.ProductID)
			}
			return err
		}

		batch := models.Batch{
			ProductID:      product.ID,
			Quantity:       in.Quantity,
			InclusionDate:  time.Now(),
			ExpirationDate: in.ExpirationDate,
		}
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}

		if err := AddInventory(tx, product.ID, batch.ID, in.Quantity); err != nil {
			return err
		}

		result.BatchID = batch.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// AddInventory: (ürün, parti) envanter satırını artırır; satır yoksa açar.
// Çift satır oluşmaması bileşik unique index ile de garanti altında.
func AddInventory(tx *gorm.DB, productID, batchID uint, quantity int) error {
	var inv models.Inventory
	err := database.LockForUpdate(tx).
		Where("product_id = ? AND batch_id = ?", productID, batchID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			inv = models.Inventory{
				ProductID: productID,
				BatchID:   batchID,
				Quantity:  quantity,
			}
			return tx.Create(&inv).Error
		}
		return err
	}

	return tx.Model(&models.Inventory{}).Where("id = ?", inv.ID).
		Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
}

type BatchInventoryRow struct {
	BatchID        uint       `json:"batch_id"`
	InclusionDate  time.Time  `json:"inclusion_date"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Quantity       int        `json:"quantity"`
}

// RemainingInventory: Bir ürünün kalanı sıfırdan büyük partilerini FIFO
// sırasıyla döner.
func RemainingInventory(db *gorm.DB, productID uint) ([]BatchInventoryRow, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ürün %d", apperr.ErrNotFound, productID)
		}
		return nil, err
	}

	rows := make([]BatchInventoryRow, 0)
	err := db.Model(&models.Inventory{}).
		Select("inventories.batch_id, batches.inclusion_date, batches.expiration_date, inventories.quantity").
		Joins("JOIN batches ON batches.id = inventories.batch_id").
		Where("inventories.product_id = ? AND inventories.quantity > 0", productID).
		Order("batches.inclusion_date asc, batches.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

type ProductStockRow struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Total       int    `json:"total_quantity"`
}

// InventorySummary: Ürün başına toplam kalan stok (sıfırdan büyük olanlar).
func InventorySummary(db *gorm.DB) ([]ProductStockRow, error) {
	rows := make([]ProductStockRow, 0)
	err := db.Model(&models.Inventory{}).
		Select("inventories.product_id, products.name as product_name, SUM(inventories.quantity) as total").
		Joins("JOIN products ON products.id = inventories.product_id").
		Group("inventories.product_id, products.name").
		Having("SUM(inventories.quantity) > 0").
		Order("products.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
