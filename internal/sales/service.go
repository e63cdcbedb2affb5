package sales

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pos-backend/internal/apperr"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleLine struct {
	ProductID uint
	Quantity  int
}

type CreateSaleInput struct {
	Username        string
	PaymentMethodID uint
	Discount        decimal.Decimal
	Addition        decimal.Decimal
	Lines           []SaleLine
}

type CreateSaleResult struct {
	SaleID uint
	Total  decimal.Decimal
}

// CreateSale: Satışı tek transaction içinde oluşturur. Kullanıcı ve ödeme
// yöntemi çözülür, satış kaydı açılır, her kalem için o anki ürün fiyatı
// sabitlenip stok FIFO sırasıyla düşülür, en son toplam yazılır.
// Herhangi bir adım başarısız olursa hiçbir değişiklik kalıcı olmaz.
func CreateSale(db *gorm.DB, in CreateSaleInput) (*CreateSaleResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var result CreateSaleResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("username = ?", in.Username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: kullanıcı '%s'", apperr.ErrNotFound, in.Username)
			}
			return err
		}

		var method models.PaymentMethod
		if err := tx.First(&method, in.PaymentMethodID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: ödeme yöntemi %d", apperr.ErrNotFound, in.PaymentMethodID)
			}
			return err
		}

		// Toplam henüz belli değil, önce satış kaydı açılır
		sale := models.Sale{
			SaleDatetime:    time.Now(),
			Discount:        in.Discount,
			Addition:        in.Addition,
			TotalAmount:     decimal.Zero,
			PaymentMethodID: method.ID,
			UserID:          user.ID,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		subtotal := decimal.Zero
		for _, line := range in.Lines {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: ürün %d", apperr.ErrNotFound, line.ProductID)
				}
				return err
			}

			// Fiyat satış anında sabitlenir; sonraki katalog değişiklikleri
			// bu kalemi etkilemez
			unitPrice := product.Price
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

			item := models.SaleItem{
				SaleID:     sale.ID,
				ProductID:  product.ID,
				Units:      line.Quantity,
				UnitPrice:  unitPrice,
				TotalPrice: lineTotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			if err := depleteFIFO(tx, &product, line.Quantity); err != nil {
				return err
			}

			subtotal = subtotal.Add(lineTotal)
		}

		total := subtotal.Sub(sale.Discount).Add(sale.Addition)
		if err := tx.Model(&models.Sale{}).Where("id = ?", sale.ID).
			Update("total_amount", total).Error; err != nil {
			return err
		}

		result = CreateSaleResult{SaleID: sale.ID, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// depleteFIFO: İstenen miktarı en eski partiden başlayarak düşer. Partiler
// giriş tarihine göre sıralanır, eşit tarihte parti ID'si belirleyicidir.
// Bir partinin kalanı yetmezse sıfırlanır ve kalan miktar sonraki partiye
// taşınır. Tüm partiler bittiği halde miktar karşılanamadıysa satışın tamamı
// ErrInsufficientStock ile iptal edilir.
func depleteFIFO(tx *gorm.DB, product *models.Product, quantity int) error {
	var batches []models.Batch
	if err := tx.
		Where("product_id = ?", product.ID).
		Order("inclusion_date asc, id asc").
		Find(&batches).Error; err != nil {
		return err
	}

	remaining := quantity
	for _, batch := range batches {
		if remaining == 0 {
			break
		}

		var inv models.Inventory
		err := database.LockForUpdate(tx).
			Where("product_id = ? AND batch_id = ?", product.ID, batch.ID).
			First(&inv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// envanter satırı açılmamış parti, atla
				continue
			}
			return err
		}

		if inv.Quantity <= 0 {
			continue
		}

		if inv.Quantity >= remaining {
			inv.Quantity -= remaining
			remaining = 0
		} else {
			remaining -= inv.Quantity
			inv.Quantity = 0
		}

		if err := tx.Model(&models.Inventory{}).Where("id = ?", inv.ID).
			Update("quantity", inv.Quantity).Error; err != nil {
			return err
		}
	}

	if remaining > 0 {
		return fmt.Errorf("%w: %s için %d adet eksik", apperr.ErrInsufficientStock, product.Name, remaining)
	}

	return nil
}

func validateInput(in CreateSaleInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username zorunlu", apperr.ErrValidation)
	}
	if in.PaymentMethodID == 0 {
		return fmt.Errorf("%w: payment_method_id zorunlu", apperr.ErrValidation)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: items boş olamaz", apperr.ErrValidation)
	}
	if in.Discount.IsNegative() {
		return fmt.Errorf("%w: indirim negatif olamaz", apperr.ErrValidation)
	}
	if in.Addition.IsNegative() {
		return fmt.Errorf("%w: ilave negatif olamaz", apperr.ErrValidation)
	}
	for _, line := range in.Lines {
		if line.ProductID == 0 {
			return fmt.Errorf("%w: product_id zorunlu", apperr.ErrValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: miktar 0'dan büyük olmalı (ürün %d)", apperr.ErrValidation, line.ProductID)
		}
	}
	return nil
}
