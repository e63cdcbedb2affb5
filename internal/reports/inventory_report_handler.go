package reports

import (
	"sort"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LowStockRow struct {
	ProductName string `json:"product_name"`
	Total       int    `json:"total"`
}

type ExpiringRow struct {
	ProductName    string `json:"product_name"`
	ExpirationDate string `json:"expiration_date"`
	Quantity       int    `json:"quantity"`
}

// Toplamı bu eşiğin altına düşen ürünler "düşük stok" raporuna girer.
const lowStockThreshold = 10

const expiryWindowDays = 7

// GET /api/reports/inventory
// Düşük stoklu ürünler ve 7 gün içinde son kullanma tarihi dolacak partiler.
func InventoryReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var inventories []models.Inventory
		if err := database.DB.
			Preload("Product").
			Preload("Batch").
			Find(&inventories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter listelenemedi")
		}

		// Ürün bazında toplam stok
		totals := make(map[uint]*LowStockRow)
		for _, inv := range inventories {
			row, ok := totals[inv.ProductID]
			if !ok {
				row = &LowStockRow{ProductName: inv.Product.Name}
				totals[inv.ProductID] = row
			}
			row.Total += inv.Quantity
		}

		lowStock := make([]LowStockRow, 0)
		for _, row := range totals {
			if row.Total < lowStockThreshold {
				lowStock = append(lowStock, *row)
			}
		}
		sort.Slice(lowStock, func(i, j int) bool {
			if lowStock[i].Total != lowStock[j].Total {
				return lowStock[i].Total < lowStock[j].Total
			}
			return lowStock[i].ProductName < lowStock[j].ProductName
		})

		// Yaklaşan son kullanma tarihleri; gün sınırı yerel takvime göre
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		limit := today.AddDate(0, 0, expiryWindowDays)

		quantityByBatch := make(map[uint]int)
		for _, inv := range inventories {
			quantityByBatch[inv.BatchID] += inv.Quantity
		}

		var batches []models.Batch
		if err := database.DB.
			Preload("Product").
			Where("expiration_date IS NOT NULL AND expiration_date >= ? AND expiration_date <= ?", today, limit).
			Order("expiration_date asc, id asc").
			Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Partiler listelenemedi")
		}

		expiring := make([]ExpiringRow, 0, len(batches))
		for _, batch := range batches {
			expiring = append(expiring, ExpiringRow{
				ProductName:    batch.Product.Name,
				ExpirationDate: batch.ExpirationDate.Format("2006-01-02"),
				Quantity:       quantityByBatch[batch.ID],
			})
		}

		return c.JSON(fiber.Map{
			"low_stock":     lowStock,
			"expiring_soon": expiring,
		})
	}
}
