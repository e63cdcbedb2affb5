package reports

import (
	"sort"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SalesByDateRow struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type PaymentMethodRow struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type TopProductRow struct {
	ProductName string          `json:"product_name"`
	TotalUnits  int             `json:"total_units"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// GET /api/reports/sales?from=2006-01-02&to=2006-01-02
// Varsayılan aralık: son 30 gün. Günlük satış toplamları, ödeme yöntemi
// kırılımı ve ciroya göre ilk 10 ürün.
func SalesReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		fromStr := c.Query("from", now.AddDate(0, 0, -30).Format("2006-01-02"))
		toStr := c.Query("to", now.Format("2006-01-02"))

		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from formatı 'YYYY-MM-DD' olmalı")
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to formatı 'YYYY-MM-DD' olmalı")
		}
		end := to.AddDate(0, 0, 1) // to günü dahil

		var sales []models.Sale
		if err := database.DB.
			Preload("PaymentMethod").
			Where("sale_datetime >= ? AND sale_datetime < ?", from, end).
			Order("sale_datetime asc").
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		// Günlük kırılım
		byDate := make(map[string]*SalesByDateRow)
		dateOrder := make([]string, 0)
		byMethod := make(map[string]*PaymentMethodRow)
		for _, sale := range sales {
			day := sale.SaleDatetime.Format("2006-01-02")
			row, ok := byDate[day]
			if !ok {
				row = &SalesByDateRow{Date: day, Total: decimal.Zero}
				byDate[day] = row
				dateOrder = append(dateOrder, day)
			}
			row.Total = row.Total.Add(sale.TotalAmount)
			row.Count++

			mRow, ok := byMethod[sale.PaymentMethod.Name]
			if !ok {
				mRow = &PaymentMethodRow{Name: sale.PaymentMethod.Name, Total: decimal.Zero}
				byMethod[sale.PaymentMethod.Name] = mRow
			}
			mRow.Total = mRow.Total.Add(sale.TotalAmount)
			mRow.Count++
		}

		salesByDate := make([]SalesByDateRow, 0, len(dateOrder))
		for _, day := range dateOrder {
			salesByDate = append(salesByDate, *byDate[day])
		}

		paymentMethods := make([]PaymentMethodRow, 0, len(byMethod))
		for _, row := range byMethod {
			paymentMethods = append(paymentMethods, *row)
		}
		sort.Slice(paymentMethods, func(i, j int) bool {
			return paymentMethods[i].Total.GreaterThan(paymentMethods[j].Total)
		})

		// Ciroya göre ilk 10 ürün
		var items []models.SaleItem
		if err := database.DB.
			Preload("Product").
			Joins("JOIN sales ON sales.id = sale_items.sale_id").
			Where("sales.sale_datetime >= ? AND sales.sale_datetime < ?", from, end).
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kalemleri listelenemedi")
		}

		byProduct := make(map[string]*TopProductRow)
		for _, item := range items {
			row, ok := byProduct[item.Product.Name]
			if !ok {
				row = &TopProductRow{ProductName: item.Product.Name, TotalValue: decimal.Zero}
				byProduct[item.Product.Name] = row
			}
			row.TotalUnits += item.Units
			row.TotalValue = row.TotalValue.Add(item.TotalPrice)
		}

		topProducts := make([]TopProductRow, 0, len(byProduct))
		for _, row := range byProduct {
			topProducts = append(topProducts, *row)
		}
		sort.Slice(topProducts, func(i, j int) bool {
			return topProducts[i].TotalValue.GreaterThan(topProducts[j].TotalValue)
		})
		if len(topProducts) > 10 {
			topProducts = topProducts[:10]
		}

		return c.JSON(fiber.Map{
			"period":          fiber.Map{"from": fromStr, "to": toStr},
			"sales_by_date":   salesByDate,
			"payment_methods": paymentMethods,
			"top_products":    topProducts,
		})
	}
}
