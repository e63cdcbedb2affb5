package reports

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"
	"pos-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/api/reports/sales", SalesReportHandler())
	app.Get("/api/reports/inventory", InventoryReportHandler())
	return app
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func seedProduct(t *testing.T, name, price string) models.Product {
	category := models.Category{Name: "Genel"}
	require.NoError(t, database.DB.FirstOrCreate(&category, models.Category{Name: "Genel"}).Error)

	product := models.Product{
		Name:       name,
		CategoryID: category.ID,
		Price:      decimal.RequireFromString(price),
	}
	require.NoError(t, database.DB.Create(&product).Error)
	return product
}

func seedBatch(t *testing.T, productID uint, quantity int, expiration *time.Time) models.Batch {
	batch := models.Batch{
		ProductID:      productID,
		Quantity:       quantity,
		InclusionDate:  time.Now().AddDate(0, 0, -1),
		ExpirationDate: expiration,
	}
	require.NoError(t, database.DB.Create(&batch).Error)
	inv := models.Inventory{ProductID: productID, BatchID: batch.ID, Quantity: quantity}
	require.NoError(t, database.DB.Create(&inv).Error)
	return batch
}

func TestSalesReportHandler(t *testing.T) {
	app := newTestApp(t)

	user := models.User{
		Name:         "Kasiyer",
		Username:     "kasiyer",
		Email:        "kasiyer@example.com",
		PasswordHash: "x",
		Active:       true,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	cash := models.PaymentMethod{Name: "Nakit"}
	require.NoError(t, database.DB.Create(&cash).Error)
	card := models.PaymentMethod{Name: "Kredi Kartı"}
	require.NoError(t, database.DB.Create(&card).Error)

	cola := seedProduct(t, "Kola", "4.50")
	water := seedProduct(t, "Su", "1.00")
	seedBatch(t, cola.ID, 100, nil)
	seedBatch(t, water.ID, 100, nil)

	// İki satış: 4x Kola nakit (18.00), 3x Su kartla (3.00)
	_, err := sales.CreateSale(database.DB, sales.CreateSaleInput{
		Username:        user.Username,
		PaymentMethodID: cash.ID,
		Lines:           []sales.SaleLine{{ProductID: cola.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	_, err = sales.CreateSale(database.DB, sales.CreateSaleInput{
		Username:        user.Username,
		PaymentMethodID: card.ID,
		Lines:           []sales.SaleLine{{ProductID: water.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	resp := get(t, app, "/api/reports/sales")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		SalesByDate    []SalesByDateRow   `json:"sales_by_date"`
		PaymentMethods []PaymentMethodRow `json:"payment_methods"`
		TopProducts    []TopProductRow    `json:"top_products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.SalesByDate, 1)
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, today, body.SalesByDate[0].Date)
	assert.Equal(t, 2, body.SalesByDate[0].Count)
	assert.True(t, body.SalesByDate[0].Total.Equal(decimal.RequireFromString("21.00")),
		"günlük toplam = %s", body.SalesByDate[0].Total)

	// Ödeme yöntemleri ciroya göre sıralı
	require.Len(t, body.PaymentMethods, 2)
	assert.Equal(t, "Nakit", body.PaymentMethods[0].Name)
	assert.True(t, body.PaymentMethods[0].Total.Equal(decimal.RequireFromString("18.00")))
	assert.Equal(t, "Kredi Kartı", body.PaymentMethods[1].Name)
	assert.True(t, body.PaymentMethods[1].Total.Equal(decimal.RequireFromString("3.00")))

	require.Len(t, body.TopProducts, 2)
	assert.Equal(t, "Kola", body.TopProducts[0].ProductName)
	assert.Equal(t, 4, body.TopProducts[0].TotalUnits)
	assert.True(t, body.TopProducts[0].TotalValue.Equal(decimal.RequireFromString("18.00")))
}

func TestSalesReportHandler_InvalidDates(t *testing.T) {
	app := newTestApp(t)

	resp := get(t, app, "/api/reports/sales?from=dun")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = get(t, app, "/api/reports/sales?to=01.02.2025")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInventoryReportHandler(t *testing.T) {
	app := newTestApp(t)

	low := seedProduct(t, "Zeytin", "12.00")
	high := seedProduct(t, "Makarna", "2.00")
	seedBatch(t, low.ID, 3, nil)
	seedBatch(t, high.ID, 50, nil)

	soon := time.Now().AddDate(0, 0, 3)
	far := time.Now().AddDate(0, 0, 30)
	expiringBatch := seedBatch(t, high.ID, 8, &soon)
	seedBatch(t, high.ID, 5, &far)

	resp := get(t, app, "/api/reports/inventory")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		LowStock     []LowStockRow `json:"low_stock"`
		ExpiringSoon []ExpiringRow `json:"expiring_soon"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	// Sadece eşiğin altındaki ürün listelenir (Makarna toplamı 63)
	require.Len(t, body.LowStock, 1)
	assert.Equal(t, "Zeytin", body.LowStock[0].ProductName)
	assert.Equal(t, 3, body.LowStock[0].Total)

	// Sadece 7 gün içinde dolacak parti listelenir
	require.Len(t, body.ExpiringSoon, 1)
	assert.Equal(t, "Makarna", body.ExpiringSoon[0].ProductName)
	assert.Equal(t, expiringBatch.ExpirationDate.Format("2006-01-02"), body.ExpiringSoon[0].ExpirationDate)
	assert.Equal(t, 8, body.ExpiringSoon[0].Quantity)
}

func TestInventoryReportHandler_ExpiresToday(t *testing.T) {
	app := newTestApp(t)

	product := seedProduct(t, "Süt", "15.00")

	// Bugün gece yarısı (yerel gün sınırı) dolan parti raporda görünmeli
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	seedBatch(t, product.ID, 6, &midnight)

	resp := get(t, app, "/api/reports/inventory")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		ExpiringSoon []ExpiringRow `json:"expiring_soon"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.ExpiringSoon, 1)
	assert.Equal(t, "Süt", body.ExpiringSoon[0].ProductName)
	assert.Equal(t, midnight.Format("2006-01-02"), body.ExpiringSoon[0].ExpirationDate)
	assert.Equal(t, 6, body.ExpiringSoon[0].Quantity)
}
