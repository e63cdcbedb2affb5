package sales

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	database.DB = setupTestDB(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})
	app.Post("/api/sales", CreateSaleHandler())
	return app
}

func postSale(t *testing.T, app *fiber.App, body CreateSaleRequest) *http.Response {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "/api/sales", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateSaleHandler(t *testing.T) {
	app := newTestApp(t)
	user, method, product := seedBase(t, database.DB)
	seedBatch(t, database.DB, product.ID, 10, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))

	t.Run("başarılı satış 201 döner", func(t *testing.T) {
		resp := postSale(t, app, CreateSaleRequest{
			Username:        user.Username,
			PaymentMethodID: method.ID,
			Items:           []CreateSaleItemRequest{{ProductID: product.ID, Quantity: 2}},
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var body struct {
			Status string          `json:"status"`
			SaleID uint            `json:"sale_id"`
			Total  decimal.Decimal `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "success", body.Status)
		assert.NotZero(t, body.SaleID)
		assert.True(t, body.Total.Equal(decimal.RequireFromString("9.00")),
			"total = %s", body.Total)
	})

	t.Run("boş items 400 döner", func(t *testing.T) {
		resp := postSale(t, app, CreateSaleRequest{
			Username:        user.Username,
			PaymentMethodID: method.ID,
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bilinmeyen ürün 404 döner", func(t *testing.T) {
		resp := postSale(t, app, CreateSaleRequest{
			Username:        user.Username,
			PaymentMethodID: method.ID,
			Items:           []CreateSaleItemRequest{{ProductID: 9999, Quantity: 1}},
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("yetersiz stok 422 döner", func(t *testing.T) {
		resp := postSale(t, app, CreateSaleRequest{
			Username:        user.Username,
			PaymentMethodID: method.ID,
			Items:           []CreateSaleItemRequest{{ProductID: product.ID, Quantity: 500}},
		})
		require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body.Error, "yetersiz stok")

		// Başarısız satış stok düşmemeli (ilk testte 2 adet düşmüştü)
		var inv models.Inventory
		require.NoError(t, database.DB.Where("product_id = ?", product.ID).First(&inv).Error)
		assert.Equal(t, 8, inv.Quantity)
	})
}
