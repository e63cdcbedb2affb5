package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

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
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	app.Get("/api/products", ListProductsHandler())
	app.Post("/api/products", CreateProductHandler())
	app.Get("/api/products/:id", GetProductHandler())
	app.Put("/api/products/:id", UpdateProductHandler())
	app.Delete("/api/products/:id", DeleteProductHandler())

	app.Get("/api/categories", ListCategoriesHandler())
	app.Post("/api/categories", CreateCategoryHandler())
	app.Delete("/api/categories/:id", DeleteCategoryHandler())

	app.Get("/api/payment-methods", ListPaymentMethodsHandler())
	app.Post("/api/payment-methods", CreatePaymentMethodHandler())
	app.Delete("/api/payment-methods/:id", DeletePaymentMethodHandler())

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestProductHandlers(t *testing.T) {
	app := newTestApp(t)

	category := models.Category{Name: "İçecek"}
	require.NoError(t, database.DB.Create(&category).Error)

	barcode := "8690000000001"

	t.Run("ürün oluşturma", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/products", CreateProductRequest{
			Name:       "Kola",
			CategoryID: category.ID,
			Price:      decimal.RequireFromString("4.50"),
			Barcode:    &barcode,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var product models.Product
		require.NoError(t, database.DB.Where("name = ?", "Kola").First(&product).Error)
		require.NotNil(t, product.Barcode)
		assert.Equal(t, barcode, *product.Barcode)
	})

	t.Run("aynı barkod 409 döner", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/products", CreateProductRequest{
			Name:       "Kola Zero",
			CategoryID: category.ID,
			Price:      decimal.RequireFromString("4.50"),
			Barcode:    &barcode,
		})
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("boş barkod çakışma sayılmaz", func(t *testing.T) {
		empty := "  "
		for _, name := range []string{"Su", "Soda"} {
			resp := doJSON(t, app, http.MethodPost, "/api/products", CreateProductRequest{
				Name:       name,
				CategoryID: category.ID,
				Price:      decimal.RequireFromString("1.00"),
				Barcode:    &empty,
			})
			require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		}
	})

	t.Run("isimle arama", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/products?search=kol", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var rows []ProductResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Kola", rows[0].Name)
	})

	t.Run("partisi olan ürün silinemez", func(t *testing.T) {
		var product models.Product
		require.NoError(t, database.DB.Where("name = ?", "Kola").First(&product).Error)

		batch := models.Batch{ProductID: product.ID, Quantity: 5, InclusionDate: time.Now()}
		require.NoError(t, database.DB.Create(&batch).Error)

		resp := doJSON(t, app, http.MethodDelete, "/api/products/"+itoa(product.ID), nil)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

		var count int64
		database.DB.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("referanssız ürün silinir", func(t *testing.T) {
		var product models.Product
		require.NoError(t, database.DB.Where("name = ?", "Su").First(&product).Error)

		resp := doJSON(t, app, http.MethodDelete, "/api/products/"+itoa(product.ID), nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var count int64
		database.DB.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestCategoryDeleteConflict(t *testing.T) {
	app := newTestApp(t)

	category := models.Category{Name: "Atıştırmalık"}
	require.NoError(t, database.DB.Create(&category).Error)
	product := models.Product{
		Name:       "Cips",
		CategoryID: category.ID,
		Price:      decimal.RequireFromString("3.00"),
	}
	require.NoError(t, database.DB.Create(&product).Error)

	resp := doJSON(t, app, http.MethodDelete, "/api/categories/"+itoa(category.ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Ürün silinince kategori de silinebilir
	require.NoError(t, database.DB.Delete(&product).Error)
	resp = doJSON(t, app, http.MethodDelete, "/api/categories/"+itoa(category.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPaymentMethodDeleteConflict(t *testing.T) {
	app := newTestApp(t)

	method := models.PaymentMethod{Name: "Kredi Kartı"}
	require.NoError(t, database.DB.Create(&method).Error)

	user := models.User{
		Name:         "Kasiyer",
		Username:     "kasiyer",
		Email:        "kasiyer@example.com",
		PasswordHash: "x",
		Active:       true,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	sale := models.Sale{
		SaleDatetime:    time.Now(),
		Discount:        decimal.Zero,
		Addition:        decimal.Zero,
		TotalAmount:     decimal.RequireFromString("10.00"),
		PaymentMethodID: method.ID,
		UserID:          user.ID,
	}
	require.NoError(t, database.DB.Create(&sale).Error)

	resp := doJSON(t, app, http.MethodDelete, "/api/payment-methods/"+itoa(method.ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
