package catalog

import (
	"fmt"
	"strings"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Barcode      *string         `json:"barcode"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
}

type CreateProductRequest struct {
	Name       string          `json:"name"`
	CategoryID uint            `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Barcode    *string         `json:"barcode"`
}

type UpdateProductRequest struct {
	Name       string          `json:"name"`
	CategoryID uint            `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Barcode    *string         `json:"barcode"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Barcode:      p.Barcode,
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
	}
}

// Boş barkod hiç girilmemiş sayılır; unique index sadece dolu değerlere
// uygulansın diye nil'e çevrilir.
func normalizeBarcode(barcode *string) *string {
	if barcode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*barcode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// GET /api/products?search=...
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		search := strings.TrimSpace(c.Query("search"))

		dbq := database.DB.Preload("Category")
		if search != "" {
			dbq = dbq.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var product models.Product
		if err := database.DB.Preload("Category").First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		return c.JSON(toProductResponse(product))
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı zorunlu")
		}
		if body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category_id zorunlu")
		}
		if body.Price.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
		}

		var category models.Category
		if err := database.DB.First(&category, body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
		}

		barcode := normalizeBarcode(body.Barcode)
		if barcode != nil {
			var count int64
			database.DB.Model(&models.Product{}).
				Where("barcode = ?", *barcode).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Bu barkod zaten kayıtlı")
			}
		}

		product := models.Product{
			Name:       body.Name,
			CategoryID: category.ID,
			Price:      body.Price,
			Barcode:    barcode,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		writeCatalogLog(c, "product", product.ID, models.AuditActionCreate,
			fmt.Sprintf("Ürün eklendi: %s", product.Name), nil, product)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":     "success",
			"product_id": product.ID,
		})
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı zorunlu")
		}
		if body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category_id zorunlu")
		}
		if body.Price.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var category models.Category
		if err := database.DB.First(&category, body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
		}

		barcode := normalizeBarcode(body.Barcode)
		if barcode != nil {
			var count int64
			database.DB.Model(&models.Product{}).
				Where("barcode = ? AND id != ?", *barcode, product.ID).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Bu barkod zaten kayıtlı")
			}
		}

		before := product
		product.Name = body.Name
		product.CategoryID = category.ID
		product.Price = body.Price
		product.Barcode = barcode

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		writeCatalogLog(c, "product", product.ID, models.AuditActionUpdate,
			fmt.Sprintf("Ürün güncellendi: %s", product.Name), before, product)

		return c.JSON(fiber.Map{
			"status":     "success",
			"product_id": product.ID,
		})
	}
}

// DELETE /api/products/:id
// Partisi veya satış kaydı olan ürün silinemez; geçmiş kayıtlar ürün
// referansını korumak zorunda.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var batchCount int64
		database.DB.Model(&models.Batch{}).
			Where("product_id = ?", product.ID).
			Count(&batchCount)
		if batchCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu ürüne ait stok partileri var, ürün silinemez")
		}

		var itemCount int64
		database.DB.Model(&models.SaleItem{}).
			Where("product_id = ?", product.ID).
			Count(&itemCount)
		if itemCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu ürüne ait satış kayıtları var, ürün silinemez")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		writeCatalogLog(c, "product", product.ID, models.AuditActionDelete,
			fmt.Sprintf("Ürün silindi: %s", product.Name), product, nil)

		return c.JSON(fiber.Map{"status": "success"})
	}
}
