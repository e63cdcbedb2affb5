package catalog

import (
	"fmt"
	"strings"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PaymentMethodResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreatePaymentMethodRequest struct {
	Name string `json:"name"`
}

type UpdatePaymentMethodRequest struct {
	Name string `json:"name"`
}

// GET /api/payment-methods
func ListPaymentMethodsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var methods []models.PaymentMethod
		if err := database.DB.Order("name asc").Find(&methods).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme yöntemleri listelenemedi")
		}

		resp := make([]PaymentMethodResponse, 0, len(methods))
		for _, m := range methods {
			resp = append(resp, PaymentMethodResponse{ID: m.ID, Name: m.Name})
		}
		return c.JSON(resp)
	}
}

// GET /api/payment-methods/:id
func GetPaymentMethodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme yöntemi ID")
		}

		var method models.PaymentMethod
		if err := database.DB.First(&method, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ödeme yöntemi bulunamadı")
		}

		return c.JSON(PaymentMethodResponse{ID: method.ID, Name: method.Name})
	}
}

// POST /api/payment-methods
func CreatePaymentMethodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentMethodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ödeme yöntemi adı zorunlu")
		}

		method := models.PaymentMethod{Name: body.Name}
		if err := database.DB.Create(&method).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme yöntemi oluşturulamadı")
		}

		writeCatalogLog(c, "payment_method", method.ID, models.AuditActionCreate,
			fmt.Sprintf("Ödeme yöntemi eklendi: %s", method.Name), nil, method)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":    "success",
			"method_id": method.ID,
		})
	}
}

// PUT /api/payment-methods/:id
func UpdatePaymentMethodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme yöntemi ID")
		}

		var body UpdatePaymentMethodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ödeme yöntemi adı zorunlu")
		}

		var method models.PaymentMethod
		if err := database.DB.First(&method, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ödeme yöntemi bulunamadı")
		}

		before := method
		method.Name = body.Name
		if err := database.DB.Save(&method).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme yöntemi güncellenemedi")
		}

		writeCatalogLog(c, "payment_method", method.ID, models.AuditActionUpdate,
			fmt.Sprintf("Ödeme yöntemi güncellendi: %s", method.Name), before, method)

		return c.JSON(fiber.Map{
			"status":    "success",
			"method_id": method.ID,
		})
	}
}

// DELETE /api/payment-methods/:id
// Bu yöntemle yapılmış satış varsa silme reddedilir.
func DeletePaymentMethodHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme yöntemi ID")
		}

		var method models.PaymentMethod
		if err := database.DB.First(&method, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ödeme yöntemi bulunamadı")
		}

		var saleCount int64
		database.DB.Model(&models.Sale{}).
			Where("payment_method_id = ?", method.ID).
			Count(&saleCount)
		if saleCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu ödeme yöntemiyle yapılmış satışlar var, yöntem silinemez")
		}

		if err := database.DB.Delete(&method).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme yöntemi silinemedi")
		}

		writeCatalogLog(c, "payment_method", method.ID, models.AuditActionDelete,
			fmt.Sprintf("Ödeme yöntemi silindi: %s", method.Name), method, nil)

		return c.JSON(fiber.Map{"status": "success"})
	}
}
