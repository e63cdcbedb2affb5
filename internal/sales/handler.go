package sales

import (
	"fmt"

	"pos-backend/internal/apperr"
	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateSaleItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateSaleRequest struct {
	Username        string                  `json:"username"`
	PaymentMethodID uint                    `json:"payment_method_id"`
	Discount        decimal.Decimal         `json:"discount"`
	Addition        decimal.Decimal         `json:"addition"`
	Items           []CreateSaleItemRequest `json:"items"`
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		in := CreateSaleInput{
			Username:        body.Username,
			PaymentMethodID: body.PaymentMethodID,
			Discount:        body.Discount,
			Addition:        body.Addition,
		}
		for _, item := range body.Items {
			in.Lines = append(in.Lines, SaleLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		result, err := CreateSale(database.DB, in)
		if err != nil {
			return apperr.ToFiber(err)
		}

		// Audit log
		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			userName, _ := c.Locals(auth.CtxUsernameKey).(string)
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    result.SaleID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Satış #%d, toplam %s", result.SaleID, result.Total.StringFixed(2)),
				After:       result,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  "success",
			"sale_id": result.SaleID,
			"total":   result.Total,
		})
	}
}
