package stock

import (
	"fmt"
	"time"

	"pos-backend/internal/apperr"
	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AddBatchRequest struct {
	ProductID      uint   `json:"product_id"`
	Quantity       int    `json:"quantity"`
	ExpirationDate string `json:"expiration_date"` // "2006-01-02", opsiyonel
}

type BatchInventoryResponse struct {
	BatchID        uint   `json:"batch_id"`
	InclusionDate  string `json:"inclusion_date"`
	ExpirationDate string `json:"expiration_date,omitempty"`
	Quantity       int    `json:"quantity"`
}

// POST /api/batches
func AddBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		in := AddBatchInput{
			ProductID: body.ProductID,
			Quantity:  body.Quantity,
		}
		if body.ExpirationDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpirationDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			in.ExpirationDate = &d
		}

		result, err := AddBatch(database.DB, in)
		if err != nil {
			return apperr.ToFiber(err)
		}

		// Audit log
		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			userName, _ := c.Locals(auth.CtxUsernameKey).(string)
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "batch",
				EntityID:    result.BatchID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stok girişi: ürün %d, %d adet", body.ProductID, body.Quantity),
				After:       body,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":   "success",
			"batch_id": result.BatchID,
		})
	}
}

// GET /api/inventory?product_id=...
// product_id verilirse parti bazında kalan stok, verilmezse ürün bazında
// toplam döner.
func GetInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pidStr := c.Query("product_id")
		if pidStr == "" {
			rows, err := InventorySummary(database.DB)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stok özeti listelenemedi")
			}
			return c.JSON(rows)
		}

		pid := c.QueryInt("product_id")
		if pid <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id geçersiz")
		}

		rows, err := RemainingInventory(database.DB, uint(pid))
		if err != nil {
			return apperr.ToFiber(err)
		}

		resp := make([]BatchInventoryResponse, 0, len(rows))
		for _, r := range rows {
			item := BatchInventoryResponse{
				BatchID:       r.BatchID,
				InclusionDate: r.InclusionDate.Format("2006-01-02"),
				Quantity:      r.Quantity,
			}
			if r.ExpirationDate != nil {
				item.ExpirationDate = r.ExpirationDate.Format("2006-01-02")
			}
			resp = append(resp, item)
		}
		return c.JSON(resp)
	}
}
