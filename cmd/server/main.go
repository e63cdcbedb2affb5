package main

import (
	"log"
	"strings"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/catalog"
	"pos-backend/internal/config"
	"pos-backend/internal/database"
	"pos-backend/internal/reports"
	"pos-backend/internal/sales"
	"pos-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Satış (PDV)
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Post("/sales", sales.CreateSaleHandler())

	// Stok
	protected.Post("/batches", stock.AddBatchHandler())
	protected.Get("/inventory", stock.GetInventoryHandler())

	// Raporlar
	protected.Get("/reports/sales", reports.SalesReportHandler())
	protected.Get("/reports/inventory", reports.InventoryReportHandler())

	// Yardımcı veriler
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Get("/payment-methods", catalog.ListPaymentMethodsHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Admin routes
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireAdmin())

	// Kullanıcı yönetimi
	adminRoutes.Post("/auth/users", auth.CreateUserHandler())
	adminRoutes.Get("/auth/users", auth.ListUsersHandler())

	// Ürün yönetimi
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Get("/products/:id", catalog.GetProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	// Kategori yönetimi
	adminRoutes.Post("/categories", catalog.CreateCategoryHandler())
	adminRoutes.Get("/categories/:id", catalog.GetCategoryHandler())
	adminRoutes.Put("/categories/:id", catalog.UpdateCategoryHandler())
	adminRoutes.Delete("/categories/:id", catalog.DeleteCategoryHandler())

	// Ödeme yöntemi yönetimi
	adminRoutes.Post("/payment-methods", catalog.CreatePaymentMethodHandler())
	adminRoutes.Get("/payment-methods/:id", catalog.GetPaymentMethodHandler())
	adminRoutes.Put("/payment-methods/:id", catalog.UpdatePaymentMethodHandler())
	adminRoutes.Delete("/payment-methods/:id", catalog.DeletePaymentMethodHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
