package database

import (
	"log"

	"pos-backend/internal/config"
	"pos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: Şemayı oluşturur/günceller. Testler aynı şemayı sqlite üzerinde
// kurduğu için ayrı bir fonksiyon.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Batch{},
		&models.Inventory{},
		&models.PaymentMethod{},
		&models.Sale{},
		&models.SaleItem{},
		&models.AuditLog{},
	)
}

// LockForUpdate: SELECT ... FOR UPDATE. Aynı envanter satırına aynı anda
// inen iki satışın kayıp güncelleme (lost update) yaşamaması için satır
// kilidi alınır. SQLite satır kilidi desteklemez (testler), orada atlanır.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
