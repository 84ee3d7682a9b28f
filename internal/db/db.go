package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-booking/internal/config"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
	})
}

// Migrate creates the tables and the overlap guard on reservations. The
// exclusion constraint is what keeps two active reservations of a provider
// from sharing any minute of the same day.
func Migrate(db *gorm.DB, defaultTimezone string) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.ProviderProfile{},
		&models.TravelFeeTier{},
		&models.Blackout{},
		&models.ServiceOffering{},
		&models.RecurringSeries{},
		&models.Reservation{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap'
			) THEN
				ALTER TABLE reservations
				ADD CONSTRAINT reservations_no_overlap
				EXCLUDE USING gist (
					provider_id WITH =,
					date WITH =,
					int4range(start_minute, start_minute + duration_min, '[)') WITH &&
				) WHERE (status IN ('pending', 'confirmed'));
			END IF;
		END
		$$;
	`).Error; err != nil {
		return fmt.Errorf("reservation overlap constraint: %w", err)
	}

	return db.Exec(`
		UPDATE provider_profiles
		SET timezone = ?
		WHERE timezone IS NULL OR timezone = ''
	`, defaultTimezone).Error
}
