package db

import (
	"fmt"
	"log"

	"github.com/medisetu/clinic-appointments/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.AvailabilityRule{},
		&models.DateOverride{},
		&models.Appointment{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// One active booking per (doctor, date, start). Cancelled rows vacate the
	// slot, so they are excluded; this index is the authoritative
	// double-booking defense, the guard's re-check only narrows the race.
	err = DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_active_booking_slot
		ON appointments (doctor_id, visit_date, start_time)
		WHERE status <> 'cancelled' AND deleted_at IS NULL
	`).Error
	if err != nil {
		log.Fatal("Failed to create booking slot index: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
