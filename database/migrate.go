package database

import (
	"fmt"

	"github.com/leadmap/leadmap/config"
	"github.com/leadmap/leadmap/database/model"

	"gorm.io/gorm"
)

// migration is one schema step. Steps run in order, each inside its own
// transaction, and are recorded in schema_migrations so they run at most once.
type migration struct {
	id      string
	migrate func(tx *gorm.DB) error
}

var migrations = []migration{
	{id: "0001_create_users", migrate: createTable(&model.User{})},
	{id: "0002_create_locations", migrate: createTable(&model.Location{})},
	{id: "0003_create_lead_data", migrate: createTable(&model.LeadData{})},
	{id: "0004_create_reservations", migrate: createTable(&model.Reservation{})},
}

func createTable(m any) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		if tx.Migrator().HasTable(m) {
			return nil
		}
		if opts := tableOptions(tx.Dialector.Name()); opts != "" {
			tx = tx.Set("gorm:table_options", opts)
		}
		return tx.Migrator().CreateTable(m)
	}
}

// tableOptions returns the CREATE TABLE suffix for dialect. MySQL tables
// use a binary collation so usernames and area names compare exactly.
func tableOptions(dialect string) string {
	if dialect == "mysql" {
		return "DEFAULT CHARSET=utf8mb4 COLLATE=" + config.MySQLCollation
	}
	return ""
}

// Migrate applies every pending migration and returns how many ran.
func Migrate(conn *gorm.DB) (int, error) {
	if err := conn.Migrator().AutoMigrate(&model.Migration{}); err != nil {
		return 0, err
	}

	var done []model.Migration
	if err := conn.Find(&done).Error; err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(done))
	for _, m := range done {
		seen[m.Id] = true
	}

	applied := 0
	for _, m := range migrations {
		if seen[m.id] {
			continue
		}
		err := conn.Transaction(func(tx *gorm.DB) error {
			if err := m.migrate(tx); err != nil {
				return err
			}
			return tx.Create(&model.Migration{Id: m.id}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("migration %s: %w", m.id, err)
		}
		applied++
	}
	return applied, nil
}

// AppliedMigrations lists the recorded migration ids in application order.
func AppliedMigrations() ([]string, error) {
	var done []model.Migration
	if err := db.Order("id ASC").Find(&done).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(done))
	for _, m := range done {
		ids = append(ids, m.Id)
	}
	return ids, nil
}
