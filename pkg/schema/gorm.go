package schema

import (
	"gorm.io/gorm"
)

// Migrate runs GORM AutoMigrate to create or update collection tables.
func Migrate(db *gorm.DB, tables ...string) error {
	for _, table := range tables {
		if err := db.Table(table).AutoMigrate(&Video{}); err != nil {
			return err
		}
	}
	return nil
}
