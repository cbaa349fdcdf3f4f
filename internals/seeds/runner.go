package seeds

import (
	"gorm.io/gorm"

	"tutorlink_backend/internals/seeds/catalog"
	"tutorlink_backend/internals/seeds/users"
)

// RunAllSeeds loads the reference catalog and bootstrap accounts. Safe to run
// repeatedly; every seeder skips rows that already exist.
func RunAllSeeds(db *gorm.DB) {
	catalog.SeedCatalogFromJSON(db, "internals/seeds/catalog/data_catalog.json")
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
}
