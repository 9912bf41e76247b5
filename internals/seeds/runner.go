package seeds

import (
	"eduarchive_backend/internals/features/regions/data"
	regions "eduarchive_backend/internals/seeds/regions"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func RunAllSeeds(db *gorm.DB, log *zap.Logger) error {
	//* Wilayah
	tree, err := data.Embedded()
	if err != nil {
		return err
	}
	return regions.SeedRegions(db, tree, log)
}
