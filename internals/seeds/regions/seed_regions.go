// file: internals/seeds/regions/seed_regions.go
package regions

import (
	"eduarchive_backend/internals/features/regions/data"
	"eduarchive_backend/internals/features/regions/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedRegions mengisi tabel wilayah dari pohon JSON; baris yang sudah ada dilewati.
func SeedRegions(db *gorm.DB, tree *data.Tree, log *zap.Logger) error {
	var (
		provinces []model.ProvinceModel
		regencies []model.RegencyModel
		districts []model.DistrictModel
		villages  []model.VillageModel
	)
	for _, p := range tree.Provinces {
		provinces = append(provinces, model.ProvinceModel{ProvinceID: p.ID, ProvinceName: p.Name})
		for _, r := range p.Regencies {
			regencies = append(regencies, model.RegencyModel{RegencyID: r.ID, RegencyProvinceID: p.ID, RegencyName: r.Name})
			for _, d := range r.Districts {
				districts = append(districts, model.DistrictModel{DistrictID: d.ID, DistrictRegencyID: r.ID, DistrictName: d.Name})
				for _, v := range d.Villages {
					villages = append(villages, model.VillageModel{
						VillageID:         v.ID,
						VillageDistrictID: d.ID,
						VillageName:       v.Name,
						VillagePostalCode: v.PostalCode,
					})
				}
			}
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, batch := range []struct {
			name string
			rows any
			n    int
		}{
			{"provinces", &provinces, len(provinces)},
			{"regencies", &regencies, len(regencies)},
			{"districts", &districts, len(districts)},
			{"villages", &villages, len(villages)},
		} {
			if batch.n == 0 {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(batch.rows, 500).Error; err != nil {
				log.Error("❌ Gagal seed wilayah", zap.String("table", batch.name), zap.Error(err))
				return err
			}
			log.Info("✅ Seed wilayah", zap.String("table", batch.name), zap.Int("rows", batch.n))
		}
		return nil
	})
}
