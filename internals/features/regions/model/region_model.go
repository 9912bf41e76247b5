// file: internals/features/regions/model/region_model.go
package model

/* ===========================
   Wilayah administratif (read-only, diisi seed)
   =========================== */

type ProvinceModel struct {
	ProvinceID   string `gorm:"column:province_id;primaryKey;type:varchar(2)"`
	ProvinceName string `gorm:"column:province_name;type:varchar(100);not null"`
}

func (ProvinceModel) TableName() string { return "provinces" }

type RegencyModel struct {
	RegencyID         string `gorm:"column:regency_id;primaryKey;type:varchar(5)"`
	RegencyProvinceID string `gorm:"column:regency_province_id;type:varchar(2);not null;index"`
	RegencyName       string `gorm:"column:regency_name;type:varchar(100);not null"`
}

func (RegencyModel) TableName() string { return "regencies" }

type DistrictModel struct {
	DistrictID        string `gorm:"column:district_id;primaryKey;type:varchar(8)"`
	DistrictRegencyID string `gorm:"column:district_regency_id;type:varchar(5);not null;index"`
	DistrictName      string `gorm:"column:district_name;type:varchar(100);not null"`
}

func (DistrictModel) TableName() string { return "districts" }

type VillageModel struct {
	VillageID         string `gorm:"column:village_id;primaryKey;type:varchar(13)"`
	VillageDistrictID string `gorm:"column:village_district_id;type:varchar(8);not null;index"`
	VillageName       string `gorm:"column:village_name;type:varchar(100);not null"`
	VillagePostalCode string `gorm:"column:village_postal_code;type:varchar(5)"`
}

func (VillageModel) TableName() string { return "villages" }

// All untuk AutoMigrate.
func All() []any {
	return []any{&ProvinceModel{}, &RegencyModel{}, &DistrictModel{}, &VillageModel{}}
}
