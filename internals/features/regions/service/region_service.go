// file: internals/features/regions/service/region_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"eduarchive_backend/internals/features/regions/data"
	"eduarchive_backend/internals/features/regions/model"

	"gorm.io/gorm"
)

var ErrRegionNotFound = errors.New("wilayah tidak ditemukan")

type Region struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"parentId,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Lookup sumber data wilayah (read-only).
type Lookup interface {
	ListProvinces(ctx context.Context) ([]Region, error)
	ListRegencies(ctx context.Context, provinceID string) ([]Region, error)
	ListDistricts(ctx context.Context, regencyID string) ([]Region, error)
	ListVillages(ctx context.Context, districtID string) ([]Region, error)
	ValidChain(provinsiID, kabupatenID, kecamatanID, desaID string) bool
}

/* =========================================================
   Static (dari JSON tertanam), dipakai tanpa DB
========================================================= */

type StaticLookup struct {
	provinces []Region
	children  map[string][]Region // parentID → anak
	parent    map[string]string   // id → parentID
}

func NewStaticLookup(t *data.Tree) *StaticLookup {
	s := &StaticLookup{children: map[string][]Region{}, parent: map[string]string{}}
	add := func(r Region) {
		s.children[r.ParentID] = append(s.children[r.ParentID], r)
		s.parent[r.ID] = r.ParentID
	}
	for _, p := range t.Provinces {
		s.provinces = append(s.provinces, Region{ID: p.ID, Name: p.Name})
		s.parent[p.ID] = ""
		for _, r := range p.Regencies {
			add(Region{ID: r.ID, Name: r.Name, ParentID: p.ID})
			for _, d := range r.Districts {
				add(Region{ID: d.ID, Name: d.Name, ParentID: r.ID})
				for _, v := range d.Villages {
					add(Region{ID: v.ID, Name: v.Name, ParentID: d.ID, PostalCode: v.PostalCode})
				}
			}
		}
	}
	sortByName(s.provinces)
	for k := range s.children {
		sortByName(s.children[k])
	}
	return s
}

func sortByName(xs []Region) {
	sort.SliceStable(xs, func(i, j int) bool { return xs[i].Name < xs[j].Name })
}

func (s *StaticLookup) ListProvinces(ctx context.Context) ([]Region, error) {
	return append([]Region(nil), s.provinces...), nil
}

func (s *StaticLookup) list(parentID string) ([]Region, error) {
	if _, ok := s.parent[parentID]; !ok {
		return nil, ErrRegionNotFound
	}
	return append([]Region{}, s.children[parentID]...), nil
}

func (s *StaticLookup) ListRegencies(ctx context.Context, provinceID string) ([]Region, error) {
	return s.list(provinceID)
}

func (s *StaticLookup) ListDistricts(ctx context.Context, regencyID string) ([]Region, error) {
	return s.list(regencyID)
}

func (s *StaticLookup) ListVillages(ctx context.Context, districtID string) ([]Region, error) {
	return s.list(districtID)
}

func (s *StaticLookup) ValidChain(prov, kab, kec, desa string) bool {
	p, ok := s.parent[desa]
	if !ok || p != kec {
		return false
	}
	return s.parent[kec] == kab && s.parent[kab] == prov
}

/* =========================================================
   GORM (tabel provinces/regencies/districts/villages)
========================================================= */

type GormLookup struct {
	DB *gorm.DB
}

func NewGormLookup(db *gorm.DB) *GormLookup {
	return &GormLookup{DB: db}
}

func (g *GormLookup) ListProvinces(ctx context.Context) ([]Region, error) {
	var rows []model.ProvinceModel
	if err := g.DB.WithContext(ctx).Order("province_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Region, 0, len(rows))
	for _, r := range rows {
		out = append(out, Region{ID: r.ProvinceID, Name: r.ProvinceName})
	}
	return out, nil
}

func (g *GormLookup) exists(ctx context.Context, m any, col, id string) error {
	var n int64
	if err := g.DB.WithContext(ctx).Model(m).Where(col+" = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrRegionNotFound
	}
	return nil
}

func (g *GormLookup) ListRegencies(ctx context.Context, provinceID string) ([]Region, error) {
	if err := g.exists(ctx, &model.ProvinceModel{}, "province_id", provinceID); err != nil {
		return nil, err
	}
	var rows []model.RegencyModel
	if err := g.DB.WithContext(ctx).
		Where("regency_province_id = ?", provinceID).
		Order("regency_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Region, 0, len(rows))
	for _, r := range rows {
		out = append(out, Region{ID: r.RegencyID, Name: r.RegencyName, ParentID: r.RegencyProvinceID})
	}
	return out, nil
}

func (g *GormLookup) ListDistricts(ctx context.Context, regencyID string) ([]Region, error) {
	if err := g.exists(ctx, &model.RegencyModel{}, "regency_id", regencyID); err != nil {
		return nil, err
	}
	var rows []model.DistrictModel
	if err := g.DB.WithContext(ctx).
		Where("district_regency_id = ?", regencyID).
		Order("district_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Region, 0, len(rows))
	for _, r := range rows {
		out = append(out, Region{ID: r.DistrictID, Name: r.DistrictName, ParentID: r.DistrictRegencyID})
	}
	return out, nil
}

func (g *GormLookup) ListVillages(ctx context.Context, districtID string) ([]Region, error) {
	if err := g.exists(ctx, &model.DistrictModel{}, "district_id", districtID); err != nil {
		return nil, err
	}
	var rows []model.VillageModel
	if err := g.DB.WithContext(ctx).
		Where("village_district_id = ?", districtID).
		Order("village_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Region, 0, len(rows))
	for _, r := range rows {
		out = append(out, Region{
			ID:         r.VillageID,
			Name:       r.VillageName,
			ParentID:   r.VillageDistrictID,
			PostalCode: r.VillagePostalCode,
		})
	}
	return out, nil
}

// ValidChain dipanggil dari validator (tanpa ctx request); query dibatasi 2 detik.
func (g *GormLookup) ValidChain(prov, kab, kec, desa string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var n int64
	err := g.DB.WithContext(ctx).
		Table("villages AS v").
		Joins("JOIN districts AS d ON d.district_id = v.village_district_id").
		Joins("JOIN regencies AS r ON r.regency_id = d.district_regency_id").
		Where("v.village_id = ? AND d.district_id = ? AND r.regency_id = ? AND r.regency_province_id = ?",
			desa, kec, kab, prov).
		Count(&n).Error
	return err == nil && n > 0
}
