// file: internals/features/regions/data/data.go
package data

import (
	_ "embed"

	"github.com/bytedance/sonic"
)

// Data contoh wilayah (kode Kemendagri). Dataset lengkap dimuat lewat seed ke DB.
//
//go:embed regions.json
var RegionsJSON []byte

type Village struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PostalCode string `json:"postalCode"`
}

type District struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Villages []Village `json:"villages"`
}

type Regency struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Districts []District `json:"districts"`
}

type Province struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Regencies []Regency `json:"regencies"`
}

type Tree struct {
	Provinces []Province `json:"provinces"`
}

func Parse(raw []byte) (*Tree, error) {
	var t Tree
	if err := sonic.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Embedded pohon wilayah bawaan binary.
func Embedded() (*Tree, error) {
	return Parse(RegionsJSON)
}
