package wizard

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Migration mengubah dokumen dari versi From ke From+1.
type Migration struct {
	From int
	Fn   func(doc map[string]any) error
}

// Migrator menaikkan dokumen record lama ke versi terkini saat dibaca.
type Migrator struct {
	Current int
	steps   map[int]func(map[string]any) error
}

func NewMigrator(current int, ms ...Migration) *Migrator {
	m := &Migrator{Current: current, steps: map[int]func(map[string]any) error{}}
	for _, x := range ms {
		m.steps[x.From] = x.Fn
	}
	return m
}

// Upgrade; versi 0 dianggap 1 (dokumen sebelum ada schema_version).
func (m *Migrator) Upgrade(raw []byte, version int) ([]byte, error) {
	if version < 1 {
		version = 1
	}
	if version > m.Current {
		return nil, fmt.Errorf("schema_version %d lebih baru dari yang didukung (%d)", version, m.Current)
	}
	if version == m.Current {
		return raw, nil
	}

	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("dokumen rusak: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	for v := version; v < m.Current; v++ {
		fn, ok := m.steps[v]
		if !ok {
			return nil, fmt.Errorf("tidak ada migrasi dari versi %d", v)
		}
		if err := fn(doc); err != nil {
			return nil, fmt.Errorf("migrasi v%d→v%d: %w", v, v+1, err)
		}
	}
	doc["schemaVersion"] = m.Current
	return sonic.Marshal(doc)
}

// Decode: upgrade lalu unmarshal ke tipe record.
func Decode[T any](m *Migrator, raw []byte, version int) (*T, error) {
	up, err := m.Upgrade(raw, version)
	if err != nil {
		return nil, err
	}
	var out T
	if err := sonic.Unmarshal(up, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NormalizeStatusField memetakan label status lama ("Draft", ...) ke label baku.
func NormalizeStatusField(doc map[string]any) error {
	s, _ := doc["status"].(string)
	doc["status"] = string(NormalizeStatus(s))
	return nil
}

// RenameKey memindahkan nilai dari path lama ke path baru ("dokumen.fotoSiswa" → "dokumen.pasFoto").
func RenameKey(doc map[string]any, from, to string) {
	fromParts := strings.Split(from, ".")
	parent := lookupObject(doc, fromParts[:len(fromParts)-1], false)
	if parent == nil {
		return
	}
	last := fromParts[len(fromParts)-1]
	v, ok := parent[last]
	if !ok {
		return
	}
	delete(parent, last)

	toParts := strings.Split(to, ".")
	target := lookupObject(doc, toParts[:len(toParts)-1], true)
	if _, exists := target[toParts[len(toParts)-1]]; !exists {
		target[toParts[len(toParts)-1]] = v
	}
}

func lookupObject(doc map[string]any, parts []string, create bool) map[string]any {
	cur := doc
	for _, p := range parts {
		next, ok := cur[p].(map[string]any)
		if !ok {
			if !create {
				return nil
			}
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	return cur
}
