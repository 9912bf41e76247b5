package wizard

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date tanggal tanpa jam; JSON "2006-01-02", kosong/null = zero.
type Date struct {
	time.Time
}

func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339, time.RFC3339Nano, "02/01/2006", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("format tanggal tidak dikenal: %q", s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("tanggal harus string: %s", b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FileRef referensi berkas. Pending terisi selama binary masih di staging (belum durable).
type FileRef struct {
	FileName    string `json:"fileName"`
	FileURL     string `json:"fileURL,omitempty"`
	Pending     string `json:"pendingBinary,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

func (f *FileRef) Attached() bool {
	return f != nil && (f.FileURL != "" || f.Pending != "")
}

func (f *FileRef) Durable() bool {
	return f != nil && f.FileURL != "" && f.Pending == ""
}

// Status kelengkapan administrasi.
type Status string

const (
	StatusComplete   Status = "Lengkap"
	StatusIncomplete Status = "Belum Lengkap"
)

// NormalizeStatus memetakan label lama ("Draft", "Incomplete", ...) ke label baku.
func NormalizeStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lengkap", "complete":
		return StatusComplete
	default:
		return StatusIncomplete
	}
}

// StatusClause kondisi SQL untuk filter status di kolom mentah. Label lama ("Draft", dst.)
// di kolom belum dinormalisasi, jadi "Belum Lengkap" = semua yang bukan label lengkap.
func StatusClause(column string, s Status) (string, []string) {
	labels := []string{"lengkap", "complete"}
	if s == StatusComplete {
		return "LOWER(" + column + ") IN ?", labels
	}
	return "LOWER(" + column + ") NOT IN ?", labels
}

// Meta disematkan ke setiap record; diisi server, tidak pernah dari input klien.
type Meta struct {
	ID            string     `json:"id,omitempty"`
	Status        Status     `json:"status,omitempty"`
	SchemaVersion int        `json:"schemaVersion,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// Record diimplementasikan otomatis oleh struct yang menyematkan Meta.
type Record interface {
	RecordMeta() *Meta
}

func (m *Meta) RecordMeta() *Meta { return m }

func metaOf(v any) *Meta {
	if r, ok := v.(Record); ok {
		return r.RecordMeta()
	}
	return nil
}
