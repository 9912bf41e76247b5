// file: internals/helpers/dbtime/dbtime.go
package dbtime

import (
	"sync"
	"time"
)

// DefaultZone zona waktu tampilan (export, laporan). Waktu di DB tetap UTC.
const DefaultZone = "Asia/Jakarta"

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location Asia/Jakarta; fallback UTC+7 tetap bila tzdata tidak tersedia di container.
func Location() *time.Location {
	locOnce.Do(func() {
		l, err := time.LoadLocation(DefaultZone)
		if err != nil {
			l = time.FixedZone("WIB", 7*60*60)
		}
		loc = l
	})
	return loc
}

// ToLocal mengonversi waktu dari DB ke zona tampilan. Zero time dikembalikan apa adanya.
func ToLocal(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(Location())
}

// FormatLocal "2006-01-02 15:04:05" di zona tampilan; nil = "".
func FormatLocal(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return ToLocal(*t).Format(time.DateTime)
}
