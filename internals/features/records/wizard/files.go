package wizard

import (
	"fmt"
	"net/url"
	"path"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

type pathSeg struct {
	name string
	idx  int // -1 = tanpa indeks
}

var reSeg = regexp.MustCompile(`^([A-Za-z0-9_]+)(?:\[(\d+)\])?$`)

func parseFieldPath(p string) ([]pathSeg, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil, ErrUnknownField
	}
	parts := strings.Split(p, ".")
	segs := make([]pathSeg, 0, len(parts))
	for _, part := range parts {
		m := reSeg.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, p)
		}
		s := pathSeg{name: m[1], idx: -1}
		if m[2] != "" {
			s.idx, _ = strconv.Atoi(m[2])
		}
		segs = append(segs, s)
	}
	return segs, nil
}

func fieldByJSON(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if jsonName(f) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// fileSlot mencari field berkas pada path; mengembalikan field (*FileRef / []FileRef) dan indeks terakhir.
func fileSlot(root any, p string) (reflect.Value, int, error) {
	segs, err := parseFieldPath(p)
	if err != nil {
		return reflect.Value{}, -1, err
	}
	v := reflect.ValueOf(root)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, -1, ErrUnknownField
	}
	v = v.Elem()

	for i, s := range segs {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct || v.Type() == typeFileRef || v.Type() == typeDate {
			return reflect.Value{}, -1, fmt.Errorf("%w: %s", ErrUnknownField, p)
		}
		f, ok := fieldByJSON(v, s.name)
		if !ok {
			return reflect.Value{}, -1, fmt.Errorf("%w: %s", ErrUnknownField, p)
		}

		if i == len(segs)-1 {
			if f.Type() == typeFileRefP && s.idx < 0 {
				return f, -1, nil
			}
			if f.Type() == typeFileRefs {
				return f, s.idx, nil
			}
			return reflect.Value{}, -1, fmt.Errorf("%w: %s", ErrUnknownField, p)
		}

		if s.idx >= 0 {
			if f.Kind() != reflect.Slice || s.idx >= f.Len() {
				return reflect.Value{}, -1, fmt.Errorf("%w: %s", ErrUnknownField, p)
			}
			f = f.Index(s.idx)
		}
		v = f
	}
	return reflect.Value{}, -1, fmt.Errorf("%w: %s", ErrUnknownField, p)
}

// setFile memasang ref pada path. []FileRef tanpa indeks = tambah di akhir.
// Mengembalikan ref lama yang tergantikan (kalau ada).
func setFile(root any, p string, ref FileRef) (*FileRef, error) {
	f, idx, err := fileSlot(root, p)
	if err != nil {
		return nil, err
	}
	if f.Type() == typeFileRefP {
		var old *FileRef
		if !f.IsNil() {
			o := *f.Interface().(*FileRef)
			old = &o
		}
		r := ref
		f.Set(reflect.ValueOf(&r))
		return old, nil
	}

	list := f.Interface().([]FileRef)
	switch {
	case idx < 0 || idx == len(list):
		list = append(list, ref)
		f.Set(reflect.ValueOf(list))
		return nil, nil
	case idx < len(list):
		old := list[idx]
		list[idx] = ref
		return &old, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, p)
	}
}

// clearFile melepas berkas pada path; tanpa indeks pada list = kosongkan semua.
func clearFile(root any, p string) ([]FileRef, error) {
	f, idx, err := fileSlot(root, p)
	if err != nil {
		return nil, err
	}
	if f.Type() == typeFileRefP {
		if f.IsNil() {
			return nil, nil
		}
		old := *f.Interface().(*FileRef)
		f.Set(reflect.Zero(typeFileRefP))
		return []FileRef{old}, nil
	}

	list := f.Interface().([]FileRef)
	if idx < 0 {
		f.Set(reflect.Zero(typeFileRefs))
		return list, nil
	}
	if idx >= len(list) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, p)
	}
	old := list[idx]
	next := append(append([]FileRef{}, list[:idx]...), list[idx+1:]...)
	f.Set(reflect.ValueOf(next))
	return []FileRef{old}, nil
}

// walkFiles mengunjungi semua FileRef (termasuk elemen list) beserta path json-nya.
func walkFiles(root any, fn func(path string, ref *FileRef)) {
	walkValue(reflect.ValueOf(root), "", fn)
}

func walkValue(v reflect.Value, p string, fn func(string, *FileRef)) {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return
		}
		if v.Type() == typeFileRefP {
			fn(p, v.Interface().(*FileRef))
			return
		}
		walkValue(v.Elem(), p, fn)
	case reflect.Struct:
		if v.Type() == typeDate {
			return
		}
		if v.Type() == typeFileRef {
			if v.CanAddr() {
				fn(p, v.Addr().Interface().(*FileRef))
			}
			return
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Anonymous {
				continue
			}
			walkValue(v.Field(i), joinPath(p, jsonName(f)), fn)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			walkValue(v.Index(i), fmt.Sprintf("%s[%d]", p, i), fn)
		}
	}
}

// pendingHandles semua handle staging yang masih dirujuk record.
func pendingHandles(root any) []string {
	var out []string
	walkFiles(root, func(_ string, ref *FileRef) {
		if ref.Pending != "" {
			out = append(out, ref.Pending)
		}
	})
	return out
}

// sanitizeFiles: handle pending yang bukan milik sesi dibuang, ref kosong dihapus.
func sanitizeFiles(root any, owned map[string]bool) {
	sanitizeValue(reflect.ValueOf(root), owned)
}

func sanitizeValue(v reflect.Value, owned map[string]bool) {
	switch v.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			sanitizeValue(v.Elem(), owned)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			sanitizeValue(v.Index(i), owned)
		}
	case reflect.Struct:
		if v.Type() == typeDate || v.Type() == typeFileRef {
			return
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() || t.Field(i).Anonymous {
				continue
			}
			f := v.Field(i)
			switch f.Type() {
			case typeFileRefP:
				if f.IsNil() {
					continue
				}
				ref := f.Interface().(*FileRef)
				if ref.Pending != "" && !owned[ref.Pending] {
					ref.Pending = ""
				}
				if !ref.Attached() {
					f.Set(reflect.Zero(typeFileRefP))
				}
			case typeFileRefs:
				list := f.Interface().([]FileRef)
				if list == nil {
					continue
				}
				kept := make([]FileRef, 0, len(list))
				for _, ref := range list {
					if ref.Pending != "" && !owned[ref.Pending] {
						ref.Pending = ""
					}
					if ref.Attached() {
						kept = append(kept, ref)
					}
				}
				f.Set(reflect.ValueOf(kept))
			default:
				sanitizeValue(f, owned)
			}
		}
	}
}

// prepareForEdit: record tersimpan hanya punya URL; nama file diisi dari URL.
func prepareForEdit(root any) {
	walkFiles(root, func(_ string, ref *FileRef) {
		ref.Pending = ""
		if ref.FileName == "" && ref.FileURL != "" {
			ref.FileName = fileNameFromURL(ref.FileURL)
		}
	})
}

func fileNameFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	name := path.Base(raw)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// uploadDir folder blob untuk path field: "dokumen.pasFoto" → "dokumen/pas-foto".
func uploadDir(entity, p string) string {
	p = reIndex.ReplaceAllString(p, "")
	parts := strings.Split(p, ".")
	for i, s := range parts {
		parts[i] = kebab(s)
	}
	return strings.Join(append([]string{entity}, parts...), "/")
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
