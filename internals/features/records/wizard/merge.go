package wizard

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Kunci Meta di root dokumen; selalu milik server.
var metaKeys = []string{"id", "status", "schemaVersion", "createdAt", "updatedAt"}

// applyMergePatch menerapkan JSON merge patch (RFC 7386) ke salinan cur.
// null = hapus nilai, object = gabung rekursif, selain itu = ganti.
func applyMergePatch[T any](cur *T, patch []byte) (*T, error) {
	var p any
	if err := sonic.Unmarshal(patch, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPatch, err)
	}
	pm, ok := p.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: harus berupa object", ErrBadPatch)
	}
	for _, k := range metaKeys {
		delete(pm, k)
	}

	raw, err := sonic.Marshal(cur)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	merged, err := sonic.Marshal(mergeValue(doc, pm))
	if err != nil {
		return nil, err
	}
	var next T
	if err := sonic.Unmarshal(merged, &next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPatch, err)
	}
	return &next, nil
}

func mergeValue(target, patch any) any {
	pm, ok := patch.(map[string]any)
	if !ok {
		return patch
	}
	tm, ok := target.(map[string]any)
	if !ok {
		tm = map[string]any{}
	}
	for k, v := range pm {
		if v == nil {
			delete(tm, k)
			continue
		}
		tm[k] = mergeValue(tm[k], v)
	}
	return tm
}

// clone deep copy lewat JSON.
func clone[T any](v *T) (*T, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out T
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
