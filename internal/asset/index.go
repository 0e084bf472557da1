// Package asset maps loosely-structured product image data to a renderable image
// reference, preferring images bundled with the storefront over network fetches.
package asset

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ikkim/udonggeum-storefront/internal/app/model"
)

var separatorRun = regexp.MustCompile(`[_\-\s]+`)

// Index is the read-only table of bundled assets keyed by lowercase name.
type Index struct {
	entries map[string]model.AssetHandle
}

// NewIndex copies entries, lowercasing and trimming every key. Blank keys are
// dropped; when two keys collide after lowercasing the last one in sorted order
// wins so that construction is deterministic.
func NewIndex(entries map[string]model.AssetHandle) *Index {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	idx := &Index{entries: make(map[string]model.AssetHandle, len(entries))}
	for _, k := range keys {
		norm := strings.ToLower(strings.TrimSpace(k))
		if norm == "" {
			continue
		}
		idx.entries[norm] = entries[k]
	}
	return idx
}

// Len reports the number of entries.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Lookup tries key as-is (lowercased), then with separator runs collapsed to a
// single space, then collapsed to a single underscore.
func (i *Index) Lookup(key string) (model.AssetHandle, bool) {
	if i == nil || len(i.entries) == 0 {
		return 0, false
	}
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return 0, false
	}
	for _, candidate := range []string{
		k,
		separatorRun.ReplaceAllString(k, " "),
		separatorRun.ReplaceAllString(k, "_"),
	} {
		if h, ok := i.entries[candidate]; ok {
			return h, true
		}
	}
	return 0, false
}
