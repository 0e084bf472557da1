package model

import (
	"encoding/json"
	"strconv"
)

// AssetHandle identifies an image bundled with the storefront.
type AssetHandle int

// ResolvedImage is either a bundled local asset or a fully-qualified network URL.
type ResolvedImage struct {
	Local   *AssetHandle `json:"local,omitempty"`
	Network string       `json:"network,omitempty"`
}

func Local(h AssetHandle) ResolvedImage {
	return ResolvedImage{Local: &h}
}

func Network(url string) ResolvedImage {
	return ResolvedImage{Network: url}
}

func (r ResolvedImage) IsLocal() bool {
	return r.Local != nil
}

// IsZero reports whether neither variant is populated.
func (r ResolvedImage) IsZero() bool {
	return r.Local == nil && r.Network == ""
}

func (r ResolvedImage) String() string {
	if r.Local != nil {
		return "asset:" + strconv.Itoa(int(*r.Local))
	}
	return r.Network
}

// MarshalJSON emits exactly one of {"local":n} or {"network":"..."}.
func (r ResolvedImage) MarshalJSON() ([]byte, error) {
	if r.Local != nil {
		return json.Marshal(struct {
			Local AssetHandle `json:"local"`
		}{*r.Local})
	}
	return json.Marshal(struct {
		Network string `json:"network"`
	}{r.Network})
}
