package model

import "strings"

// ProductSnapshot holds the product fields captured when a line is first added to
// the cart. It is never re-validated against the backend.
type ProductSnapshot struct {
	Name          string                 `json:"name,omitempty"`
	Title         string                 `json:"title,omitempty"`
	Price         float64                `json:"price,omitempty"`
	SalePrice     *float64               `json:"sale_price,omitempty"`
	ImageURL      string                 `json:"image_url,omitempty"`
	ImageFilename string                 `json:"image_filename,omitempty"`
	Category      string                 `json:"category,omitempty"`
	SKU           string                 `json:"sku,omitempty"`
	Gallery       []AssetHandle          `json:"gallery,omitempty"`
	Extra         map[string]interface{} `json:"extra,omitempty"`
}

// DisplayName prefers Name over Title.
func (p ProductSnapshot) DisplayName() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.Title
}

// EffectivePrice returns the sale price when one is set.
func (p ProductSnapshot) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Clone copies the snapshot so that the copy shares no slices, maps or pointers with
// the original. Values inside Extra are copied shallowly.
func (p ProductSnapshot) Clone() ProductSnapshot {
	out := p
	if p.SalePrice != nil {
		v := *p.SalePrice
		out.SalePrice = &v
	}
	if p.Gallery != nil {
		out.Gallery = append([]AssetHandle(nil), p.Gallery...)
	}
	if p.Extra != nil {
		out.Extra = make(map[string]interface{}, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Ref returns the fields the asset resolver can use.
func (p ProductSnapshot) Ref() *ProductRef {
	return &ProductRef{
		ImageURL:      p.ImageURL,
		ImageFilename: p.ImageFilename,
		Category:      p.Category,
		SKU:           p.SKU,
		Name:          p.Name,
		Title:         p.Title,
		Gallery:       p.Gallery,
	}
}

// ProductRef is the loosely-populated product record handed to the asset resolver.
// Any subset of fields may be present; an empty string means absent.
type ProductRef struct {
	ImageURL      string
	ImageFilename string
	Category      string
	SKU           string
	Name          string
	Title         string
	Gallery       []AssetHandle
}

func (p *ProductRef) HasImageURL() bool {
	return p != nil && strings.TrimSpace(p.ImageURL) != ""
}

func (p *ProductRef) HasImageFilename() bool {
	return p != nil && strings.TrimSpace(p.ImageFilename) != ""
}

func (p *ProductRef) HasCategory() bool {
	return p != nil && strings.TrimSpace(p.Category) != ""
}

func (p *ProductRef) HasSKU() bool {
	return p != nil && strings.TrimSpace(p.SKU) != ""
}

func (p *ProductRef) HasGallery() bool {
	return p != nil && len(p.Gallery) > 0
}

// HasName reports whether either display name field is populated.
func (p *ProductRef) HasName() bool {
	return p != nil && (strings.TrimSpace(p.Name) != "" || strings.TrimSpace(p.Title) != "")
}

// DisplayName prefers Name over Title.
func (p *ProductRef) DisplayName() string {
	if p == nil {
		return ""
	}
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.Title
}
