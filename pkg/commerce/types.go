package commerce

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Product is the backend product record. Only presence is checked: fields the
// backend omits or sends in an unexpected shape are left zero.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	Title         string   `json:"title,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	SalePrice     *float64 `json:"salePrice,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	ImageFilename string   `json:"imageFilename,omitempty"`
	Category      string   `json:"category,omitempty"`
	SKU           string   `json:"sku,omitempty"`
	// Images holds image URLs from the images array.
	Images []string `json:"images,omitempty"`
	// Gallery holds numeric asset handles from the images array.
	Gallery []int `json:"gallery,omitempty"`
}

type productEnvelope struct {
	Product *json.RawMessage `json:"product"`
}

type productRecord struct {
	ID            json.RawMessage   `json:"id"`
	Name          json.RawMessage   `json:"name"`
	Title         json.RawMessage   `json:"title"`
	Price         json.RawMessage   `json:"price"`
	SalePrice     json.RawMessage   `json:"salePrice"`
	ImageURL      json.RawMessage   `json:"imageUrl"`
	ImageFilename json.RawMessage   `json:"imageFilename"`
	Category      json.RawMessage   `json:"category"`
	SKU           json.RawMessage   `json:"sku"`
	Images        []json.RawMessage `json:"images"`
	Gallery       []json.RawMessage `json:"gallery"`
}

// UnmarshalJSON accepts numeric or string ids and prices, a category given as a
// string or as an object with a name, and an images array mixing URLs, objects
// with a url field and numeric handles.
func (p *Product) UnmarshalJSON(data []byte) error {
	var rec productRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	*p = Product{
		ID:            scalarString(rec.ID),
		Name:          scalarString(rec.Name),
		Title:         scalarString(rec.Title),
		Price:         amount(rec.Price),
		SalePrice:     amount(rec.SalePrice),
		ImageURL:      scalarString(rec.ImageURL),
		ImageFilename: scalarString(rec.ImageFilename),
		Category:      namedString(rec.Category),
		SKU:           scalarString(rec.SKU),
	}

	for _, raw := range append(rec.Images, rec.Gallery...) {
		if n, ok := integer(raw); ok {
			p.Gallery = append(p.Gallery, n)
			continue
		}
		if u := namedURL(raw); u != "" {
			p.Images = append(p.Images, u)
		}
	}
	return nil
}

// DisplayName prefers name over title.
func (p *Product) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Title
}

// PrimaryImageURL is imageUrl, else the first URL in images.
func (p *Product) PrimaryImageURL() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func namedString(raw json.RawMessage) string {
	if s := scalarString(raw); s != "" {
		return s
	}
	var obj struct {
		Name json.RawMessage `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return scalarString(obj.Name)
	}
	return ""
}

func namedURL(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.URL)
	}
	return ""
}

func amount(raw json.RawMessage) *float64 {
	s := scalarString(raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

func integer(raw json.RawMessage) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(i), true
}
