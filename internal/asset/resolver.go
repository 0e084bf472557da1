package asset

import (
	"path"
	"regexp"
	"strings"

	"github.com/ikkim/udonggeum-storefront/internal/app/model"
)

const DefaultPlaceholderName = "placeholder.png"

var (
	absoluteURL   = regexp.MustCompile(`(?i)^https?://`)
	imagesPath    = regexp.MustCompile(`(?:^|/)images/[^/]`)
	trailingDigit = regexp.MustCompile(`[0-9]+$`)
	punctuation   = regexp.MustCompile(`[\p{P}\p{S}]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

type hintKind int

const (
	hintNone hintKind = iota
	hintText
	hintHandle
)

// Hint is the raw image reference a caller has for a product: nothing, a string
// (URL, path or filename) or an already-resolved local asset handle.
type Hint struct {
	kind   hintKind
	text   string
	handle model.AssetHandle
}

// NoHint is the absent hint.
var NoHint = Hint{}

// TextHint wraps a string hint. Blank strings are treated as absent.
func TextHint(s string) Hint {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoHint
	}
	return Hint{kind: hintText, text: s}
}

func HandleHint(h model.AssetHandle) Hint {
	return Hint{kind: hintHandle, handle: h}
}

func (h Hint) IsNone() bool {
	return h.kind == hintNone
}

// HintFor derives a hint from a product record: its first gallery handle, else
// its image URL.
func HintFor(p *model.ProductRef) Hint {
	switch {
	case p.HasGallery():
		return HandleHint(p.Gallery[0])
	case p.HasImageURL():
		return TextHint(p.ImageURL)
	default:
		return NoHint
	}
}

type Options struct {
	// Origin is the API base URL used for every network reference.
	Origin string
	// PlaceholderName is the image served when nothing else matches.
	PlaceholderName string
}

// Resolver turns hints into images. It never fails and is safe for concurrent use.
type Resolver struct {
	index       *Index
	origin      string
	placeholder string
}

func NewResolver(index *Index, opts Options) *Resolver {
	if index == nil {
		index = NewIndex(nil)
	}
	placeholder := strings.TrimSpace(opts.PlaceholderName)
	if placeholder == "" {
		placeholder = DefaultPlaceholderName
	}
	return &Resolver{
		index:       index,
		origin:      strings.TrimRight(strings.TrimSpace(opts.Origin), "/"),
		placeholder: placeholder,
	}
}

// Resolve applies the fallback chain; the first matching rule wins.
//
//  1. no hint and no product: placeholder
//  2. local handle: as-is
//  3. absolute URL: verbatim
//  4. ".../images/<name>": local by name, else origin + path
//  5. server-relative path: local by name, else origin + path
//  6. product fields: image URL filename, image filename, category, SKU stem, name
//  7. bare filename: local by name, else origin + /images/ + hint
//  8. product image URL re-classified, else placeholder
func (r *Resolver) Resolve(hint Hint, product *model.ProductRef) model.ResolvedImage {
	if hint.kind == hintNone && product == nil {
		return r.placeholderImage("")
	}

	if hint.kind == hintHandle {
		return model.Local(hint.handle)
	}

	text := hint.text
	if hint.kind == hintText {
		if absoluteURL.MatchString(text) {
			return model.Network(text)
		}
		if imagesPath.MatchString(text) || strings.HasPrefix(text, "/") {
			if h, ok := r.index.Lookup(fileStem(text)); ok {
				return model.Local(h)
			}
			return model.Network(r.join(text))
		}
	}

	if product != nil {
		if h, ok := r.fromProductFields(product); ok {
			return model.Local(h)
		}
	}

	if hint.kind == hintText && !strings.Contains(text, "/") {
		if h, ok := r.index.Lookup(fileStem(text)); ok {
			return model.Local(h)
		}
		return model.Network(r.join("/images/" + text))
	}

	if product.HasImageURL() {
		return r.classifyProductURL(strings.TrimSpace(product.ImageURL))
	}
	return r.placeholderImage(text)
}

// fromProductFields tries each field in priority order and stops at the first
// index hit.
func (r *Resolver) fromProductFields(p *model.ProductRef) (model.AssetHandle, bool) {
	var candidates []string

	if p.HasImageURL() {
		candidates = append(candidates, fileStem(stripQuery(p.ImageURL)))
	}
	if p.HasImageFilename() {
		candidates = append(candidates, stripExt(strings.TrimSpace(p.ImageFilename)))
	}
	if p.HasCategory() {
		candidates = append(candidates, p.Category)
	}
	if p.HasSKU() {
		candidates = append(candidates, skuStems(p.SKU)...)
	}
	if p.HasName() {
		spaced := nameKey(p.DisplayName())
		candidates = append(candidates, spaced, strings.ReplaceAll(spaced, " ", ""))
	}

	for _, c := range candidates {
		if h, ok := r.index.Lookup(c); ok {
			return h, true
		}
	}
	return 0, false
}

// classifyProductURL is the last-resort use of the product's own image URL. It
// keys the lookup on the raw basename rather than the stripped query form used in
// fromProductFields.
func (r *Resolver) classifyProductURL(u string) model.ResolvedImage {
	switch {
	case absoluteURL.MatchString(u):
		return model.Network(u)
	case strings.HasPrefix(u, "/"):
		if h, ok := r.index.Lookup(stripExt(path.Base(u))); ok {
			return model.Local(h)
		}
		return model.Network(r.join(u))
	default:
		if h, ok := r.index.Lookup(stripExt(u)); ok {
			return model.Local(h)
		}
		return model.Network(r.join("/images/" + u))
	}
}

func (r *Resolver) placeholderImage(name string) model.ResolvedImage {
	if name == "" {
		name = r.placeholder
	}
	return model.Network(r.join("/images/" + strings.TrimLeft(name, "/")))
}

func (r *Resolver) join(p string) string {
	return r.origin + "/" + strings.TrimLeft(p, "/")
}

// fileStem is the lowercase last path segment without its extension.
func fileStem(p string) string {
	return strings.ToLower(stripExt(path.Base(p)))
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func stripQuery(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}

// skuStems drops trailing digits, so BRK-001 and BRK-002 share "brk-". The same
// stem without its dangling separator is tried next.
func skuStems(sku string) []string {
	stem := trailingDigit.ReplaceAllString(strings.TrimSpace(sku), "")
	stems := []string{stem}
	if trimmed := strings.TrimRight(stem, "-_ "); trimmed != stem {
		stems = append(stems, trimmed)
	}
	return stems
}

// nameKey lowercases a display name and turns punctuation into single spaces.
func nameKey(name string) string {
	k := punctuation.ReplaceAllString(strings.ToLower(name), " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(k, " "))
}
