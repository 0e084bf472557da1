package asset

import (
	"testing"

	"github.com/ikkim/udonggeum-storefront/internal/app/model"
	"github.com/stretchr/testify/assert"
)

const testOrigin = "http://api.test"

func setupResolver(entries map[string]model.AssetHandle) *Resolver {
	return NewResolver(NewIndex(entries), Options{Origin: testOrigin})
}

func TestIndex_LookupNormalization(t *testing.T) {
	idx := NewIndex(map[string]model.AssetHandle{"brake pad": 1, "Disc_Rotor": 2})

	for _, key := range []string{"brake pad", "brake-pad", "brake_pad", "BRAKE--PAD", "brake _- pad"} {
		h, ok := idx.Lookup(key)
		assert.True(t, ok, key)
		assert.Equal(t, model.AssetHandle(1), h, key)
	}

	h, ok := idx.Lookup("disc rotor")
	assert.True(t, ok)
	assert.Equal(t, model.AssetHandle(2), h)

	_, ok = idx.Lookup("caliper")
	assert.False(t, ok)
	_, ok = idx.Lookup("  ")
	assert.False(t, ok)
}

func TestIndex_NilAndEmpty(t *testing.T) {
	var idx *Index
	_, ok := idx.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, NewIndex(map[string]model.AssetHandle{" ": 4}).Len())
}

func TestResolve_NeverEmpty(t *testing.T) {
	r := setupResolver(nil)

	inputs := []struct {
		hint    Hint
		product *model.ProductRef
	}{
		{NoHint, nil},
		{TextHint(""), nil},
		{TextHint("   "), nil},
		{NoHint, &model.ProductRef{}},
		{TextHint("a/b"), nil},
		{TextHint("/"), nil},
		{TextHint("x"), &model.ProductRef{Name: "!!!"}},
		{HandleHint(0), nil},
	}
	for _, in := range inputs {
		got := r.Resolve(in.hint, in.product)
		assert.False(t, got.IsZero(), "%+v", in)
	}
}

func TestResolve_NoHintNoProduct_Placeholder(t *testing.T) {
	r := setupResolver(nil)
	assert.Equal(t, model.Network("http://api.test/images/placeholder.png"), r.Resolve(NoHint, nil))

	custom := NewResolver(nil, Options{Origin: "http://api.test/", PlaceholderName: "none.svg"})
	assert.Equal(t, model.Network("http://api.test/images/none.svg"), custom.Resolve(TextHint(" "), nil))
}

func TestResolve_HandleReturnedAsIs(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"pad": 1})
	assert.Equal(t, model.Local(9), r.Resolve(HandleHint(9), &model.ProductRef{Category: "pad"}))
}

func TestResolve_AbsoluteURLWins(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"y": 1, "brakes": 2, "pad": 3})
	product := &model.ProductRef{
		ImageURL:      "/images/y.png",
		ImageFilename: "y.png",
		Category:      "brakes",
		SKU:           "pad-01",
		Name:          "Pad",
	}

	assert.Equal(t, model.Network("https://x/y.png"), r.Resolve(TextHint("https://x/y.png"), product))
	assert.Equal(t, model.Network("HTTP://x/y.png"), r.Resolve(TextHint("HTTP://x/y.png"), nil))
}

func TestResolve_ImagesPath(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"brake pad": 4})

	assert.Equal(t, model.Local(4), r.Resolve(TextHint("/static/images/Brake-Pad.PNG"), nil))
	assert.Equal(t, model.Local(4), r.Resolve(TextHint("images/brake_pad.jpg"), nil))
	assert.Equal(t,
		model.Network("http://api.test/static/images/rotor.png"),
		r.Resolve(TextHint("/static/images/rotor.png"), nil),
	)
	assert.Equal(t,
		model.Network("http://api.test/images/rotor.png"),
		r.Resolve(TextHint("images/rotor.png"), nil),
	)
}

func TestResolve_ServerRelativePath(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"caliper": 5})

	assert.Equal(t, model.Local(5), r.Resolve(TextHint("/uploads/2024/Caliper.webp"), nil))
	assert.Equal(t,
		model.Network("http://api.test/uploads/2024/rotor.webp"),
		r.Resolve(TextHint("/uploads/2024/rotor.webp"), &model.ProductRef{Category: "caliper"}),
	)
}

func TestResolve_ProductFieldPriority(t *testing.T) {
	index := map[string]model.AssetHandle{
		"from-url":  1,
		"from-file": 2,
		"brakes":    3,
		"brk":       4,
		"front pad": 5,
		"frontpad":  6,
	}
	r := setupResolver(index)

	full := model.ProductRef{
		ImageURL:      "https://cdn.test/img/From-URL.jpg?v=3",
		ImageFilename: "from-file.png",
		Category:      "Brakes",
		SKU:           "BRK-002",
		Name:          "Front Pad",
	}

	p := full
	assert.Equal(t, model.Local(1), r.Resolve(NoHint, &p))

	p.ImageURL = "https://cdn.test/img/unknown.jpg"
	assert.Equal(t, model.Local(2), r.Resolve(NoHint, &p))

	p.ImageFilename = ""
	assert.Equal(t, model.Local(3), r.Resolve(NoHint, &p))

	p.Category = ""
	assert.Equal(t, model.Local(4), r.Resolve(NoHint, &p))

	p.SKU = ""
	assert.Equal(t, model.Local(5), r.Resolve(NoHint, &p))
}

func TestResolve_ProductFieldsBeforeBareFilename(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"disc": 1, "rotors": 2})

	got := r.Resolve(TextHint("disc.jpg"), &model.ProductRef{Category: "rotors"})
	assert.Equal(t, model.Local(2), got)
}

func TestResolve_SKUVariantsShareAsset(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"oil filter": 7})

	for _, sku := range []string{"OIL-FILTER-01", "oil_filter_2", "Oil Filter 300"} {
		assert.Equal(t, model.Local(7), r.Resolve(NoHint, &model.ProductRef{SKU: sku}), sku)
	}
}

func TestResolve_SKUStemKeepsSeparator(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"brk-": 7})

	assert.Equal(t, model.Local(7), r.Resolve(NoHint, &model.ProductRef{SKU: "BRK-001"}))
}

func TestResolve_NameWithSpacesRemoved(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"sparkplug": 8})

	got := r.Resolve(NoHint, &model.ProductRef{Title: "Spark-Plug (NGK)!"})
	assert.Equal(t, model.Network("http://api.test/images/placeholder.png"), got)

	got = r.Resolve(NoHint, &model.ProductRef{Name: "Spark Plug."})
	assert.Equal(t, model.Local(8), got)
}

func TestResolve_BareFilename(t *testing.T) {
	empty := setupResolver(nil)
	assert.Equal(t, model.Network("http://api.test/images/disc.jpg"), empty.Resolve(TextHint("disc.jpg"), nil))

	r := setupResolver(map[string]model.AssetHandle{"disc": 3})
	assert.Equal(t, model.Local(3), r.Resolve(TextHint("Disc.JPG"), nil))
}

func TestResolve_FinalFallback_ProductImageURL(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"hub": 2})

	// Hint with a directory that is neither absolute, rooted nor under images/
	hint := TextHint("media/wheel.png")

	assert.Equal(t,
		model.Network("https://cdn.test/wheel.png"),
		r.Resolve(hint, &model.ProductRef{ImageURL: "https://cdn.test/wheel.png"}),
	)
	assert.Equal(t,
		model.Network("http://api.test/uploads/wheel.png"),
		r.Resolve(hint, &model.ProductRef{ImageURL: "/uploads/wheel.png"}),
	)
	assert.Equal(t,
		model.Network("http://api.test/images/wheel.png"),
		r.Resolve(hint, &model.ProductRef{ImageURL: "wheel.png"}),
	)
	assert.Equal(t,
		model.Network("http://api.test/images/media/wheel.png"),
		r.Resolve(hint, &model.ProductRef{Name: "Wheel"}),
	)
	assert.Equal(t,
		model.Network("http://api.test/images/media/wheel.png"),
		r.Resolve(hint, nil),
	)
}

func TestResolve_FinalFallback_ProductURLLocalHit(t *testing.T) {
	r := setupResolver(map[string]model.AssetHandle{"hub": 2})

	// The image URL stem is already tried among the product fields; a miss there
	// still reaches the rooted-path branch of the last resort.
	assert.Equal(t, model.Local(2), r.Resolve(NoHint, &model.ProductRef{ImageURL: "/uploads/hub.png"}))
	assert.Equal(t,
		model.Network("http://api.test/uploads/axle.png"),
		r.Resolve(NoHint, &model.ProductRef{ImageURL: "/uploads/axle.png"}),
	)
}

func TestHintFor(t *testing.T) {
	assert.True(t, HintFor(nil).IsNone())
	assert.True(t, HintFor(&model.ProductRef{}).IsNone())
	assert.Equal(t, HandleHint(3), HintFor(&model.ProductRef{Gallery: []model.AssetHandle{3, 4}, ImageURL: "x.png"}))
	assert.Equal(t, TextHint("x.png"), HintFor(&model.ProductRef{ImageURL: " x.png "}))
}
