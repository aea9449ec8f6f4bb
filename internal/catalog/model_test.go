package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseVertical(t *testing.T) {
	for in, want := range map[string]Vertical{
		"construction":  Construction,
		" Insurance ":   Insurance,
		"real-estate":   RealEstate,
		"REAL_ESTATE":   RealEstate,
		"entertainment": Entertainment,
	} {
		got, ok := ParseVertical(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseVertical("groceries")
	assert.False(t, ok)
}

func TestDiscountPercent(t *testing.T) {
	o := offering("1", "x", "750")
	assert.Zero(t, o.DiscountPercent())

	orig := money("1000")
	o.OriginalPrice = &orig
	assert.Equal(t, int64(25), o.DiscountPercent())

	higher := money("500")
	o.OriginalPrice = &higher
	assert.Zero(t, o.DiscountPercent())
}

func TestDealActive(t *testing.T) {
	now := day(10)
	o := offering("1", "x", "1")
	assert.False(t, o.DealActive(now))

	o.IsHotDeal = true
	assert.True(t, o.DealActive(now))

	ends := now.Add(-time.Hour)
	o.DealEndsAt = &ends
	assert.False(t, o.DealActive(now))
}

func TestEffectiveRating(t *testing.T) {
	a := offering("1", "a", "1")
	a.Rating = ptr(4.0)
	b := offering("2", "b", "1")
	b.Rating = ptr(2.0)
	unrated := offering("3", "c", "1")

	assert.Equal(t, 3.0, vendor("v", a, b, unrated).EffectiveRating())
	assert.Zero(t, vendor("v", unrated).EffectiveRating())

	own := vendor("v", a)
	own.Rating = ptr(1.5)
	assert.Equal(t, 1.5, own.EffectiveRating())
}

func TestNormalize(t *testing.T) {
	o := offering("1", "x", "1")
	o.Rating = ptr(-2.0)
	withImage := offering("2", "y", "1")
	withImage.ImageURL = "https://cdn.example.com/y.png"
	v := vendor("v", o, withImage)
	v.Rating = ptr(7.0)

	out := Normalize(RealEstate, []Vendor{v})

	assert.Equal(t, 5.0, *out[0].Rating)
	assert.Equal(t, 0.0, *out[0].Offerings[0].Rating)
	assert.Equal(t, "/static/placeholders/realestate.svg", out[0].Offerings[0].ImageURL)
	assert.Equal(t, "https://cdn.example.com/y.png", out[0].Offerings[1].ImageURL)
	assert.Equal(t, "v", out[0].Offerings[1].VendorID)
	assert.Equal(t, -2.0, *v.Offerings[0].Rating, "input is copied")
}
