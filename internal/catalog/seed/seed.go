// Package seed loads the catalog of each vertical from the YAML files
// embedded in the binary.
package seed

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sudo-init-do/bazaar/internal/catalog"
)

//go:embed data/*.yaml
var files embed.FS

type moneyDoc struct {
	Amount   string `yaml:"amount"`
	Currency string `yaml:"currency"`
}

type stockDoc struct {
	Available int `yaml:"available"`
	Total     int `yaml:"total"`
}

type offeringDoc struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	Description   string    `yaml:"description"`
	Category      string    `yaml:"category"`
	Subcategory   string    `yaml:"subcategory"`
	Tags          []string  `yaml:"tags"`
	Price         moneyDoc  `yaml:"price"`
	OriginalPrice *moneyDoc `yaml:"original_price"`
	DateAdded     string    `yaml:"date_added"`
	Rating        *float64  `yaml:"rating"`
	Stock         *stockDoc `yaml:"stock"`
	Location      string    `yaml:"location"`
	Brand         string    `yaml:"brand"`
	Gender        string    `yaml:"gender"`
	Flags         []string  `yaml:"flags"`
	DealEndsAt    string    `yaml:"deal_ends_at"`
	ImageURL      string    `yaml:"image_url"`
}

type vendorDoc struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Location    string          `yaml:"location"`
	Contact     catalog.Contact `yaml:"contact"`
	Verified    bool            `yaml:"verified"`
	Since       int             `yaml:"since"`
	Rating      *float64        `yaml:"rating"`
	Offerings   []offeringDoc   `yaml:"offerings"`
}

type catalogDoc struct {
	Currency string      `yaml:"currency"`
	Vendors  []vendorDoc `yaml:"vendors"`
}

// Source serves the embedded seed catalogs. The zero value is ready to use.
type Source struct {
	// FS overrides the embedded files; it must contain data/<vertical>.yaml.
	FS fs.FS
}

func (s Source) Load(_ context.Context, vertical catalog.Vertical) ([]catalog.Vendor, error) {
	fsys := s.FS
	if fsys == nil {
		fsys = files
	}
	raw, err := fs.ReadFile(fsys, "data/"+string(vertical)+".yaml")
	if err != nil {
		return nil, fmt.Errorf("read seed for %s: %w", vertical, err)
	}
	return Parse(raw)
}

// Parse decodes a seed document. A price without a currency inherits the
// document currency.
func Parse(raw []byte) ([]catalog.Vendor, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	vendors := make([]catalog.Vendor, 0, len(doc.Vendors))
	seen := map[string]bool{}
	seenOffering := map[string]string{}
	for _, vd := range doc.Vendors {
		if vd.ID == "" || vd.Name == "" {
			return nil, fmt.Errorf("vendor %q: id and name are required", vd.ID)
		}
		if seen[vd.ID] {
			return nil, fmt.Errorf("vendor %q: duplicate id", vd.ID)
		}
		seen[vd.ID] = true

		v := catalog.Vendor{
			ID:          vd.ID,
			Name:        vd.Name,
			Description: vd.Description,
			Location:    vd.Location,
			Contact:     vd.Contact,
			Verified:    vd.Verified,
			Since:       vd.Since,
			Rating:      vd.Rating,
			Offerings:   make([]catalog.Offering, 0, len(vd.Offerings)),
		}
		for _, od := range vd.Offerings {
			o, err := od.offering(doc.Currency)
			if err != nil {
				return nil, fmt.Errorf("vendor %q offering %q: %w", vd.ID, od.ID, err)
			}
			if owner, dup := seenOffering[o.ID]; dup {
				return nil, fmt.Errorf("vendor %q offering %q: duplicate id, already used by vendor %q", vd.ID, o.ID, owner)
			}
			seenOffering[o.ID] = vd.ID
			v.Offerings = append(v.Offerings, o)
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}

func (od offeringDoc) offering(currency string) (catalog.Offering, error) {
	if od.ID == "" || od.Name == "" {
		return catalog.Offering{}, fmt.Errorf("id and name are required")
	}
	price, err := od.Price.money(currency)
	if err != nil {
		return catalog.Offering{}, fmt.Errorf("price: %w", err)
	}
	added, err := parseTime(od.DateAdded)
	if err != nil {
		return catalog.Offering{}, fmt.Errorf("date_added: %w", err)
	}

	o := catalog.Offering{
		ID:          od.ID,
		Name:        od.Name,
		Description: od.Description,
		Category:    od.Category,
		Subcategory: od.Subcategory,
		Tags:        od.Tags,
		Price:       price,
		DateAdded:   added,
		Rating:      od.Rating,
		Location:    od.Location,
		Brand:       od.Brand,
		Gender:      od.Gender,
		ImageURL:    od.ImageURL,
	}
	if od.OriginalPrice != nil {
		orig, err := od.OriginalPrice.money(price.Currency)
		if err != nil {
			return catalog.Offering{}, fmt.Errorf("original_price: %w", err)
		}
		o.OriginalPrice = &orig
	}
	if od.Stock != nil {
		o.Stock = &catalog.Stock{Available: od.Stock.Available, Total: od.Stock.Total}
	}
	if od.DealEndsAt != "" {
		ends, err := parseTime(od.DealEndsAt)
		if err != nil {
			return catalog.Offering{}, fmt.Errorf("deal_ends_at: %w", err)
		}
		o.DealEndsAt = &ends
	}
	for _, name := range od.Flags {
		flag, err := catalog.ParseFlag(name)
		if err != nil {
			return catalog.Offering{}, err
		}
		switch flag {
		case catalog.FlagNew:
			o.IsNew = true
		case catalog.FlagHotDeal:
			o.IsHotDeal = true
		case catalog.FlagTrending:
			o.IsTrending = true
		case catalog.FlagPopular:
			o.IsPopular = true
		}
	}
	return o, nil
}

func (m moneyDoc) money(fallbackCurrency string) (catalog.Money, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(m.Amount))
	if err != nil {
		return catalog.Money{}, err
	}
	if amount.IsNegative() {
		return catalog.Money{}, fmt.Errorf("negative amount %s", m.Amount)
	}
	currency := m.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	return catalog.Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
