package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/errx"
)

// CatalogSource loads verticals from the vendors and offerings tables.
type CatalogSource struct {
	Pool *pgxpool.Pool
}

func (s CatalogSource) Load(ctx context.Context, vertical catalog.Vertical) ([]catalog.Vendor, error) {
	rows, err := s.Pool.Query(ctx, `
        SELECT id, name, description, location, phone, email, website, verified, since, rating
        FROM vendors WHERE vertical = $1 ORDER BY position`, string(vertical))
	if err != nil {
		return nil, errx.WrapPg(err)
	}
	var vendors []catalog.Vendor
	index := map[string]int{}
	for rows.Next() {
		var v catalog.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Location,
			&v.Contact.Phone, &v.Contact.Email, &v.Contact.Website,
			&v.Verified, &v.Since, &v.Rating); err != nil {
			rows.Close()
			return nil, errx.WrapPg(err)
		}
		index[v.ID] = len(vendors)
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapPg(err)
	}

	rows, err = s.Pool.Query(ctx, `
        SELECT id, vendor_id, name, description, category, subcategory, tags,
               price, currency, original_price, date_added, rating,
               stock_available, stock_total, location, brand, gender,
               is_new, is_hot_deal, is_trending, is_popular, deal_ends_at, image_url
        FROM offerings WHERE vertical = $1 ORDER BY vendor_id, position`, string(vertical))
	if err != nil {
		return nil, errx.WrapPg(err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			o                catalog.Offering
			original         decimal.NullDecimal
			available, total *int
		)
		if err := rows.Scan(&o.ID, &o.VendorID, &o.Name, &o.Description, &o.Category, &o.Subcategory, &o.Tags,
			&o.Price.Amount, &o.Price.Currency, &original, &o.DateAdded, &o.Rating,
			&available, &total, &o.Location, &o.Brand, &o.Gender,
			&o.IsNew, &o.IsHotDeal, &o.IsTrending, &o.IsPopular, &o.DealEndsAt, &o.ImageURL); err != nil {
			return nil, errx.WrapPg(err)
		}
		if original.Valid {
			o.OriginalPrice = &catalog.Money{Amount: original.Decimal, Currency: o.Price.Currency}
		}
		if available != nil && total != nil {
			o.Stock = &catalog.Stock{Available: *available, Total: *total}
		}
		i, ok := index[o.VendorID]
		if !ok {
			continue
		}
		vendors[i].Offerings = append(vendors[i].Offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapPg(err)
	}
	return vendors, nil
}

// SaveVertical replaces every vendor of the vertical in one transaction.
func SaveVertical(ctx context.Context, pool *pgxpool.Pool, vertical catalog.Vertical, vendors []catalog.Vendor) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return errx.WrapPg(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM vendors WHERE vertical = $1`, string(vertical)); err != nil {
		return errx.WrapPg(err)
	}

	batch := &pgx.Batch{}
	for vi, v := range vendors {
		batch.Queue(`
            INSERT INTO vendors (vertical, id, position, name, description, location, phone, email, website, verified, since, rating)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			string(vertical), v.ID, vi, v.Name, v.Description, v.Location,
			v.Contact.Phone, v.Contact.Email, v.Contact.Website, v.Verified, v.Since, v.Rating)
		for oi, o := range v.Offerings {
			var original decimal.NullDecimal
			if o.OriginalPrice != nil {
				original = decimal.NewNullDecimal(o.OriginalPrice.Amount)
			}
			var available, total *int
			if o.Stock != nil {
				available, total = &o.Stock.Available, &o.Stock.Total
			}
			added := o.DateAdded
			if added.IsZero() {
				added = time.Now().UTC()
			}
			tags := o.Tags
			if tags == nil {
				tags = []string{}
			}
			batch.Queue(`
                INSERT INTO offerings (vertical, id, vendor_id, position, name, description, category, subcategory, tags,
                    price, currency, original_price, date_added, rating, stock_available, stock_total,
                    location, brand, gender, is_new, is_hot_deal, is_trending, is_popular, deal_ends_at, image_url)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
                    $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
				string(vertical), o.ID, v.ID, oi, o.Name, o.Description, o.Category, o.Subcategory, tags,
				o.Price.Amount, o.Price.Currency, original, added, o.Rating, available, total,
				o.Location, o.Brand, o.Gender, o.IsNew, o.IsHotDeal, o.IsTrending, o.IsPopular, o.DealEndsAt, o.ImageURL)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert %s catalog: %w", vertical, errx.WrapPg(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return errx.WrapPg(err)
	}
	return nil
}
