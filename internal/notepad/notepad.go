// Package notepad keeps the per-page notes a visitor jots down while browsing
// the catalog, and exports them as a PDF.
package notepad

import (
	"context"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/bazaar/internal/errx"
)

const maxTextLen = 2000

var pageKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Entry is one note. Amount is optional.
type Entry struct {
	ID        string              `json:"id"`
	Text      string              `json:"text"`
	Amount    decimal.NullDecimal `json:"amount"`
	CreatedAt time.Time           `json:"created_at"`
}

// Repository stores the whole entry list of a page under one key.
type Repository interface {
	List(ctx context.Context, page string) ([]Entry, error)
	// Update loads the list, applies fn and stores the result atomically.
	// An empty result removes the page.
	Update(ctx context.Context, page string, fn func([]Entry) ([]Entry, error)) error
}

func key(page string) string {
	return "notepad:" + page
}

// PageKey validates and normalizes a page name taken from a URL.
func PageKey(raw string) (string, error) {
	page := strings.ToLower(strings.Trim(strings.TrimSpace(raw), "/"))
	if !pageKeyPattern.MatchString(page) {
		return "", errx.BadRequest("invalid page")
	}
	return page, nil
}

// Service implements the notepad operations over a Repository.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context, page string) ([]Entry, error) {
	return s.repo.List(ctx, page)
}

func (s *Service) Add(ctx context.Context, page, text string, amount decimal.NullDecimal) (Entry, error) {
	text, err := cleanText(text)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{ID: s.newID(), Text: text, Amount: amount, CreatedAt: s.now().UTC()}
	err = s.repo.Update(ctx, page, func(entries []Entry) ([]Entry, error) {
		return append(entries, e), nil
	})
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Edit replaces the text and amount of an entry.
func (s *Service) Edit(ctx context.Context, page, id, text string, amount decimal.NullDecimal) (Entry, error) {
	text, err := cleanText(text)
	if err != nil {
		return Entry{}, err
	}
	var updated Entry
	err = s.repo.Update(ctx, page, func(entries []Entry) ([]Entry, error) {
		i := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
		if i < 0 {
			return nil, errx.NotFound("note not found")
		}
		entries[i].Text = text
		entries[i].Amount = amount
		updated = entries[i]
		return entries, nil
	})
	if err != nil {
		return Entry{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, page, id string) error {
	return s.repo.Update(ctx, page, func(entries []Entry) ([]Entry, error) {
		i := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
		if i < 0 {
			return nil, errx.NotFound("note not found")
		}
		return slices.Delete(entries, i, i+1), nil
	})
}

func (s *Service) Clear(ctx context.Context, page string) error {
	return s.repo.Update(ctx, page, func([]Entry) ([]Entry, error) {
		return nil, nil
	})
}

// Total sums the amounts of the entries that have one.
func Total(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Amount.Valid {
			total = total.Add(e.Amount.Decimal)
		}
	}
	return total
}

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return "", errx.BadRequest("text is required")
	case len(text) > maxTextLen:
		return "", errx.New(nil, http.StatusRequestEntityTooLarge, "text is too long")
	}
	return text, nil
}
