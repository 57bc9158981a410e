package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohamine831/cupid-nuitee/internal/domain"
)

// Merge reconciles a normalized graph against whatever is already stored
// under the same hotel id and returns the complete graph ready for one
// atomic write.
//
// Rules: CreatedAt is set only on first creation; every child collection is
// replaced wholesale by the newly normalized set; translations are the one
// exception — an existing (hotel, lang) row keeps its identity and gets its
// text and FetchedAt updated in place.
func Merge(ctx context.Context, repo domain.PropertyRepository, p *domain.Property,
	translations []domain.PropertyTranslation, reviews []domain.Review, now time.Time) (*domain.Property, error) {

	existing, err := repo.FindByID(ctx, p.HotelID)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		p.CreatedAt = now
	default:
		return nil, fmt.Errorf("load property %d: %w", p.HotelID, err)
	}

	p.Reviews = reviews
	for i := range p.Reviews {
		p.Reviews[i].HotelID = p.HotelID
	}

	p.Translations = p.Translations[:0]
	for _, tr := range translations {
		tr.HotelID = p.HotelID
		ex, err := repo.FindTranslation(ctx, p.HotelID, tr.Lang)
		switch {
		case err == nil:
			tr.ID = ex.ID
		case errors.Is(err, domain.ErrNotFound):
			// new language, new row
		default:
			return nil, fmt.Errorf("load translation %d/%s: %w", p.HotelID, tr.Lang, err)
		}
		p.Translations = append(p.Translations, tr)
	}
	return p, nil
}
