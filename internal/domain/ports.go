package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// PropertyRepository is the persistence gateway. Save commits the whole
// graph atomically: property upsert, child collections replaced wholesale,
// translations upserted per (hotel_id, lang).
type PropertyRepository interface {
	FindByID(ctx context.Context, hotelID int64) (*Property, error)
	Save(ctx context.Context, p *Property) error
	FindTranslation(ctx context.Context, hotelID int64, lang string) (*PropertyTranslation, error)

	ListAll(ctx context.Context, page, size int) ([]Property, error)
	SearchByName(ctx context.Context, name string) ([]Property, error)
	SearchByNameAndCity(ctx context.Context, name, city string) ([]Property, error)

	ReviewsByHotel(ctx context.Context, hotelID int64) ([]Review, error)
	TopReviewsByHotel(ctx context.Context, hotelID int64, limit int) ([]Review, error)
	RecentReviewsByHotel(ctx context.Context, hotelID int64, limit int) ([]Review, error)
	ReviewsByHotelPaged(ctx context.Context, hotelID int64, page, size int) ([]Review, error)

	TranslationsByHotel(ctx context.Context, hotelID int64) ([]PropertyTranslation, error)
	RecentTranslationsByHotel(ctx context.Context, hotelID int64) ([]PropertyTranslation, error)
}

// ContentClient reaches the upstream content provider. GetTranslation
// returns (nil, nil) when the upstream has no translation for the language.
type ContentClient interface {
	GetProperty(ctx context.Context, hotelID int64) (map[string]any, error)
	GetTranslation(ctx context.Context, hotelID int64, lang string) (map[string]any, error)
	GetReviews(ctx context.Context, hotelID int64, count int) ([]map[string]any, error)
}

// CacheStore is a namespaced key→value byte store. Clear drops a whole
// namespace; staleness is handled by write-time invalidation, not TTLs.
type CacheStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Set(ctx context.Context, namespace, key string, val []byte) error
	Del(ctx context.Context, namespace, key string) error
	Clear(ctx context.Context, namespace string) error
	Keys(ctx context.Context, namespace string) ([]string, error)
}
