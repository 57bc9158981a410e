package app

import (
	"context"
	"strings"

	"github.com/mohamine831/cupid-nuitee/internal/domain"
)

// QueryService serves reads through the cache layer. Repository failures on
// a cache miss degrade to empty results instead of propagating; the caches
// are repopulated on the next successful load.
type QueryService struct {
	repo  domain.PropertyRepository
	cache *Cache
}

func NewQueryService(repo domain.PropertyRepository, cache *Cache) *QueryService {
	return &QueryService{repo: repo, cache: cache}
}

func (s *QueryService) GetHotelByID(ctx context.Context, hotelID int64) (*domain.Property, bool) {
	return GetOrLoad(ctx, s.cache, NSProperties, KeyHotel(hotelID),
		func(ctx context.Context) (*domain.Property, error) {
			return s.repo.FindByID(ctx, hotelID)
		})
}

func (s *QueryService) ListHotels(ctx context.Context, page, size int) []domain.Property {
	v, _ := GetOrLoad(ctx, s.cache, NSHotels, KeyPage(page, size),
		func(ctx context.Context) ([]domain.Property, error) {
			return nonNil(s.repo.ListAll(ctx, page, size))
		})
	return v
}

// SearchHotels filters by name, and by city when one is given. An empty city
// is a distinct cache key from a present one.
func (s *QueryService) SearchHotels(ctx context.Context, name, city string) []domain.Property {
	v, _ := GetOrLoad(ctx, s.cache, NSProperties, KeySearch(name, city),
		func(ctx context.Context) ([]domain.Property, error) {
			if strings.TrimSpace(city) == "" {
				return nonNil(s.repo.SearchByName(ctx, name))
			}
			return nonNil(s.repo.SearchByNameAndCity(ctx, name, city))
		})
	return v
}

func (s *QueryService) SearchHotelsByName(ctx context.Context, name string) []domain.Property {
	v, _ := GetOrLoad(ctx, s.cache, NSProperties, KeySearchName(name),
		func(ctx context.Context) ([]domain.Property, error) {
			return nonNil(s.repo.SearchByName(ctx, name))
		})
	return v
}

func (s *QueryService) GetHotelReviews(ctx context.Context, hotelID int64) []domain.Review {
	v, _ := GetOrLoad(ctx, s.cache, NSReviews, KeyHotel(hotelID),
		func(ctx context.Context) ([]domain.Review, error) {
			return nonNil(s.repo.ReviewsByHotel(ctx, hotelID))
		})
	return v
}

func (s *QueryService) GetTopReviews(ctx context.Context, hotelID int64, limit int) []domain.Review {
	v, _ := GetOrLoad(ctx, s.cache, NSReviews, KeyHotelTop(hotelID, limit),
		func(ctx context.Context) ([]domain.Review, error) {
			return nonNil(s.repo.TopReviewsByHotel(ctx, hotelID, limit))
		})
	return v
}

func (s *QueryService) GetRecentReviews(ctx context.Context, hotelID int64, limit int) []domain.Review {
	v, _ := GetOrLoad(ctx, s.cache, NSReviews, KeyHotelRecent(hotelID, limit),
		func(ctx context.Context) ([]domain.Review, error) {
			return nonNil(s.repo.RecentReviewsByHotel(ctx, hotelID, limit))
		})
	return v
}

func (s *QueryService) GetReviewsPaged(ctx context.Context, hotelID int64, page, size int) []domain.Review {
	v, _ := GetOrLoad(ctx, s.cache, NSReviews, KeyHotelPage(hotelID, page, size),
		func(ctx context.Context) ([]domain.Review, error) {
			return nonNil(s.repo.ReviewsByHotelPaged(ctx, hotelID, page, size))
		})
	return v
}

func (s *QueryService) GetHotelTranslations(ctx context.Context, hotelID int64) []domain.PropertyTranslation {
	v, _ := GetOrLoad(ctx, s.cache, NSTranslations, KeyHotel(hotelID),
		func(ctx context.Context) ([]domain.PropertyTranslation, error) {
			return nonNil(s.repo.TranslationsByHotel(ctx, hotelID))
		})
	return v
}

func (s *QueryService) GetTranslationByLang(ctx context.Context, hotelID int64, lang string) (*domain.PropertyTranslation, bool) {
	return GetOrLoad(ctx, s.cache, NSTranslations, KeyHotelLang(hotelID, lang),
		func(ctx context.Context) (*domain.PropertyTranslation, error) {
			return s.repo.FindTranslation(ctx, hotelID, lang)
		})
}

func (s *QueryService) GetRecentTranslations(ctx context.Context, hotelID int64) []domain.PropertyTranslation {
	v, _ := GetOrLoad(ctx, s.cache, NSTranslations, KeyHotelRecentTr(hotelID),
		func(ctx context.Context) ([]domain.PropertyTranslation, error) {
			return nonNil(s.repo.RecentTranslationsByHotel(ctx, hotelID))
		})
	return v
}

// nonNil keeps empty result sets cacheable: GetOrLoad never stores nil.
func nonNil[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
