package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/mohamine831/cupid-nuitee/internal/adapters/observability"
	"github.com/mohamine831/cupid-nuitee/internal/domain"
)

// DefaultLanguages are the translation languages fetched per ingestion.
var DefaultLanguages = []string{"fr", "es"}

// IngestionService drives one hotel's fetch → normalize → merge → persist →
// invalidate sequence. Concurrent ingestions of the same hotel id are
// collapsed into one flight so two fetches never race on the same merge
// target.
type IngestionService struct {
	client domain.ContentClient
	repo   domain.PropertyRepository
	cache  *Cache
	langs  []string
	flight singleflight.Group
	now    func() time.Time
}

func NewIngestionService(client domain.ContentClient, repo domain.PropertyRepository, cache *Cache, langs []string) *IngestionService {
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return &IngestionService{client: client, repo: repo, cache: cache, langs: langs, now: time.Now}
}

// FetchAndSave ingests one hotel. A property fetch or persistence failure is
// fatal and leaves the store and caches untouched; translation and review
// fetch failures are logged and skipped.
func (s *IngestionService) FetchAndSave(ctx context.Context, hotelID int64, reviewsToFetch int) error {
	_, err, shared := s.flight.Do(strconv.FormatInt(hotelID, 10), func() (any, error) {
		start := time.Now()
		ierr := s.ingest(ctx, hotelID, reviewsToFetch)
		observability.ObserveIngest(ierr == nil, time.Since(start))
		return nil, ierr
	})
	if shared {
		log.Debug().Int64("id", hotelID).Msg("joined in-flight ingestion")
	}
	return err
}

func (s *IngestionService) ingest(ctx context.Context, hotelID int64, reviewsToFetch int) error {
	now := s.now()

	data, err := s.client.GetProperty(ctx, hotelID)
	if err != nil {
		return fmt.Errorf("fetch property %d: %w", hotelID, err)
	}

	p := NormalizeProperty(data, now)
	if p.HotelID == 0 {
		p.HotelID = hotelID
	}

	var translations []domain.PropertyTranslation
	for _, lang := range s.langs {
		tnode, terr := s.client.GetTranslation(ctx, hotelID, lang)
		if terr != nil {
			log.Warn().Int64("id", hotelID).Str("lang", lang).Err(terr).Msg("translation fetch failed, skipping language")
			continue
		}
		if tnode == nil {
			log.Debug().Int64("id", hotelID).Str("lang", lang).Msg("no translation upstream")
			continue
		}
		translations = append(translations, NormalizeTranslation(p.HotelID, lang, tnode, now))
	}

	var reviews []domain.Review
	if rnodes, rerr := s.client.GetReviews(ctx, hotelID, reviewsToFetch); rerr != nil {
		log.Warn().Int64("id", hotelID).Err(rerr).Msg("review fetch failed, skipping reviews")
	} else {
		reviews = NormalizeReviews(p.HotelID, rnodes, now)
	}

	merged, err := Merge(ctx, s.repo, p, translations, reviews, now)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, merged); err != nil {
		return fmt.Errorf("save property %d: %w", hotelID, err)
	}

	// write-around invalidation, only after a committed write
	s.cache.ClearAll(ctx, AllNamespaces...)

	log.Info().
		Int64("id", merged.HotelID).
		Int("translations", len(merged.Translations)).
		Int("reviews", len(merged.Reviews)).
		Msg("hotel ingested")
	return nil
}

// ImportResult aggregates a batch run.
type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

func (r ImportResult) String() string {
	return fmt.Sprintf("Imported %d hotels, %d failed", r.Imported, r.Failed)
}

// ImportAll runs FetchAndSave for each id with bounded concurrency. One
// item's failure never aborts the batch.
func (s *IngestionService) ImportAll(ctx context.Context, ids []int64, reviewsToFetch, workers int) ImportResult {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var ok, failed atomic.Int64

	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			failed.Add(1)
			continue
		}
		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(1)
			if err := s.FetchAndSave(ctx, hotelID, reviewsToFetch); err != nil {
				log.Warn().Int64("id", hotelID).Err(err).Msg("ingest failed")
				failed.Add(1)
				return
			}
			ok.Add(1)
		}(id)
	}
	wg.Wait()

	res := ImportResult{Imported: int(ok.Load()), Failed: int(failed.Load())}
	log.Info().Int("imported", res.Imported).Int("failed", res.Failed).Msg("batch import finished")
	return res
}
