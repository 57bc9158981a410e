package app_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/mohamine831/cupid-nuitee/internal/domain"
)

/********** fake repository **********/

type fakeRepo struct {
	mu        sync.Mutex
	saved     map[int64]*domain.Property
	nextTrID  int64
	saveCalls int
	saveErr   error
	findErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: make(map[int64]*domain.Property)}
}

func (f *fakeRepo) FindByID(_ context.Context, hotelID int64) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.saved[hotelID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Save(_ context.Context, p *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	// mimic the store's upsert: new translation rows get identities
	for i := range p.Translations {
		if p.Translations[i].ID == 0 {
			f.nextTrID++
			p.Translations[i].ID = f.nextTrID
		}
	}
	cp := *p
	f.saved[p.HotelID] = &cp
	return nil
}

func (f *fakeRepo) FindTranslation(_ context.Context, hotelID int64, lang string) (*domain.PropertyTranslation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.saved[hotelID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, tr := range p.Translations {
		if tr.Lang == lang {
			cp := tr
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) ListAll(_ context.Context, page, size int) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Property
	for _, p := range f.saved {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) SearchByName(_ context.Context, name string) ([]domain.Property, error) {
	return nil, nil
}

func (f *fakeRepo) SearchByNameAndCity(_ context.Context, name, city string) ([]domain.Property, error) {
	return nil, nil
}

func (f *fakeRepo) ReviewsByHotel(_ context.Context, hotelID int64) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.saved[hotelID]; ok {
		return append([]domain.Review(nil), p.Reviews...), nil
	}
	return nil, nil
}

func (f *fakeRepo) TopReviewsByHotel(ctx context.Context, hotelID int64, limit int) ([]domain.Review, error) {
	return f.ReviewsByHotel(ctx, hotelID)
}

func (f *fakeRepo) RecentReviewsByHotel(ctx context.Context, hotelID int64, limit int) ([]domain.Review, error) {
	return f.ReviewsByHotel(ctx, hotelID)
}

func (f *fakeRepo) ReviewsByHotelPaged(ctx context.Context, hotelID int64, page, size int) ([]domain.Review, error) {
	return f.ReviewsByHotel(ctx, hotelID)
}

func (f *fakeRepo) TranslationsByHotel(_ context.Context, hotelID int64) ([]domain.PropertyTranslation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.saved[hotelID]; ok {
		return append([]domain.PropertyTranslation(nil), p.Translations...), nil
	}
	return nil, nil
}

func (f *fakeRepo) RecentTranslationsByHotel(ctx context.Context, hotelID int64) ([]domain.PropertyTranslation, error) {
	return f.TranslationsByHotel(ctx, hotelID)
}

/********** fake content client **********/

type fakeClient struct {
	mu           sync.Mutex
	property     map[int64]map[string]any
	propertyErr  map[int64]error
	translations map[string]map[string]any // "id:lang"
	reviews      map[int64][]map[string]any
	reviewsErr   map[int64]error
	trErr        map[string]error
	propCalls    int

	// optional rendezvous for concurrency tests: GetProperty signals
	// propEntered on first entry, then blocks until propGate closes.
	propGate    chan struct{}
	propEntered chan struct{}
	enterOnce   sync.Once
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		property:     make(map[int64]map[string]any),
		propertyErr:  make(map[int64]error),
		translations: make(map[string]map[string]any),
		reviews:      make(map[int64][]map[string]any),
		reviewsErr:   make(map[int64]error),
		trErr:        make(map[string]error),
	}
}

func trKey(id int64, lang string) string { return fmt.Sprintf("%d:%s", id, lang) }

func (f *fakeClient) GetProperty(_ context.Context, id int64) (map[string]any, error) {
	f.mu.Lock()
	f.propCalls++
	gate, entered := f.propGate, f.propEntered
	err := f.propertyErr[id]
	p, ok := f.property[id]
	f.mu.Unlock()

	if entered != nil {
		f.enterOnce.Do(func() { close(entered) })
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no fixture for hotel %d", id)
	}
	return p, nil
}

func (f *fakeClient) GetTranslation(_ context.Context, id int64, lang string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.trErr[trKey(id, lang)]; err != nil {
		return nil, err
	}
	return f.translations[trKey(id, lang)], nil // nil when absent
}

func (f *fakeClient) GetReviews(_ context.Context, id int64, count int) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reviewsErr[id]; err != nil {
		return nil, err
	}
	return f.reviews[id], nil
}

/********** spy cache store **********/

type spyStore struct {
	domain.CacheStore
	mu     sync.Mutex
	clears []string
}

func (s *spyStore) Clear(ctx context.Context, ns string) error {
	s.mu.Lock()
	s.clears = append(s.clears, ns)
	s.mu.Unlock()
	return s.CacheStore.Clear(ctx, ns)
}

func (s *spyStore) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clears)
}

/********** tiny helpers **********/

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
