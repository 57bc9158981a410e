package cupid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mohamine831/cupid-nuitee/internal/adapters/cupid"
)

func TestClient_GetProperty_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing API key header")
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"hotel_id": 123.0})
		}
	}))
	defer ts.Close()

	cl, err := cupid.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	got, err := cl.GetProperty(ctx, 123)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	id, ok := got["hotel_id"].(float64)
	if !ok || int(id) != 123 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetProperty_NonTransientNoRetry(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(400)
		_, _ = w.Write([]byte("bad hotel id"))
	}))
	defer ts.Close()

	cl, err := cupid.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err = cl.GetProperty(context.Background(), 1)
	var se *cupid.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != 400 || se.Body != "bad hotel id" {
		t.Fatalf("status error missing diagnostics: %+v", se)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", hits)
	}
}

func TestClient_GetTranslation_AbsentOn404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := cupid.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, err := cl.GetTranslation(context.Background(), 1, "fr")
	if err != nil {
		t.Fatalf("absent translation must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil payload for absent translation, got %+v", got)
	}
}

func TestClient_GetReviews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/property/reviews/7/5" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"average_score": 9.5, "name": "Ana"},
			{"average_score": 7.0, "name": "Luc"},
		})
	}))
	defer ts.Close()

	cl, err := cupid.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, err := cl.GetReviews(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0]["name"] != "Ana" {
		t.Fatalf("unexpected reviews: %+v", got)
	}
}

func TestClient_RequiresKey(t *testing.T) {
	if _, err := cupid.New("http://example.com", "", 5); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
