package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mohamine831/cupid-nuitee/internal/app"
)

type Handlers struct {
	Q     *app.QueryService
	Ing   *app.IngestionService
	Cache *app.Cache

	// batch import defaults
	ReviewCount int
	Workers     int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(readTimeout))

		r.Get("/v1/hotels", h.listHotels)
		r.Get("/v1/hotels/search", h.searchHotels)
		r.Get("/v1/hotels/{id}", h.getHotel)
		r.Get("/v1/hotels/{id}/reviews", h.getReviews)
		r.Get("/v1/hotels/{id}/translations", h.getTranslations)

		r.Get("/v1/cache/status", h.cacheStatus)
		r.Post("/v1/cache/clear/{namespace}", h.cacheClear)
		r.Post("/v1/cache/clear", h.cacheClearAll)
	})

	// ingestion triggers run as long as the upstream needs
	s.mux.Post("/v1/hotels/import", h.importHotels)
	s.mux.Post("/v1/hotels/{id}/refresh", h.refreshHotel)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 20)
	if size <= 0 || size > 100 {
		writeProblem(w, http.StatusBadRequest, "Invalid size", "size must be between 1 and 100")
		return
	}
	writeJSON(w, http.StatusOK, h.Q.ListHotels(r.Context(), page, size))
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeProblem(w, http.StatusBadRequest, "Missing name", "name query parameter is required")
		return
	}
	city := r.URL.Query().Get("city")
	if city == "" {
		writeJSON(w, http.StatusOK, h.Q.SearchHotelsByName(r.Context(), name))
		return
	}
	writeJSON(w, http.StatusOK, h.Q.SearchHotels(r.Context(), name, city))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	p, ok := h.Q.GetHotelByID(r.Context(), id)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	q := r.URL.Query()
	switch {
	case q.Get("top") != "":
		writeJSON(w, http.StatusOK, h.Q.GetTopReviews(r.Context(), id, queryInt(r, "top", 10)))
	case q.Get("recent") != "":
		writeJSON(w, http.StatusOK, h.Q.GetRecentReviews(r.Context(), id, queryInt(r, "recent", 10)))
	case q.Get("page") != "" || q.Get("size") != "":
		writeJSON(w, http.StatusOK, h.Q.GetReviewsPaged(r.Context(), id, queryInt(r, "page", 0), queryInt(r, "size", 20)))
	default:
		writeJSON(w, http.StatusOK, h.Q.GetHotelReviews(r.Context(), id))
	}
}

func (h *Handlers) getTranslations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	q := r.URL.Query()
	switch {
	case q.Get("lang") != "":
		tr, ok := h.Q.GetTranslationByLang(r.Context(), id, q.Get("lang"))
		if !ok {
			writeProblem(w, http.StatusNotFound, "Not Found", "translation not found")
			return
		}
		writeJSON(w, http.StatusOK, tr)
	case q.Get("recent") != "":
		writeJSON(w, http.StatusOK, h.Q.GetRecentTranslations(r.Context(), id))
	default:
		writeJSON(w, http.StatusOK, h.Q.GetHotelTranslations(r.Context(), id))
	}
}

func (h *Handlers) importHotels(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil || len(ids) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected a non-empty JSON array of hotel ids")
		return
	}
	reviews := queryInt(r, "reviews", h.ReviewCount)
	res := h.Ing.ImportAll(r.Context(), ids, reviews, h.Workers)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  res.String(),
		"imported": res.Imported,
		"failed":   res.Failed,
	})
}

func (h *Handlers) refreshHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	reviews := queryInt(r, "reviews", h.ReviewCount)
	if err := h.Ing.FetchAndSave(r.Context(), id, reviews); err != nil {
		writeProblem(w, http.StatusBadGateway, "Refresh failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "refreshed"})
}

func (h *Handlers) cacheStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Cache.Status(r.Context()))
}

func (h *Handlers) cacheClear(w http.ResponseWriter, r *http.Request) {
	ns := chi.URLParam(r, "namespace")
	known := false
	for _, n := range app.AllNamespaces {
		if n == ns {
			known = true
			break
		}
	}
	if !known {
		writeProblem(w, http.StatusBadRequest, "Unknown namespace", "namespace must be one of properties, hotels, reviews, translations")
		return
	}
	h.Cache.Clear(r.Context(), ns)
	writeJSON(w, http.StatusOK, map[string]string{"message": "cleared " + ns})
}

func (h *Handlers) cacheClearAll(w http.ResponseWriter, r *http.Request) {
	h.Cache.ClearAll(r.Context(), app.AllNamespaces...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "cleared all caches"})
}
