package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sauna-offer-bot/internal/catalog"
	"sauna-offer-bot/internal/quotation"
)

const maxBodyBytes = 64 << 10

type Quoter interface {
	Quote(ctx context.Context, req quotation.Request) quotation.Result
}

// Server exposes the quotation engine over HTTP for the offer renderer.
type Server struct {
	quoter  Quoter
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

func NewServer(quoter Quoter, cat *catalog.Catalog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		quoter:  quoter,
		catalog: cat,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/quotes", s.handleQuote)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type furnaceView struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type catalogView struct {
	Lines    []string        `json:"lines"`
	Models   []catalog.Model `json:"models"`
	Furnaces []furnaceView   `json:"furnaces"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	view := catalogView{
		Lines:  s.catalog.Lines(),
		Models: s.catalog.Models(""),
	}
	for _, name := range s.catalog.Furnaces() {
		view.Furnaces = append(view.Furnaces, furnaceView{Name: name, Price: s.catalog.FurnacePrice(name)})
	}
	writeJSON(w, http.StatusOK, view)
}

type quoteResponse struct {
	quotation.Output
	OfferNumber string `json:"offer_number"`
	State       string `json:"state"`
}

// handleQuote only rejects malformed JSON; pricing problems are reported
// in the message field of a normal response.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quotation.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := s.quoter.Quote(r.Context(), req)

	writeJSON(w, http.StatusOK, quoteResponse{
		Output:      res.Output(),
		OfferNumber: quotation.OfferNumber(s.now()),
		State:       res.State.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
