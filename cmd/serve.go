package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-insights/internal/lead"
	"github.com/sells-group/lead-insights/internal/metrics"
	"github.com/sells-group/lead-insights/internal/model"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
	requestIDHeader = "X-Request-ID"
)

var servePort int

// leadServer holds the dataset and its pre-derived cards. cards[i] is the
// card for records[i]; both are read-only after construction.
type leadServer struct {
	deriver *lead.Deriver
	records []model.Record
	cards   []lead.Card
}

func newLeadServer(ctx context.Context, d *lead.Deriver, records []model.Record, concurrency int) (*leadServer, error) {
	cards, err := d.DeriveAll(ctx, records, len(records), concurrency)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		metrics.ObserveCard(string(cards[i].ValueProp.Source))
	}
	metrics.DatasetRecords.Set(float64(len(records)))
	return &leadServer{deriver: d, records: records, cards: cards}, nil
}

// muxOptions configures the HTTP middleware stack.
type muxOptions struct {
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lead cards over HTTP",
	Long:  "Loads the dataset once, derives every card and serves them with filters, stats and on-demand derivation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, records, err := prepare(ctx, "serve")
		if err != nil {
			return err
		}
		ls, err := newLeadServer(ctx, d, records, cfg.Batch.MaxConcurrent)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", port),
			Handler: buildMux(ls, muxOptions{
				RateLimit:      cfg.Server.RateLimit,
				RateBurst:      cfg.Server.RateBurst,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("records", len(records)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildMux wires routes and middleware.
func buildMux(ls *leadServer, opts muxOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/leads", ls.handleList)
		r.Get("/leads/{rank}", ls.handleGet)
		r.Post("/derive", ls.handleDerive)
		r.Get("/stats", ls.handleStats)
	})

	return r
}

type listResponse struct {
	Total   int         `json:"total"`
	Matched int         `json:"matched"`
	Leads   []lead.Card `json:"leads"`
}

func (s *leadServer) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := lead.Filter{Fit: q.Get("fit"), Industry: q.Get("industry"), Query: q.Get("q")}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	resp := listResponse{Total: len(s.records), Leads: []lead.Card{}}
	for i, rec := range s.records {
		if !f.Match(rec) {
			continue
		}
		resp.Matched++
		if limit == 0 || len(resp.Leads) < limit {
			resp.Leads = append(resp.Leads, s.cards[i])
		}
	}
	writeResponse(w, http.StatusOK, resp)
}

func (s *leadServer) handleGet(w http.ResponseWriter, r *http.Request) {
	rank, err := strconv.Atoi(chi.URLParam(r, "rank"))
	if err != nil || rank < 1 {
		writeError(w, http.StatusBadRequest, "rank must be a positive integer")
		return
	}
	for i := range s.cards {
		if s.cards[i].Rank == rank {
			writeResponse(w, http.StatusOK, s.cards[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("no lead with rank %d", rank))
}

func (s *leadServer) handleDerive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var rec model.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec == nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON object record")
		return
	}

	card := s.deriver.Derive(rec, len(s.records))
	metrics.ObserveCard(string(card.ValueProp.Source))
	writeResponse(w, http.StatusOK, card)
}

func (s *leadServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeResponse(w, http.StatusOK, buildStats(s.records))
}

// requestID tags every request and response with an X-Request-ID, reusing
// the caller's when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// observe logs and counts every request by its route pattern.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		metrics.ObserveRequest(route, r.Method, status, elapsed)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", w.Header().Get(requestIDHeader)),
		)
	})
}

// rateLimit rejects requests beyond the shared token bucket with 429.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				metrics.RateLimited.Inc()
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeResponse(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
