package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"goldcatalog/internal/model"
	"goldcatalog/internal/observability"
	"goldcatalog/internal/pricing"
	"goldcatalog/internal/quote"
)

type Handler struct {
	Items  []model.Item
	Quotes *quote.Store
	Logger *zap.Logger
	// FetchOnRequest makes /gold-price hit the feed on every call. When false
	// the cached quote is served and the feed is only hit while none exists.
	FetchOnRequest bool
	// QuoteTimeout bounds feed calls made while serving a request. Zero means
	// no bound beyond the request's own context.
	QuoteTimeout time.Duration
}

func NewHandler(items []model.Item, quotes *quote.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Items: items, Quotes: quotes, Logger: logger, FetchOnRequest: true}
}

// productResponse is a priced item as sent to clients, price rounded to cents.
type productResponse struct {
	model.Item
	Price float64 `json:"price"`
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	defer func() {
		observability.ProductRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	}()

	if r.Method != http.MethodGet {
		status = http.StatusMethodNotAllowed
		writeError(w, status, "Method not allowed")
		return
	}

	criteria, sortSpec, err := parseProductQuery(r.URL.Query())
	if err != nil {
		status = http.StatusBadRequest
		observability.FilterValidationErrors.Inc()
		var verr *pricing.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, status, errorResponse{Error: verr.Error(), Fields: verr.Fields})
			return
		}
		writeError(w, status, err.Error())
		return
	}

	rate, live := h.Quotes.Ensure(r.Context(), h.QuoteTimeout)
	if !live {
		h.Logger.Debug("pricing with fallback gold rate", zap.Float64("rate", rate))
	}

	result := pricing.Apply(pricing.PriceAll(h.Items, rate), criteria, sortSpec)

	out := make([]productResponse, 0, len(result))
	for _, p := range result {
		out = append(out, productResponse{Item: p.Item, Price: pricing.RoundUSD(p.Price)})
	}

	if live {
		w.Header().Set("X-Gold-Rate-Source", "live")
	} else {
		w.Header().Set("X-Gold-Rate-Source", "fallback")
	}
	writeJSON(w, status, out)
}

func (h *Handler) GoldPrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if !h.FetchOnRequest {
		if q, ok := h.Quotes.Current(); ok {
			writeJSON(w, http.StatusOK, q)
			return
		}
	}

	ctx := r.Context()
	if h.QuoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.QuoteTimeout)
		defer cancel()
	}

	q, err := h.Quotes.Refresh(ctx)
	if err != nil {
		var cerr *quote.ConfigError
		var uerr *quote.UpstreamError
		switch {
		case errors.As(err, &cerr):
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Missing %s env variable", cerr.Missing))
		case errors.As(err, &uerr):
			writeError(w, http.StatusInternalServerError, "Failed to fetch metal price")
		default:
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, q)
}

type healthResponse struct {
	Status string `json:"status"`
	Items  int    `json:"items"`
	Quote  bool   `json:"quote"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	_, ok := h.Quotes.Current()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Items: len(h.Items), Quote: ok})
}

// parseProductQuery reads filter and sort params. Popularity arrives on the
// display scale and leaves on the internal one; this is the only place the
// scales meet.
func parseProductQuery(q url.Values) (pricing.Criteria, pricing.SortSpec, error) {
	v := &pricing.ValidationError{}

	display := pricing.DisplayCriteria{
		MinPrice:      parseBound(v, q, "minPrice"),
		MaxPrice:      parseBound(v, q, "maxPrice"),
		MinPopularity: parseBound(v, q, "minPopularity"),
		MaxPopularity: parseBound(v, q, "maxPopularity"),
	}

	if err := display.Validate(); err != nil {
		var verr *pricing.ValidationError
		if errors.As(err, &verr) {
			v.Fields = append(v.Fields, verr.Fields...)
		}
	}

	sortSpec, err := pricing.ParseSort(q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		var verr *pricing.ValidationError
		if errors.As(err, &verr) {
			v.Fields = append(v.Fields, verr.Fields...)
		}
	}

	if err := v.Err(); err != nil {
		return pricing.Criteria{}, pricing.SortSpec{}, err
	}
	return display.Normalize(), sortSpec, nil
}

func parseBound(v *pricing.ValidationError, q url.Values, name string) *float64 {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v.Add(name, "must be a number")
		return nil
	}
	return &f
}
