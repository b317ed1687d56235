package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ledgersynth/internal/dataprocessing"
	apierrors "ledgersynth/internal/errors"
	"ledgersynth/internal/exporter"
	"ledgersynth/internal/generator"
	appmw "ledgersynth/internal/middleware"
	api "ledgersynth/pkg/contracts/api/v1"
	"ledgersynth/pkg/contracts/domain"
)

// LedgerServiceInterface is the part of services.LedgerService the handler uses
type LedgerServiceInterface interface {
	Generate(ctx context.Context, seed int64, rows int) (*generator.Table, error)
	Summarize(ctx context.Context, rows []domain.Transaction) *dataprocessing.Summary
	BuildLite(ctx context.Context, rows []domain.Transaction, negatives int, seed int64) ([]domain.Transaction, error)
	EncodeFeatures(ctx context.Context, rows []domain.Transaction) (*dataprocessing.FeatureSet, error)
}

// LedgerHandlerConfig holds the query defaults and bounds
type LedgerHandlerConfig struct {
	DefaultSeed      int64
	DefaultRows      int
	MaxRows          int
	DefaultNegatives int
	LiteSeed         int64
}

// LedgerHandler serves generated ledgers. Nothing is persisted: every
// response is recomputed from the (seed, rows) in the query.
type LedgerHandler struct {
	service      LedgerServiceInterface
	cfg          LedgerHandlerConfig
	params       *appmw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewLedgerHandler creates a new ledger handler with RFC 7807 error handling
func NewLedgerHandler(service LedgerServiceInterface, cfg LedgerHandlerConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *LedgerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 200000
	}
	if cfg.DefaultRows <= 0 || cfg.DefaultRows > cfg.MaxRows {
		cfg.DefaultRows = min(5000, cfg.MaxRows)
	}

	return &LedgerHandler{
		service:      service,
		cfg:          cfg,
		params:       appmw.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "ledger_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the ledger routes
func (h *LedgerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetLedger)
	r.Get("/csv", h.GetLedgerCSV)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/summary", h.GetSummary)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/lite", h.GetLite)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/features", h.GetFeatures)

	return r
}

// parseLedgerQuery reads seed, rows and limit. limit must be at least 1;
// values above the table size return every row. It answers the request and
// returns false when a parameter is invalid.
func (h *LedgerHandler) parseLedgerQuery(w http.ResponseWriter, r *http.Request) (api.LedgerQuery, bool) {
	var q api.LedgerQuery
	var ok bool

	if q.Seed, ok = h.params.ValidateInt64(w, r, api.ParamSeed, h.cfg.DefaultSeed); !ok {
		return q, false
	}
	if q.Rows, ok = h.params.ValidateInt(w, r, api.ParamRows, 1, h.cfg.MaxRows, h.cfg.DefaultRows); !ok {
		return q, false
	}
	if q.Limit, ok = h.params.ValidateInt(w, r, api.ParamLimit, 1, h.cfg.MaxRows, api.DefaultLimit); !ok {
		return q, false
	}
	return q, true
}

func (h *LedgerHandler) generate(w http.ResponseWriter, r *http.Request, q api.LedgerQuery) (*generator.Table, bool) {
	table, err := h.service.Generate(r.Context(), q.Seed, q.Rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return table, true
}

// GetLedger handles GET /api/ledger. format=csv answers like /csv.
func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseLedgerQuery(w, r)
	if !ok {
		return
	}

	format, ok := h.params.ValidateEnum(w, r, api.ParamFormat, []string{api.FormatJSON, api.FormatCSV}, api.FormatJSON)
	if !ok {
		return
	}

	table, ok := h.generate(w, r, q)
	if !ok {
		return
	}

	if format == api.FormatCSV {
		h.writeCSV(w, r, table)
		return
	}

	data := table.Head(q.Limit)
	h.logger.InfoContext(r.Context(), "ledger served",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int64("seed", q.Seed),
		slog.Int("rows", q.Rows),
		slog.Int("returned", len(data)))

	render.JSON(w, r, api.LedgerResponse{
		Seed:      q.Seed,
		Rows:      table.Len(),
		FraudRows: table.FraudCount(),
		Returned:  len(data),
		Injected:  table.InjectedByName(),
		Data:      data,
	})
}

// GetLedgerCSV handles GET /api/ledger/csv
func (h *LedgerHandler) GetLedgerCSV(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseLedgerQuery(w, r)
	if !ok {
		return
	}

	table, ok := h.generate(w, r, q)
	if !ok {
		return
	}

	h.writeCSV(w, r, table)
}

func (h *LedgerHandler) writeCSV(w http.ResponseWriter, r *http.Request, table *generator.Table) {
	data, err := exporter.MarshalLedger(table.Rows())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bank_transactions.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Ledger-Digest", exporter.Digest(data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "ledger csv write interrupted",
			slog.String("error", err.Error()))
	}
}

// GetSummary handles GET /api/ledger/summary
func (h *LedgerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseLedgerQuery(w, r)
	if !ok {
		return
	}

	table, ok := h.generate(w, r, q)
	if !ok {
		return
	}

	render.JSON(w, r, h.service.Summarize(r.Context(), table.Rows()))
}

// GetLite handles GET /api/ledger/lite
func (h *LedgerHandler) GetLite(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseLedgerQuery(w, r)
	if !ok {
		return
	}

	negatives, ok := h.params.ValidateInt(w, r, api.ParamNegatives, 0, h.cfg.MaxRows, h.cfg.DefaultNegatives)
	if !ok {
		return
	}

	table, ok := h.generate(w, r, q)
	if !ok {
		return
	}

	lite, err := h.service.BuildLite(r.Context(), table.Rows(), negatives, h.cfg.LiteSeed)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	fraud := 0
	for _, tx := range lite {
		if tx.IsFraud {
			fraud++
		}
	}

	data := lite
	if q.Limit < len(data) {
		data = data[:q.Limit]
	}

	render.JSON(w, r, api.LiteResponse{
		Seed:       q.Seed,
		SourceRows: table.Len(),
		Negatives:  negatives,
		Rows:       len(lite),
		FraudRows:  fraud,
		Returned:   len(data),
		Data:       data,
	})
}

// GetFeatures handles GET /api/ledger/features
func (h *LedgerHandler) GetFeatures(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseLedgerQuery(w, r)
	if !ok {
		return
	}

	table, ok := h.generate(w, r, q)
	if !ok {
		return
	}

	fs, err := h.service.EncodeFeatures(r.Context(), table.Rows())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	n := min(q.Limit, len(fs.X))
	classes := make(map[string][]string, len(fs.Encoders))
	for col, enc := range fs.Encoders {
		classes[col] = enc.Classes
	}

	render.JSON(w, r, api.FeaturesResponse{
		Seed:     q.Seed,
		Rows:     len(fs.X),
		Columns:  fs.Columns,
		Classes:  classes,
		Returned: n,
		X:        fs.X[:n],
		Labels:   fs.Labels[:n],
	})
}
