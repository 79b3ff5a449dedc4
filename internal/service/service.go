// Package service implements the named investor tools: each call fetches a
// fresh snapshot from the record store, runs the engine, and renders text.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/vc-data/internal/engine"
	"github.com/sells-group/vc-data/internal/format"
	"github.com/sells-group/vc-data/internal/location"
	"github.com/sells-group/vc-data/internal/model"
	"github.com/sells-group/vc-data/internal/monitoring"
	"github.com/sells-group/vc-data/internal/store"
)

// NoData is returned by record-listing and analytics tools when the store
// holds no rows.
const NoData = "No investor data found."

// Options tunes the service. Zero values fall back to the defaults.
type Options struct {
	Table            string
	ServerSideFilter bool
	MaxListed        int
	ThesisTopN       int
	SimilarLimit     int
	Weights          engine.Weights
}

// Service runs tool calls against a record store. It holds no per-request
// state; concurrent calls are independent.
type Service struct {
	store   store.RecordStore
	tables  engine.Tables
	matcher *location.Matcher
	opts    Options
}

// New returns a Service over st using the given lookup tables.
func New(st store.RecordStore, tables engine.Tables, opts Options) *Service {
	if opts.Table == "" {
		opts.Table = "dec-2024"
	}
	if opts.MaxListed <= 0 {
		opts.MaxListed = format.DefaultMaxListed
	}
	if opts.ThesisTopN <= 0 {
		opts.ThesisTopN = 15
	}
	if opts.SimilarLimit <= 0 {
		opts.SimilarLimit = 10
	}
	if opts.Weights == (engine.Weights{}) {
		opts.Weights = engine.DefaultWeights()
	}
	return &Service{
		store:   st,
		tables:  tables,
		matcher: tables.Matcher(),
		opts:    opts,
	}
}

// call wraps a tool body with logging, metrics and the uniform error text.
// action completes "An error occurred while ...".
func (s *Service) call(ctx context.Context, tool, action string, fn func(ctx context.Context, log *zap.Logger) (string, error)) (string, error) {
	started := time.Now()
	log := zap.L().With(zap.String("tool", tool), zap.String("request_id", uuid.NewString()))

	out, err := fn(ctx, log)
	switch {
	case err == nil:
		monitoring.ObserveTool(tool, monitoring.OutcomeOK, started)
		log.Debug("tool call complete", zap.Duration("duration", time.Since(started)))
		return out, nil
	case errors.Is(err, context.Canceled):
		monitoring.ObserveTool(tool, monitoring.OutcomeError, started)
		return "", err
	default:
		monitoring.ObserveTool(tool, monitoring.OutcomeError, started)
		if store.IsFetchError(err) {
			monitoring.StoreFetchErrors.WithLabelValues(tool).Inc()
		}
		log.Error("tool call failed", zap.Error(err), zap.Duration("duration", time.Since(started)))
		return format.Error(action, err), nil
	}
}

// records fetches and normalizes a snapshot under the caller's context. A
// non-empty predicate is pushed down only when server-side filtering is
// enabled; callers always re-filter.
func (s *Service) records(ctx context.Context, log *zap.Logger, p store.Predicate) ([]model.InvestorRecord, error) {
	if !s.opts.ServerSideFilter {
		p = nil
	}

	var rows []map[string]string
	var err error
	if len(p) == 0 {
		rows, err = s.store.FetchAll(ctx, s.opts.Table)
	} else {
		rows, err = s.store.FetchFiltered(ctx, s.opts.Table, p)
	}
	if err != nil {
		return nil, err
	}

	recs := model.NormalizeAll(rows)
	monitoring.SnapshotRecords.Set(float64(len(recs)))
	log.Info("snapshot fetched",
		zap.Int("records", len(recs)),
		zap.Bool("pushdown", len(p) > 0),
	)
	return recs, nil
}

// GetInvestorData lists investor records. limit <= 0 returns all records.
func (s *Service) GetInvestorData(ctx context.Context, limit int) (string, error) {
	return s.call(ctx, "get_investor_data", "fetching investor data", func(ctx context.Context, log *zap.Logger) (string, error) {
		recs, err := s.records(ctx, log, nil)
		if err != nil {
			return "", err
		}
		if limit > 0 && len(recs) > limit {
			recs = recs[:limit]
		}
		return format.InvestorData(recs, s.opts.MaxListed), nil
	})
}

// SearchInvestors filters records by type, stage, country, HQ and cheque
// bounds.
func (s *Service) SearchInvestors(ctx context.Context, c engine.Criteria) (string, error) {
	return s.call(ctx, "search_investors_by_criteria", "searching investors", func(ctx context.Context, log *zap.Logger) (string, error) {
		return s.search(ctx, log, c)
	})
}

// FindByChequeSize filters records whose first cheque range overlaps the
// given bounds. Either bound may be blank.
func (s *Service) FindByChequeSize(ctx context.Context, minAmount, maxAmount string, limit int) (string, error) {
	c := engine.Criteria{MinCheque: minAmount, MaxCheque: maxAmount, Limit: limit}
	return s.call(ctx, "find_investors_by_cheque_size", "searching by cheque size", func(ctx context.Context, log *zap.Logger) (string, error) {
		return s.search(ctx, log, c)
	})
}

func (s *Service) search(ctx context.Context, log *zap.Logger, c engine.Criteria) (string, error) {
	p := store.Predicate(c.Pushdown(s.tables))
	recs, err := s.records(ctx, log, p)
	if err != nil {
		return "", err
	}
	// An empty pushed-down result only means nothing matched.
	if len(recs) == 0 && !(s.opts.ServerSideFilter && len(p) > 0) {
		return NoData, nil
	}

	bounds := c.ParseBounds()
	for _, raw := range bounds.Ignored {
		log.Warn("ignoring unparseable cheque bound", zap.String("bound", raw))
	}

	matched := engine.Filter(recs, c, s.tables)
	log.Debug("filter applied", zap.String("criteria", c.Describe()), zap.Int("matched", len(matched)))
	return format.Search(c, bounds, matched, s.opts.MaxListed), nil
}

// FindSimilar ranks investors by similarity to the named investor.
// limit <= 0 uses the configured default.
func (s *Service) FindSimilar(ctx context.Context, name string, limit int) (string, error) {
	return s.call(ctx, "find_similar_investors", "finding similar investors", func(ctx context.Context, log *zap.Logger) (string, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return format.NotFound(name), nil
		}
		if limit <= 0 {
			limit = s.opts.SimilarLimit
		}

		recs, err := s.records(ctx, log, nil)
		if err != nil {
			return "", err
		}

		res, err := engine.FindSimilar(name, recs, limit, s.opts.Weights, s.tables, s.matcher)
		if errors.Is(err, engine.ErrNotFound) {
			return format.NotFound(name), nil
		}
		if err != nil {
			return "", err
		}
		if res.Duplicates > 0 {
			log.Debug("seed name is not unique", zap.String("seed", name), zap.Int("duplicates", res.Duplicates))
		}
		return format.Similar(name, res, s.opts.MaxListed), nil
	})
}

// AnalyzeStages renders the stage distribution.
func (s *Service) AnalyzeStages(ctx context.Context) (string, error) {
	return s.analytics(ctx, "analyze_investment_stages", "analyzing investment stages", func(recs []model.InvestorRecord) string {
		return format.StageDistribution(engine.AnalyzeStages(recs))
	})
}

// AnalyzeThesis renders thesis keyword and theme frequencies.
func (s *Service) AnalyzeThesis(ctx context.Context) (string, error) {
	return s.analytics(ctx, "analyze_investment_thesis", "analyzing investment thesis", func(recs []model.InvestorRecord) string {
		return format.Thesis(engine.AnalyzeThesis(recs, s.tables, s.opts.ThesisTopN))
	})
}

// Statistics renders dataset-wide statistics.
func (s *Service) Statistics(ctx context.Context) (string, error) {
	return s.analytics(ctx, "get_investor_statistics", "getting statistics", func(recs []model.InvestorRecord) string {
		return format.Stats(engine.Statistics(recs, s.matcher))
	})
}

func (s *Service) analytics(ctx context.Context, tool, action string, render func([]model.InvestorRecord) string) (string, error) {
	return s.call(ctx, tool, action, func(ctx context.Context, log *zap.Logger) (string, error) {
		recs, err := s.records(ctx, log, nil)
		if err != nil {
			return "", err
		}
		if len(recs) == 0 {
			return NoData, nil
		}
		return render(recs), nil
	})
}

// InvestorTypes lists the distinct investor types.
func (s *Service) InvestorTypes(ctx context.Context) (string, error) {
	return s.analytics(ctx, "get_available_investor_types", "fetching investor types", func(recs []model.InvestorRecord) string {
		return format.DistinctList("investor types", engine.InvestorTypes(recs))
	})
}

// Countries lists the distinct countries of investment.
func (s *Service) Countries(ctx context.Context) (string, error) {
	return s.analytics(ctx, "get_available_countries", "fetching countries", func(recs []model.InvestorRecord) string {
		return format.DistinctList("countries", engine.Countries(recs))
	})
}

// LocationGuide returns the static location search guide.
func (s *Service) LocationGuide() string { return format.LocationGuide() }

// ReferenceGuide returns the static dataset reference.
func (s *Service) ReferenceGuide() string { return format.ReferenceGuide() }

// AnalysisPrompt returns the analysis prompt template filled with data.
func (s *Service) AnalysisPrompt(data string) string { return format.AnalysisPrompt(data) }
