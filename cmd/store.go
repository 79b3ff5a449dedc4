package main

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/vc-data/internal/config"
	"github.com/sells-group/vc-data/internal/db"
	"github.com/sells-group/vc-data/internal/engine"
	"github.com/sells-group/vc-data/internal/resilience"
	"github.com/sells-group/vc-data/internal/service"
	"github.com/sells-group/vc-data/internal/store"
	"github.com/sells-group/vc-data/pkg/notion"
)

// openStore builds the configured record store backend.
func openStore(ctx context.Context, c config.StoreConfig) (store.RecordStore, error) {
	switch c.Driver {
	case "postgres":
		return store.NewPostgres(ctx, c.DatabaseURL, db.PoolConfig{MaxConns: c.MaxConns, MinConns: c.MinConns})
	case "sqlite":
		return store.NewSQLite(c.DatabaseURL)
	case "rest":
		return store.NewREST(c.REST.URL, c.REST.Key,
			store.WithPageSize(c.REST.PageSize),
			store.WithRequestRate(c.REST.RateLimit),
			store.WithOrder(strings.Split(c.REST.Order, ",")...),
		), nil
	case "file":
		return store.NewFile(c.FilePath), nil
	case "notion":
		client := notion.NewClient(c.Notion.Token, notion.WithRateLimit(c.Notion.RateLimit))
		return store.NewNotion(client, c.Notion.DatabaseID), nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Driver)
	}
}

// initService wires the store, lookup tables and service from cfg. The
// returned store must be closed by the caller.
func initService(ctx context.Context, mode string) (*service.Service, store.RecordStore, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, nil, err
	}

	inner, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, eris.Wrap(err, "open store")
	}

	var breaker *resilience.Breaker
	if cfg.Store.BreakerThreshold > 0 {
		breaker = resilience.NewBreaker(cfg.Store.Driver, cfg.Store.BreakerThreshold,
			time.Duration(cfg.Store.BreakerResetSecs)*time.Second)
	}
	st := store.NewGuarded(inner, store.GuardOptions{
		Backend:       cfg.Store.Driver,
		RetryAttempts: cfg.Store.RetryAttempts,
		Timeout:       time.Duration(cfg.Store.TimeoutSecs) * time.Second,
		Breaker:       breaker,
	})

	tables, err := engine.LoadTables(cfg.Tables.Path)
	if err != nil {
		_ = st.Close()
		return nil, nil, eris.Wrap(err, "load lookup tables")
	}

	svc := service.New(st, tables, service.Options{
		Table:            cfg.Store.Table,
		ServerSideFilter: cfg.Store.ServerSideFilter,
		MaxListed:        cfg.Format.MaxListed,
		ThesisTopN:       cfg.Format.ThesisTopN,
		SimilarLimit:     cfg.Similarity.DefaultLimit,
		Weights: engine.Weights{
			Stage:   cfg.Similarity.StageWeight,
			Type:    cfg.Similarity.TypeWeight,
			Country: cfg.Similarity.CountryWeight,
			Thesis:  cfg.Similarity.ThesisWeight,
		},
	})

	zap.L().Debug("service initialized",
		zap.String("driver", cfg.Store.Driver),
		zap.String("table", cfg.Store.Table),
		zap.Bool("server_side_filter", cfg.Store.ServerSideFilter),
	)
	return svc, st, nil
}
