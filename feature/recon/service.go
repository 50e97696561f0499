package recon

import (
	"context"

	"github.com/byehanchoi-cmyk/io-xl-web/core/document"
	"github.com/byehanchoi-cmyk/io-xl-web/core/storage"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/commit"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/match"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/review"

	"go.uber.org/zap"
)

// Service orchestrates the reconciliation pipeline: parse both documents,
// match, merge on reviewer edits, and commit approved corrections back.
type Service struct {
	store  storage.Store
	logger *zap.Logger
	ids    models.IDSource
	engine *commit.Engine
}

// NewService creates a reconciliation service. The IDSource seeds synthetic
// identities for manually inserted rows and is injected so tests stay
// deterministic.
func NewService(store storage.Store, logger *zap.Logger, ids models.IDSource) *Service {
	return &Service{
		store:  store,
		logger: logger,
		ids:    ids,
		engine: commit.NewEngine(store, logger),
	}
}

// MatchResult is one complete reconciliation generation plus its summary.
type MatchResult struct {
	Rows    []*models.UnifiedRow `json:"rows"`
	Summary *match.Summary       `json:"summary"`
}

// Match loads both documents, runs the matching algorithm and aggregates
// the summary. Every call produces a complete new generation.
func (s *Service) Match(ctx context.Context, refPath, compPath string, refOpts, compOpts document.Options, cfg *models.Config) (*MatchResult, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	refTable, err := s.load(ctx, refPath, refOpts)
	if err != nil {
		return nil, err
	}
	compTable, err := s.load(ctx, compPath, compOpts)
	if err != nil {
		return nil, err
	}

	rows, err := match.Run(cfg, refTable.Rows, compTable.Rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("matching complete",
		zap.Int("ref_rows", len(refTable.Rows)),
		zap.Int("comp_rows", len(compTable.Rows)),
		zap.Int("unified_rows", len(rows)))

	return &MatchResult{Rows: rows, Summary: match.Summarize(rows, cfg)}, nil
}

// Merge applies the review compensation merge to a generation and returns
// the next generation with a fresh summary. Annotations are migrated in
// place.
func (s *Service) Merge(rows []*models.UnifiedRow, ann review.Annotations, cfg *models.Config) ([]*models.UnifiedRow, *match.Summary, error) {
	if err := validate(cfg); err != nil {
		return nil, nil, err
	}
	merged := review.NewMerger(cfg).Apply(rows, ann)
	s.logger.Info("review merge complete",
		zap.Int("rows_in", len(rows)),
		zap.Int("rows_out", len(merged)))
	return merged, match.Summarize(merged, cfg), nil
}

// Commit writes reviewed changes back into both original documents. The two
// sides run independently; each Result carries its own report or fatal
// error.
func (s *Service) Commit(ctx context.Context, refPath, compPath string, rows []*models.UnifiedRow, cfg *models.Config, opts commit.Options) (commit.Result, commit.Result, error) {
	if err := validate(cfg); err != nil {
		return commit.Result{}, commit.Result{}, err
	}
	ref, comp := s.engine.CommitPair(ctx, refPath, compPath, rows, cfg, opts)
	return ref, comp, nil
}

// NewManualRow creates a reviewer-inserted row with a synthetic identity
// and an add marker, ready to be appended to the current generation.
func (s *Service) NewManualRow(cfg *models.Config) *models.UnifiedRow {
	key := s.ids.Next()
	row := &models.UnifiedRow{
		IntegratedKey:    key,
		Status:           models.StatusOnlyRef,
		StandardIdentity: key,
		Mark:             models.MarkAdd,
	}
	for _, m := range match.EffectiveMappings(cfg.Mappings, cfg.ColumnExclusion) {
		row.Fields = append(row.Fields, &models.Field{Base: m.RefColumn})
	}
	return row
}

func (s *Service) load(ctx context.Context, path string, opts document.Options) (*document.Table, error) {
	data, err := s.store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return document.Parse(data, opts)
}

// validate rejects unusable configurations before any document is touched.
func validate(cfg *models.Config) error {
	if cfg == nil {
		return &models.ValidationError{Msg: "missing configuration"}
	}
	if len(cfg.Mappings) == 0 {
		return &models.ValidationError{Msg: "no column mappings configured"}
	}
	if cfg.PrimaryMapping() == nil {
		return &models.ValidationError{Msg: "no identity column selected"}
	}
	return nil
}
