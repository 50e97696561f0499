package recon

import (
	"errors"

	"github.com/byehanchoi-cmyk/io-xl-web/core/document"
	"github.com/byehanchoi-cmyk/io-xl-web/core/logger"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/commit"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/review"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the reconciliation feature.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/recon")
	group.Post("/match", h.HandleMatch)
	group.Post("/merge", h.HandleMerge)
	group.Post("/commit", h.HandleCommit)
	group.Post("/rows", h.HandleNewRow)
}

// SheetSelection picks the sheet and header row of one input document.
type SheetSelection struct {
	Sheet      string `json:"sheet"`
	SheetIndex int    `json:"sheetIndex"`
	HeaderRow  int    `json:"headerRow"`
}

func (s SheetSelection) options() document.Options {
	return document.Options{Sheet: s.Sheet, SheetIndex: s.SheetIndex, HeaderRow: s.HeaderRow}
}

// MatchRequest is the payload for POST /recon/match.
type MatchRequest struct {
	RefPath  string         `json:"refPath"`
	CompPath string         `json:"compPath"`
	Ref      SheetSelection `json:"ref"`
	Comp     SheetSelection `json:"comp"`
	Config   *models.Config `json:"config"`
}

// HandleMatch runs the matching algorithm over two documents and returns
// the unified rows (flattened form) plus the summary.
func (h *Handler) HandleMatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	result, err := h.service.Match(c.Context(), req.RefPath, req.CompPath,
		req.Ref.options(), req.Comp.options(), req.Config)
	if err != nil {
		return h.fail(c, l, err)
	}

	flat := make([]map[string]any, len(result.Rows))
	for i, r := range result.Rows {
		flat[i] = r.Flatten()
	}
	return c.JSON(fiber.Map{
		"rows":    result.Rows,
		"flat":    flat,
		"summary": result.Summary,
	})
}

// MergeRequest is the payload for POST /recon/merge. Annotations travel as
// key -> column -> text.
type MergeRequest struct {
	Rows        []*models.UnifiedRow         `json:"rows"`
	Annotations map[string]map[string]string `json:"annotations"`
	Config      *models.Config               `json:"config"`
}

// HandleMerge applies the review compensation merge to a generation.
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	ann := annotationsFromWire(req.Annotations)
	rows, summary, err := h.service.Merge(req.Rows, ann, req.Config)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(fiber.Map{
		"rows":        rows,
		"annotations": annotationsToWire(ann),
		"summary":     summary,
	})
}

// CommitRequest is the payload for POST /recon/commit.
type CommitRequest struct {
	RefPath   string               `json:"refPath"`
	CompPath  string               `json:"compPath"`
	Rows      []*models.UnifiedRow `json:"rows"`
	Config    *models.Config       `json:"config"`
	HeaderRow int                  `json:"headerRow"`
	DryRun    bool                 `json:"dryRun"`
}

// HandleCommit writes reviewed changes back into both documents and
// returns both per-side reports. A fatal error on one side surfaces in
// that side's result without failing the request.
func (h *Handler) HandleCommit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req CommitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	opts := commit.Options{HeaderRow: req.HeaderRow, DryRun: req.DryRun}
	ref, comp, err := h.service.Commit(c.Context(), req.RefPath, req.CompPath, req.Rows, req.Config, opts)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(fiber.Map{
		"ref":  sideResult(ref),
		"comp": sideResult(comp),
	})
}

// HandleNewRow mints a manually inserted row with a synthetic identity.
func (h *Handler) HandleNewRow(c *fiber.Ctx) error {
	var req struct {
		Config *models.Config `json:"config"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if req.Config == nil {
		return badRequest(c, errors.New("missing config"))
	}
	return c.JSON(h.service.NewManualRow(req.Config))
}

func sideResult(r commit.Result) fiber.Map {
	out := fiber.Map{}
	if r.Report != nil {
		out["report"] = r.Report
	}
	if r.Err != nil {
		out["error"] = r.Err.Error()
	}
	return out
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error("request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func annotationsFromWire(wire map[string]map[string]string) review.Annotations {
	ann := review.Annotations{}
	for key, cols := range wire {
		for col, text := range cols {
			ann.Set(key, col, text)
		}
	}
	return ann
}

func annotationsToWire(ann review.Annotations) map[string]map[string]string {
	wire := map[string]map[string]string{}
	for k, text := range ann {
		if wire[k.Key] == nil {
			wire[k.Key] = map[string]string{}
		}
		wire[k.Key][k.Column] = text
	}
	return wire
}
