package recon

import (
	"github.com/byehanchoi-cmyk/io-xl-web/core/storage"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the reconciliation module into the application loader.
type Feature struct {
	service *Service
	logger  *zap.Logger
}

// NewFeature creates the reconciliation feature.
func NewFeature(store storage.Store, logger *zap.Logger) *Feature {
	ids := models.NewSequenceSource("NEW-")
	return &Feature{
		service: NewService(store, logger, ids),
		logger:  logger,
	}
}

// Name returns the feature identifier.
func (f *Feature) Name() string { return "recon" }

// IsEnabled reports whether the feature should load. Always on.
func (f *Feature) IsEnabled() bool { return true }

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service, f.logger).RegisterRoutes(app)
	return nil
}

// Service exposes the underlying service, mainly for the CLI commands.
func (f *Feature) Service() *Service { return f.service }
