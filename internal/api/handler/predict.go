package handler

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"github.com/seismowatch/faceauth/internal/domain"
	"github.com/seismowatch/faceauth/internal/predict"
)

var regionKeyPattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// PredictService interface for the risk predictor
type PredictService interface {
	Predict(ctx context.Context, regionKey string) (*predict.Prediction, error)
	Retrain(ctx context.Context, regionKey string) (*predict.ModelInfo, error)
}

// PredictHandler proxies risk predictions for seismic regions
type PredictHandler struct {
	service PredictService
	logger  *slog.Logger
}

func NewPredictHandler(service PredictService, logger *slog.Logger) *PredictHandler {
	return &PredictHandler{
		service: service,
		logger:  logger,
	}
}

// Predict GET /v1/predictions/:region
func (h *PredictHandler) Predict(c *fiber.Ctx) error {
	region, err := regionParam(c)
	if err != nil {
		return err
	}

	pred, err := h.service.Predict(c.Context(), region)
	if err != nil {
		h.logger.Warn("predictor call failed",
			slog.String("region", region),
			slog.String("error", err.Error()),
		)
		return domain.ErrPredictorUnavailable.WithError(err)
	}

	return c.JSON(pred)
}

// Retrain POST /v1/predictions/:region/retrain
func (h *PredictHandler) Retrain(c *fiber.Ctx) error {
	region, err := regionParam(c)
	if err != nil {
		return err
	}

	info, err := h.service.Retrain(c.Context(), region)
	if err != nil {
		h.logger.Warn("retrain failed",
			slog.String("region", region),
			slog.String("error", err.Error()),
		)
		return domain.ErrPredictorUnavailable.WithError(err)
	}

	return c.Status(fiber.StatusAccepted).JSON(info)
}

func regionParam(c *fiber.Ctx) (string, error) {
	region := c.Params("region")
	if !regionKeyPattern.MatchString(region) {
		return "", domain.ErrValidationFailed.WithError(errors.New("invalid region key"))
	}
	return region, nil
}
