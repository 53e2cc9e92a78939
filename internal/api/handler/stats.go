package handler

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/seismowatch/faceauth/internal/domain"
	"github.com/seismowatch/faceauth/internal/stats"
)

var countryCodePattern = regexp.MustCompile(`^[A-Z]{2,3}$`)

// StatsRepository interface for the aggregate queries
type StatsRepository interface {
	GetSummary(ctx context.Context) (*stats.Summary, []stats.CountryAggregate, error)
	GetYearly(ctx context.Context, year int) (*stats.YearlyStats, error)
	GetCountry(ctx context.Context, countryCode string) (*stats.CountryStats, error)
}

// StatsHandler serves dashboard aggregates
type StatsHandler struct {
	repo   StatsRepository
	logger *slog.Logger
}

func NewStatsHandler(repo StatsRepository, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		repo:   repo,
		logger: logger,
	}
}

// SummaryResponse response for the summary endpoint
type SummaryResponse struct {
	Summary   *stats.Summary           `json:"summary"`
	ByCountry []stats.CountryAggregate `json:"by_country"`
}

// Summary GET /v1/stats/summary
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	summary, byCountry, err := h.repo.GetSummary(c.Context())
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	if byCountry == nil {
		byCountry = []stats.CountryAggregate{}
	}

	return c.JSON(SummaryResponse{
		Summary:   summary,
		ByCountry: byCountry,
	})
}

// Yearly GET /v1/stats/yearly/:year
func (h *StatsHandler) Yearly(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("year must be an integer"))
	}
	if year < 1900 || year > time.Now().UTC().Year() {
		return domain.ErrValidationFailed.WithError(errors.New("year out of range"))
	}

	yearly, err := h.repo.GetYearly(c.Context(), year)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(yearly)
}

// Country GET /v1/stats/countries/:code
func (h *StatsHandler) Country(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))
	if !countryCodePattern.MatchString(code) {
		return domain.ErrValidationFailed.WithError(errors.New("country code must be 2-3 letters"))
	}

	country, err := h.repo.GetCountry(c.Context(), code)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	if country.ByYear == nil {
		country.ByYear = []stats.YearAggregate{}
	}

	return c.JSON(country)
}
