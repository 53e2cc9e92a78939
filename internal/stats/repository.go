// Package stats exposes read-only aggregate queries over the seismic
// events table. The dashboard only consumes pre-aggregated numbers;
// nothing here mutates state.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Pool is the subset of pgxpool.Pool the aggregate queries need.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Summary holds system-wide aggregates.
type Summary struct {
	TotalEvents    int64    `json:"total_events"`
	AvgMagnitude   *float64 `json:"avg_magnitude"`
	MaxMagnitude   *float64 `json:"max_magnitude"`
	TotalCountries int64    `json:"total_countries"`
}

// CountryAggregate holds per-country aggregates.
type CountryAggregate struct {
	CountryCode  string   `json:"country_code"`
	EventCount   int64    `json:"event_count"`
	AvgMagnitude *float64 `json:"avg_magnitude"`
	MaxMagnitude *float64 `json:"max_magnitude"`
}

// CountryStats holds aggregates for a single country with a per-year
// breakdown.
type CountryStats struct {
	CountryCode  string          `json:"country_code"`
	EventCount   int64           `json:"event_count"`
	AvgMagnitude *float64        `json:"avg_magnitude"`
	MaxMagnitude *float64        `json:"max_magnitude"`
	ByYear       []YearAggregate `json:"by_year"`
}

// YearAggregate holds aggregates for one year of a country's events.
type YearAggregate struct {
	Year         int      `json:"year"`
	EventCount   int64    `json:"event_count"`
	AvgMagnitude *float64 `json:"avg_magnitude"`
	MaxMagnitude *float64 `json:"max_magnitude"`
}

// YearlyStats holds aggregates for a single year.
type YearlyStats struct {
	Year      int                `json:"year"`
	Total     int64              `json:"total"`
	AvgMag    *float64           `json:"avg_magnitude"`
	MaxMag    *float64           `json:"max_magnitude"`
	ByCountry []CountryAggregate `json:"by_country"`
}

// Repository handles aggregate queries over seismic events.
type Repository struct {
	db Pool
}

func NewRepository(db Pool) *Repository {
	return &Repository{db: db}
}

// GetSummary returns overall event aggregates plus the top countries
// by event count.
func (r *Repository) GetSummary(ctx context.Context) (*Summary, []CountryAggregate, error) {
	query := `
		SELECT COUNT(*),
		       AVG(magnitude),
		       MAX(magnitude),
		       COUNT(DISTINCT country_code)
		FROM seismic_events
	`

	var summary Summary
	err := r.db.QueryRow(ctx, query).Scan(
		&summary.TotalEvents,
		&summary.AvgMagnitude,
		&summary.MaxMagnitude,
		&summary.TotalCountries,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("get summary: %w", err)
	}

	byCountry, err := r.topCountries(ctx)
	if err != nil {
		return nil, nil, err
	}

	return &summary, byCountry, nil
}

// GetYearly returns aggregates for a single year with a per-country
// breakdown.
func (r *Repository) GetYearly(ctx context.Context, year int) (*YearlyStats, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	query := `
		SELECT COUNT(*), AVG(magnitude), MAX(magnitude)
		FROM seismic_events
		WHERE occurred_at >= $1 AND occurred_at < $2
	`

	yearly := YearlyStats{Year: year}
	err := r.db.QueryRow(ctx, query, start, end).Scan(
		&yearly.Total,
		&yearly.AvgMag,
		&yearly.MaxMag,
	)
	if err != nil {
		return nil, fmt.Errorf("get yearly stats: %w", err)
	}

	countryQuery := `
		SELECT country_code, COUNT(*), AVG(magnitude), MAX(magnitude)
		FROM seismic_events
		WHERE occurred_at >= $1 AND occurred_at < $2
		GROUP BY country_code
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.db.Query(ctx, countryQuery, start, end)
	if err != nil {
		return nil, fmt.Errorf("get yearly country stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var agg CountryAggregate
		if err := rows.Scan(&agg.CountryCode, &agg.EventCount, &agg.AvgMagnitude, &agg.MaxMagnitude); err != nil {
			return nil, fmt.Errorf("scan yearly country stats: %w", err)
		}
		yearly.ByCountry = append(yearly.ByCountry, agg)
	}

	return &yearly, rows.Err()
}

// GetCountry returns aggregates for one country with a per-year
// breakdown, newest year first.
func (r *Repository) GetCountry(ctx context.Context, countryCode string) (*CountryStats, error) {
	query := `
		SELECT COUNT(*), AVG(magnitude), MAX(magnitude)
		FROM seismic_events
		WHERE country_code = $1
	`

	country := CountryStats{CountryCode: countryCode}
	err := r.db.QueryRow(ctx, query, countryCode).Scan(
		&country.EventCount,
		&country.AvgMagnitude,
		&country.MaxMagnitude,
	)
	if err != nil {
		return nil, fmt.Errorf("get country stats: %w", err)
	}

	yearQuery := `
		SELECT EXTRACT(YEAR FROM occurred_at)::int, COUNT(*), AVG(magnitude), MAX(magnitude)
		FROM seismic_events
		WHERE country_code = $1
		GROUP BY 1
		ORDER BY 1 DESC
	`

	rows, err := r.db.Query(ctx, yearQuery, countryCode)
	if err != nil {
		return nil, fmt.Errorf("get country yearly stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var agg YearAggregate
		if err := rows.Scan(&agg.Year, &agg.EventCount, &agg.AvgMagnitude, &agg.MaxMagnitude); err != nil {
			return nil, fmt.Errorf("scan country yearly stats: %w", err)
		}
		country.ByYear = append(country.ByYear, agg)
	}

	return &country, rows.Err()
}

func (r *Repository) topCountries(ctx context.Context) ([]CountryAggregate, error) {
	query := `
		SELECT country_code, COUNT(*), AVG(magnitude), MAX(magnitude)
		FROM seismic_events
		WHERE country_code IS NOT NULL
		GROUP BY country_code
		ORDER BY COUNT(*) DESC
		LIMIT 10
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get country stats: %w", err)
	}
	defer rows.Close()

	var aggregates []CountryAggregate
	for rows.Next() {
		var agg CountryAggregate
		if err := rows.Scan(&agg.CountryCode, &agg.EventCount, &agg.AvgMagnitude, &agg.MaxMagnitude); err != nil {
			return nil, fmt.Errorf("scan country stats: %w", err)
		}
		aggregates = append(aggregates, agg)
	}

	return aggregates, rows.Err()
}
