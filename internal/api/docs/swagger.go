// Package docs builds the Swagger definition served at /swagger.
package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// IdentityResponse represents an enrolled identity
type IdentityResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username  string `json:"username" example:"ana"`
	Email     string `json:"email" example:"ana@example.com"`
	Document  string `json:"document" example:"12345678-9"`
	Role      string `json:"role" example:"user"`
	CreatedAt string `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt string `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

// LoginTokenResponse represents a successful face login
type LoginTokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"3600"`
}

// StatsSummaryResponse represents dashboard summary aggregates
type StatsSummaryResponse struct {
	TotalEvents    int64   `json:"total_events" example:"1200"`
	AvgMagnitude   float64 `json:"avg_magnitude" example:"4.3"`
	MaxMagnitude   float64 `json:"max_magnitude" example:"8.1"`
	TotalCountries int64   `json:"total_countries" example:"14"`
}

// PredictionResponse represents a regional risk prediction
type PredictionResponse struct {
	RegionKey         string  `json:"region_key" example:"valparaiso"`
	RiskLevel         string  `json:"risk_level" example:"moderate"`
	MagnitudeEstimate float64 `json:"magnitude_estimate" example:"5.2"`
}

// CountryStatsResponse represents per-country aggregates
type CountryStatsResponse struct {
	CountryCode  string  `json:"country_code" example:"CL"`
	EventCount   int64   `json:"event_count" example:"40"`
	AvgMagnitude float64 `json:"avg_magnitude" example:"5.1"`
	MaxMagnitude float64 `json:"max_magnitude" example:"8.8"`
}

// ChatMessageResponse represents a stored assistant exchange
type ChatMessageResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Message   string `json:"message" example:"hi"`
	Reply     string `json:"reply" example:"Hello! Ask me about seismic statistics."`
	Rule      string `json:"rule" example:"greeting"`
	CreatedAt string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// ChatReplyResponse represents an assistant reply
type ChatReplyResponse struct {
	Reply string `json:"reply" example:"Hello! Ask me about seismic statistics."`
	Rule  string `json:"rule" example:"greeting"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// HealthResponse represents service health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "SeismoWatch FaceAuth API",
		Version:     "v0.1.0",
		Description: "Perceptual face authentication and seismic dashboard backend",
		Host:        "localhost:3000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/auth/register - Enroll a face
		endpoint.New(
			endpoint.POST,
			"/v1/auth/register",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Register a face"),
			endpoint.WithDescription("Enrolls a face for the given username. Re-registering an existing username replaces its stored fingerprint."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityResponse{}, "201", "Identity registered"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPTY_IMAGE", Message: "Image is empty or missing"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "DUPLICATE_CONTACT", Message: "Email or document already registered to another user"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "DECODE_ERROR", Message: "Image could not be decoded"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/auth/login - Face login
		endpoint.New(
			endpoint.POST,
			"/v1/auth/login",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Log in with a face image"),
			endpoint.WithDescription("Compares the submitted image against every enrolled identity and issues a session token for the closest match within the distance threshold."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginTokenResponse{}, "200", "Session token issued"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPTY_IMAGE", Message: "Image is empty or missing"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "NO_MATCH", Message: "Face does not match any registered identity"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "DECODE_ERROR", Message: "Image could not be decoded"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "STORE_BUSY", Message: "Identity store is busy, retry shortly"}, "503", "Service Unavailable"),
			}),
		),

		// GET /v1/auth/me - Session introspection
		endpoint.New(
			endpoint.GET,
			"/v1/auth/me",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Get the authenticated identity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityResponse{}, "200", "Authenticated identity"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_TOKEN", Message: "Invalid or malformed token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/users - List identities
		endpoint.New(
			endpoint.GET,
			"/v1/users",
			endpoint.WithTags("Users"),
			endpoint.WithSummary("List enrolled identities"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]IdentityResponse{}, "200", "Enrolled identities"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_TOKEN", Message: "Invalid or malformed token"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// DELETE /v1/users/{username} - Delete identity
		endpoint.New(
			endpoint.DELETE,
			"/v1/users/{username}",
			endpoint.WithTags("Users"),
			endpoint.WithSummary("Delete an enrolled identity"),
			endpoint.WithParams(
				parameter.StrParam("username", parameter.Path, parameter.WithDescription("Username to delete")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Identity deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_TOKEN", Message: "Invalid or malformed token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/stats/summary
		endpoint.New(
			endpoint.GET,
			"/v1/stats/summary",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Overall seismic statistics"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatsSummaryResponse{}, "200", "Aggregates"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/stats/yearly/{year}
		endpoint.New(
			endpoint.GET,
			"/v1/stats/yearly/{year}",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Yearly seismic statistics"),
			endpoint.WithParams(
				parameter.IntParam("year", parameter.Path, parameter.WithDescription("Calendar year")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatsSummaryResponse{}, "200", "Yearly aggregates"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),

		// GET /v1/stats/countries/{code}
		endpoint.New(
			endpoint.GET,
			"/v1/stats/countries/{code}",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Per-country seismic statistics"),
			endpoint.WithParams(
				parameter.StrParam("code", parameter.Path, parameter.WithDescription("ISO country code (2-3 letters)")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CountryStatsResponse{}, "200", "Country aggregates with per-year breakdown"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),

		// GET /v1/predictions/{region}
		endpoint.New(
			endpoint.GET,
			"/v1/predictions/{region}",
			endpoint.WithTags("Predictions"),
			endpoint.WithSummary("Regional risk prediction"),
			endpoint.WithParams(
				parameter.StrParam("region", parameter.Path, parameter.WithDescription("Region key")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PredictionResponse{}, "200", "Prediction"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "PREDICTOR_UNAVAILABLE", Message: "Prediction service is unavailable"}, "502", "Bad Gateway"),
			}),
		),

		// POST /v1/predictions/{region}/retrain
		endpoint.New(
			endpoint.POST,
			"/v1/predictions/{region}/retrain",
			endpoint.WithTags("Predictions"),
			endpoint.WithSummary("Retrain a regional model"),
			endpoint.WithParams(
				parameter.StrParam("region", parameter.Path, parameter.WithDescription("Region key")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PredictionResponse{}, "202", "Retrain accepted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_TOKEN", Message: "Invalid or malformed token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "PREDICTOR_UNAVAILABLE", Message: "Prediction service is unavailable"}, "502", "Bad Gateway"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/chat
		endpoint.New(
			endpoint.POST,
			"/v1/chat",
			endpoint.WithTags("Chat"),
			endpoint.WithSummary("Dashboard assistant"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ChatReplyResponse{}, "200", "Assistant reply"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),

		// GET /v1/chat/history
		endpoint.New(
			endpoint.GET,
			"/v1/chat/history",
			endpoint.WithTags("Chat"),
			endpoint.WithSummary("Recent assistant exchanges"),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum entries to return (1-200, default 50)")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]ChatMessageResponse{}, "200", "Stored exchanges, newest first"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Dependencies reachable"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "degraded"}, "503", "Database unreachable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
