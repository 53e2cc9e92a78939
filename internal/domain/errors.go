package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so errors.Is works against the
// sentinels even for copies produced by WithError.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrEmptyImage = &AppError{
		Code:       "EMPTY_IMAGE",
		Message:    "Image is empty or missing",
		StatusCode: 400,
	}

	ErrDecodeImage = &AppError{
		Code:       "DECODE_ERROR",
		Message:    "Image could not be decoded",
		StatusCode: 422,
	}

	ErrDuplicateContact = &AppError{
		Code:       "DUPLICATE_CONTACT",
		Message:    "Email or document already registered to another user",
		StatusCode: 409,
	}

	ErrNoMatch = &AppError{
		Code:       "NO_MATCH",
		Message:    "Face does not match any registered identity",
		StatusCode: 401,
	}

	ErrInvalidToken = &AppError{
		Code:       "INVALID_TOKEN",
		Message:    "Invalid or malformed token",
		StatusCode: 401,
	}

	ErrTokenExpired = &AppError{
		Code:       "TOKEN_EXPIRED",
		Message:    "Token has expired",
		StatusCode: 401,
	}

	ErrIdentityNotFound = &AppError{
		Code:       "IDENTITY_NOT_FOUND",
		Message:    "Identity not found",
		StatusCode: 404,
	}

	ErrStoreBusy = &AppError{
		Code:       "STORE_BUSY",
		Message:    "Identity store is busy, retry shortly",
		StatusCode: 503,
	}

	ErrPredictorUnavailable = &AppError{
		Code:       "PREDICTOR_UNAVAILABLE",
		Message:    "Prediction service is unavailable",
		StatusCode: 502,
	}
)
