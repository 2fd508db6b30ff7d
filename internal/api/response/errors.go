package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/api/models"
	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/prediction"
	"github.com/yieldwise/yieldwise/internal/session"
	"github.com/yieldwise/yieldwise/internal/weather"
)

// FromError maps a domain error to its problem response. Unrecognised
// errors are logged and reported as 500 without their message.
func FromError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	id := traceID(r)

	var stepErr *prediction.StepError
	var verifyErr *prediction.VerificationError

	switch {
	case errors.As(err, &stepErr):
		Error(w, r, models.NewStepIncomplete(id, string(stepErr.Required)))

	case errors.As(err, &verifyErr):
		Error(w, r, models.NewVerificationFailed(id, verifyErr.Error(), verifyErr.Issues, verifyErr.Advice))

	case errors.Is(err, session.ErrNotFound):
		NotFound(w, r, "session not found or expired")

	case errors.Is(err, crop.ErrUnknownCrop):
		NotFound(w, r, err.Error())

	case errors.Is(err, weather.ErrInvalidLocation):
		BadRequest(w, r, "location must be a non-empty name of at most 100 characters", []models.FieldError{
			{Field: "location", Message: "invalid location", Code: "INVALID"},
		})

	case errors.Is(err, weather.ErrNoDataForLocation):
		NotFound(w, r, "no weather data for location")

	case errors.Is(err, health.ErrNoImages),
		errors.Is(err, health.ErrTooManyImages),
		errors.Is(err, health.ErrUnsupportedImage):
		BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "images", Message: err.Error(), Code: "INVALID"},
		})

	case errors.Is(err, health.ErrImageTooLarge):
		Error(w, r, models.NewPayloadTooLarge(id, err.Error()))

	case errors.Is(err, session.ErrStoreFull):
		ServiceUnavailable(w, r, "too many active sessions, try again later")

	case errors.Is(err, weather.ErrProviderUnavailable):
		ServiceUnavailable(w, r, "weather data is temporarily unavailable")

	case errors.Is(err, health.ErrAnalysisUnavailable):
		ServiceUnavailable(w, r, "image analysis is temporarily unavailable")

	case errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(w, r, "upstream request timed out")

	default:
		log.Error().Err(err).
			Str("request_id", id).
			Str("path", r.URL.Path).
			Msg("unhandled error")
		InternalError(w, r, "an unexpected error occurred")
	}
}
