package handler

import (
	"errors"
	"net/http"

	"patient-monitoring-service/internal/usecase"
	"patient-monitoring-service/pkg/response"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var errInvalidPathID = errors.New("invalid id in path")

// fieldErrors maps usecase validation failures to the request field at fault.
var fieldErrors = map[error]string{
	usecase.ErrInvalidStatus:         "status",
	usecase.ErrInvalidUserType:       "user_type",
	usecase.ErrInvalidAvailability:   "availability",
	usecase.ErrMissingBloodPressure:  "systolic",
	usecase.ErrMissingMetricValue:    "value",
	usecase.ErrMissingMetricUnit:     "unit",
	usecase.ErrCannotMessageSelf:     "receiver_id",
	usecase.ErrInvalidSenderID:       "sender_id",
	usecase.ErrUnsupportedAttachment: "file",
	usecase.ErrEmptyAttachment:       "file",
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, errInvalidPathID
	}
	return id, nil
}

// writeError translates a usecase error into the matching response.
// Unknown errors become a 500 with fallback as the message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	for target, field := range fieldErrors {
		if errors.Is(err, target) {
			response.ValidationError(w, map[string]string{field: target.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthenticated),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrProfessionalNotFound),
		errors.Is(err, usecase.ErrReceiverNotFound),
		errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidStatusTransition),
		errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrAttachmentTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
