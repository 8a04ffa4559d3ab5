package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"physiofit/physiofit/controllers"
	"physiofit/physiofit/types"
	"physiofit/physiofit/utils/logging"

	"go.uber.org/zap"
)

const (
	msgInvalidInput = "Ungültige Anfrage"
	msgTooLarge     = "Anfrage zu groß"
)

// tooLargeError marks a body cut off by the configured size limit.
type tooLargeError struct {
	limit int64
}

func (e *tooLargeError) Error() string { return fmt.Sprintf("body exceeds %d bytes", e.limit) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.ErrorLogger.Error("encoding response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

// decodeJSON reads exactly one JSON value from the body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// handleJSON maps controller errors onto status codes: validation errors
// are the client's fault, everything else is ours.
func handleJSON(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			var ve *controllers.ValidationError
			var re *controllers.RelayError
			var tl *tooLargeError
			switch {
			case errors.As(err, &tl):
				writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			case errors.As(err, &ve):
				writeError(w, http.StatusBadRequest, ve.Msg)
			case errors.As(err, &re):
				writeError(w, http.StatusInternalServerError, re.Msg)
			default:
				logging.ErrorLogger.Error("request failed",
					zap.String("path", r.URL.Path),
					zap.String("request_id", logging.RequestID(r.Context())),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, controllers.InternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func badRequest(err error) error {
	logging.AppLogger.Info("rejected request body", zap.Error(err))
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return &tooLargeError{limit: mbe.Limit}
	}
	return &controllers.ValidationError{Msg: msgInvalidInput}
}
