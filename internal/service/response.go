package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"rental_billing/internal/logic"
)

const maxBodyBytes = 1 << 20

// WriteHttpError writes a standard JSON error response to the http.ResponseWriter.
func WriteHttpError(w http.ResponseWriter, httpCode int, message string) {
	resp := map[string]interface{}{
		"status":  "error",
		"code":    httpCode,
		"message": message,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(resp)
}

// WriteHttpSuccess writes the success envelope with data.
func WriteHttpSuccess(w http.ResponseWriter, httpCode int, data interface{}) {
	resp := map[string]interface{}{
		"status": "success",
		"code":   httpCode,
		"data":   data,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(resp)
}

// statusFor maps an engine error class to an HTTP status.
func statusFor(kind logic.Kind) int {
	switch kind {
	case logic.KindValidation:
		return http.StatusBadRequest
	case logic.KindNotFound:
		return http.StatusNotFound
	case logic.KindConflict:
		return http.StatusConflict
	case logic.KindRange:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeLogicError reports a logic failure. Classified errors are surfaced
// verbatim; internal ones are logged and hidden.
func writeLogicError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	kind := logic.KindOf(err)
	code := statusFor(kind)
	if code == http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
		WriteHttpError(w, code, "Internal server error")
		return
	}
	logger.Info(op+" rejected", zap.Stringer("kind", kind), zap.String("reason", err.Error()))
	WriteHttpError(w, code, err.Error())
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
