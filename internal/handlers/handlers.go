package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

var ErrUnauthorized = errors.New("token does not grant access to this game")

func SendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger logrus.FieldLogger, status int, v any) {
	_, err := SendJSON(w, status, v)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"response": v,
			"error":    err,
		}).Error("unable to send response")
	}
}

func wrapError(err error) map[string]any {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return map[string]any{
			"error": cmdErr.Err,
			"line":  cmdErr.Line,
		}
	}
	return map[string]any{
		"error": err.Error(),
	}
}

func errorStatus(err error) int {
	var cmdErr *CommandError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, mines.ErrInsufficientSpace):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, mines.ErrOutOfBounds),
		errors.As(err, &cmdErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func sendError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("request failed")
		sendJSONOrLog(w, logger, status, map[string]string{"error": "internal error"})
		return
	}
	sendJSONOrLog(w, logger, status, wrapError(err))
}

func badRequest(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	sendJSONOrLog(w, logger, http.StatusBadRequest, wrapError(err))
}
