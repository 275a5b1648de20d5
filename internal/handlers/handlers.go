// Package handlers adapts typed service methods to http.HandlerFunc,
// keeping envelope formatting and error mapping out of the services.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "github.com/nosregor/learning-platform/internal/errors"
	"github.com/nosregor/learning-platform/internal/helpers"
	"github.com/nosregor/learning-platform/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxPathIDs bounds how many {id0}..{idN} route params are collected.
const maxPathIDs = 4

func parseIDs(r *http.Request) (uuid.UUIDs, error) {
	var ids uuid.UUIDs
	for i := 0; i < maxPathIDs; i++ {
		raw := chi.URLParam(r, fmt.Sprintf("id%d", i))
		if raw == "" {
			break
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		helpers.RespondWithError(w, apiErr.Status, []string{apiErr.Code})
		return
	}

	logger.Error("Unhandled service error", zap.Error(err))
	helpers.RespondWithError(w, http.StatusInternalServerError, []string{"INTERNAL_SERVER_ERROR"})
}

func requestLogger(r *http.Request) *zap.Logger {
	return zap.L().With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

// CreateHandler wraps a service method taking a validated body. The body
// is read from the request context where the Validate middleware stored
// it, claims come from the Authenticate middleware.
func CreateHandler[B any, R any](
	handle func(*zap.Logger, models.UserClaims, uuid.UUIDs, B) (R, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(r)

		ids, err := parseIDs(r)
		if err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, []string{"INVALID_ID"})
			return
		}

		claims, _ := helpers.GetUserClaims(r.Context())
		body, _ := r.Context().Value(models.BodyKey{}).(B)

		result, err := handle(logger, claims, ids, body)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		helpers.RespondWithJSON(w, http.StatusOK, result)
	}
}

// GetHandler wraps a bodyless service method.
func GetHandler[R any](
	handle func(*zap.Logger, models.UserClaims, uuid.UUIDs) (R, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(r)

		ids, err := parseIDs(r)
		if err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, []string{"INVALID_ID"})
			return
		}

		claims, _ := helpers.GetUserClaims(r.Context())

		result, err := handle(logger, claims, ids)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		helpers.RespondWithJSON(w, http.StatusOK, result)
	}
}
