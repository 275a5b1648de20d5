package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nosregor/learning-platform/internal/helpers"
	"github.com/nosregor/learning-platform/internal/models"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// Validate decodes and validates the JSON request body as B, then stores
// it in the request context for the handler.
func Validate[B any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body B

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&body); err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, []string{"INVALID_BODY"})
			return
		}

		if err := validate.Struct(body); err != nil {
			var validationErrors validator.ValidationErrors
			codes := []string{"VALIDATION_FAILED"}
			if ok := isValidationError(err, &validationErrors); ok {
				codes = codes[:0]
				for _, fieldErr := range validationErrors {
					codes = append(codes, "INVALID_"+strings.ToUpper(fieldErr.Field()))
				}
			}
			helpers.RespondWithError(w, http.StatusBadRequest, codes)
			return
		}

		ctx := context.WithValue(r.Context(), models.BodyKey{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isValidationError(err error, target *validator.ValidationErrors) bool {
	validationErrors, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the slice directly
	if ok {
		*target = validationErrors
	}
	return ok
}
