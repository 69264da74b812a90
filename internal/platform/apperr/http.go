package apperr

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an apperr kind to the HTTP status used at the gin
// boundary, following the teacher's errors.go coder-registry pattern
// (numeric code -> http.Status -> message) but keyed on the error's Go type
// instead of a registered integer code, since this taxonomy is closed and
// small enough not to need a registry.
func HTTPStatus(err error) int {
	var notFound *NotFound
	var validation *Validation
	var invalidArg *InvalidArgument
	var invalidData *InvalidData
	var io *Io
	var db *Database
	var compilation *Compilation

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &invalidArg):
		return http.StatusBadRequest
	case errors.As(err, &invalidData):
		return http.StatusBadRequest
	case errors.As(err, &db):
		if db.IsConflict {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	case errors.As(err, &io):
		return http.StatusInternalServerError
	case errors.As(err, &compilation):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
