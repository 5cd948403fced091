package utils

import (
	"errors"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

var reObjectID = regexp.MustCompile(constvars.RegexObjectIDHex)

// ParseJSONBody decodes the request body into dst, rejecting unknown fields.
func ParseJSONBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if tooLarge, ok := AsBodyTooLarge(err); ok {
			return tooLarge
		}
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

// AsBodyTooLarge maps the error of a body capped by http.MaxBytesReader.
func AsBodyTooLarge(err error) (error, bool) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return exceptions.ErrRequestBodyTooLarge(err, int(maxErr.Limit>>20)), true
	}
	return nil, false
}

// GetObjectIDParam returns the {id} URL parameter if it is a 24-hex object id.
// A malformed id yields INVALID_IDENTIFIER rather than NOT_FOUND.
func GetObjectIDParam(r *http.Request, resourceName string) (string, error) {
	id := chi.URLParam(r, constvars.URLParamID)
	if !IsObjectIDHex(id) {
		return "", exceptions.ErrInvalidIdentifier(nil, resourceName)
	}
	return id, nil
}

func IsObjectIDHex(id string) bool {
	return reObjectID.MatchString(id)
}

func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
