package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/salary-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// decodeOptionalBody decodes a JSON body when one is present. An empty body leaves dst untouched.
func decodeOptionalBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// idParam reads the {id} path parameter. Record ids are UUIDs, so anything else
// is answered with notFound before it reaches a repository.
func idParam(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}
