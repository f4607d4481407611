package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/RaikyD/remit-desk/internal/logger"
	"github.com/go-chi/chi/v5"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 2 << 20

var ErrUnsupportedMedia = errors.New("unsupported content-type")

// WriteJSON encodes v before the status goes out, so a value that cannot be
// encoded turns into a 500 instead of an empty success.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("encode response failed", "err", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func HttpError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteError maps err onto a status code. Unexpected errors are logged and
// answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		HttpError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		HttpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnsupportedMedia):
		HttpError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		HttpError(w, http.StatusInternalServerError, "internal error")
	}
}

// ReadFields collects the submitted fields of r as text. Accepted bodies:
//   - application/json:                   a flat object of strings/numbers
//   - text/plain:                         the same object sent as a string
//   - application/x-www-form-urlencoded
//   - multipart/form-data
//
// A request without a body yields no fields.
func ReadFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return map[string]string{}, nil
	}
	mediatype, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	switch mediatype {
	case "application/json", "text/plain":
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", domain.ErrInvalidInput, err)
		}
		if strings.TrimSpace(string(raw)) == "" {
			return map[string]string{}, nil
		}
		fields, err := domain.DecodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrInvalidInput, err)
		}
		return fields, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return firstValues(r.PostForm), nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return firstValues(r.MultipartForm.Value), nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedMedia, mediatype)
	}
}

func firstValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// IDParam parses the {id} route parameter.
func IDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", domain.ErrInvalidInput, raw)
	}
	return id, nil
}
