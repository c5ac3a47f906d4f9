// Package render encodes API responses as JSON, or as msgpack when the client asks for it.
package render

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/fleetcost/internal/domain"
)

// Content types understood by Write and Decode
const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/x-msgpack"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// WantsMsgpack reports whether the Accept header prefers msgpack
func WantsMsgpack(r *http.Request) bool {
	if r == nil {
		return false
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case ContentTypeMsgpack, "application/msgpack":
			return true
		case ContentTypeJSON:
			return false
		}
	}
	return false
}

// Write encodes data with the status code in the format negotiated from r
func Write(w http.ResponseWriter, r *http.Request, status int, data interface{}) error {
	if WantsMsgpack(r) {
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(data)
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Decode reads the request body into v. Msgpack bodies are accepted when the
// Content-Type says so; an empty body leaves v untouched.
func Decode(r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	if mt == ContentTypeMsgpack || mt == "application/msgpack" {
		dec := msgpack.NewDecoder(body)
		dec.SetCustomStructTag("json")
		err = dec.Decode(v)
	} else {
		err = json.NewDecoder(body).Decode(v)
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// StatusFor maps engine errors onto HTTP status codes
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsConfigurationError(err), domain.IsDomainError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
