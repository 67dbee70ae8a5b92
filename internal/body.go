package internal

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

// Response content types.
const (
	ContentTypeJSON   = "application/json;charset=utf-8"
	ContentTypeHTML   = "text/html;charset=utf-8"
	ContentTypeText   = "text/plain;charset=utf-8"
	ContentTypeBinary = "application/octet-stream"
)

const defaultMaxBodySize int64 = 10 << 20 // 10MB

// ParseBody decodes a request body into a flat key to value map.
//
//   - application/json must hold a JSON object; numbers decode as json.Number
//   - application/x-www-form-urlencoded and multipart/form-data yield the first
//     value of each field; uploaded files appear as *multipart.FileHeader
//
// Any other content type, or a missing one, is a 400 HTTPError.
func ParseBody(r *http.Request, maxSize int64) (map[string]any, error) {
	if maxSize <= 0 {
		maxSize = defaultMaxBodySize
	}

	raw := r.Header.Get("Content-Type")
	if raw == "" {
		return nil, ErrBadRequest("missing content type")
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return nil, ErrBadRequest("unsupported content type", WithError(err))
	}

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return parseJSONBody(r, maxSize)
	case mediaType == "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, maxSize)
		if err := r.ParseForm(); err != nil {
			return nil, ErrBadRequest("invalid form body", WithError(err))
		}
		return firstValues(r.PostForm), nil
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxSize); err != nil {
			return nil, ErrBadRequest("invalid multipart body", WithError(err))
		}
		out := firstValues(r.MultipartForm.Value)
		for key, files := range r.MultipartForm.File {
			if _, exists := out[key]; !exists && len(files) > 0 {
				out[key] = files[0]
			}
		}
		return out, nil
	default:
		return nil, ErrBadRequest("unsupported content type")
	}
}

func parseJSONBody(r *http.Request, maxSize int64) (map[string]any, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxSize))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrBadRequest("JSON body must be object")
		}
		return nil, ErrBadRequest("invalid JSON body", WithError(err))
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrBadRequest("JSON body must be object")
	}
	return obj, nil
}

func firstValues(m map[string][]string) map[string]any {
	out := make(map[string]any, len(m))
	for key, values := range m {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
