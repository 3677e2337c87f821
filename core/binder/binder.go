package binder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lambdakit/lambdakit/core/handler"
)

// Func binds one source of a request into v, which must be a non-nil struct
// pointer.
type Func func(r *handler.Request, v any) error

// Bind populates v from the body, query, and path stages, then validates it.
// A request without a body skips the JSON stage instead of failing, so the
// same target struct works for GET and POST routes.
func Bind(r *handler.Request, v any) error {
	if r.Body != nil {
		if err := JSON()(r, v); err != nil {
			return err
		}
	}
	if err := Query()(r, v); err != nil {
		return err
	}
	if err := Path()(r, v); err != nil {
		return err
	}
	return Validate(v)
}

// JSON binds the parsed request body into v. The adapter leaves non-JSON and
// malformed payloads as raw strings; those surface here as
// ErrUnsupportedMediaType or ErrFailedToParseJSON depending on the declared
// Content-Type. Unknown fields are rejected.
func JSON() Func {
	return func(r *handler.Request, v any) error {
		switch body := r.Body.(type) {
		case nil:
			return ErrEmptyBody
		case string:
			mediaType := r.Header("Content-Type")
			if idx := strings.Index(mediaType, ";"); idx != -1 {
				mediaType = strings.TrimSpace(mediaType[:idx])
			}
			if mediaType != "" && mediaType != "application/json" {
				return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
			}
			return decodeStrict([]byte(body), v)
		default:
			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
			}
			return decodeStrict(data, v)
		}
	}
}

// Query binds query parameters into fields tagged `query`, defaulting to the
// lowercase field name when untagged.
func Query() Func {
	return func(r *handler.Request, v any) error {
		return bindToStruct(v, "query", r.QueryParams, ErrFailedToParseQuery)
	}
}

// Path binds path parameters into fields tagged `path`, defaulting to the
// lowercase field name when untagged.
func Path() Func {
	return func(r *handler.Request, v any) error {
		return bindToStruct(v, "path", r.PathParams, ErrFailedToParsePath)
	}
}

func decodeStrict(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}
		return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}

	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
	}
	return nil
}
