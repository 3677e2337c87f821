package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/lambdakit/lambdakit/core/handler"
)

// HandleEvent is the generic invocation entrypoint. It freezes the route
// table on first use, classifies the envelope, and either dispatches it as
// an HTTP request or hands it to the direct handler.
//
// The returned error is always nil for HTTP-shaped envelopes; only a custom
// direct handler can fail the invocation.
func (a *API) HandleEvent(ctx context.Context, envelope map[string]any) (map[string]any, error) {
	a.freezeOnce.Do(a.router.Freeze)

	if _, ok := envelope["httpMethod"]; !ok {
		if a.direct != nil {
			return a.direct(ctx, envelope)
		}
		return directReply(envelope), nil
	}

	req := FromEvent(envelope, handler.NewContext(ctx))
	return ToEnvelope(a.Dispatch(req)), nil
}

// Handler returns HandleEvent in the signature lambda.Start accepts.
func (a *API) Handler() func(context.Context, map[string]any) (map[string]any, error) {
	return a.HandleEvent
}

// directReply is the default answer for non-HTTP invocations: echo the
// envelope so manual invokes confirm what the function received.
func directReply(envelope map[string]any) map[string]any {
	body, err := json.Marshal(map[string]any{
		"message": "Direct invocation",
		"event":   envelope,
	})
	if err != nil {
		return map[string]any{
			"statusCode": http.StatusInternalServerError,
			"body":       fmt.Sprintf(`{"error": %q}`, "event is not serializable: "+err.Error()),
		}
	}
	return map[string]any{
		"statusCode": http.StatusOK,
		"body":       string(body),
	}
}

// FromEvent decodes an HTTP-shaped envelope into a Request bound to reqCtx.
// Decoding is lenient: a missing method defaults to GET, absent maps become
// empty maps, and the body parses as JSON only when the Content-Type header
// (exact key) is missing or mentions application/json. A body that fails to
// parse stays a raw string for the handler to inspect.
func FromEvent(envelope map[string]any, reqCtx *handler.Context) *handler.Request {
	method := handler.Method(stringValue(envelope, "httpMethod"))
	if method == "" {
		method = handler.MethodGet
	}

	req := handler.NewRequest(method, stringValue(envelope, "path"))
	mergeStringMap(req.Headers, envelope["headers"])
	mergeStringMap(req.QueryParams, envelope["queryStringParameters"])
	mergeStringMap(req.PathParams, envelope["pathParameters"])
	req.RawEvent = envelope

	if raw, ok := envelope["body"]; ok && raw != nil {
		if s, isString := raw.(string); isString {
			req.Body = decodeBody(s, req.Headers["Content-Type"])
		} else {
			// Already-structured payloads (in-process invokes) pass through.
			req.Body = raw
		}
	}

	req.Context = reqCtx
	if reqCtx != nil {
		reqCtx.Request = req
		for k, v := range req.PathParams {
			reqCtx.SetParam(k, v)
		}
	}
	return req
}

// ToEnvelope serializes a response into the reply envelope. Structured
// bodies become JSON strings, string bodies pass through, nil stays null.
// An unserializable body is replaced by a 500 reply rather than failing the
// invocation.
func ToEnvelope(resp *handler.Response) map[string]any {
	out := map[string]any{
		"statusCode": resp.Status,
		"headers":    resp.Headers,
		"body":       nil,
	}

	switch body := resp.Body.(type) {
	case nil:
	case string:
		out["body"] = body
	default:
		data, err := json.Marshal(body)
		if err != nil {
			reply, _ := json.Marshal(map[string]any{"error": "response body is not serializable: " + err.Error()})
			return map[string]any{
				"statusCode": http.StatusInternalServerError,
				"headers":    map[string]string{"Content-Type": "application/json"},
				"body":       string(reply),
			}
		}
		out["body"] = string(data)
	}
	return out
}

func decodeBody(raw, contentType string) any {
	if contentType != "" && !strings.Contains(contentType, "application/json") {
		return raw
	}
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	return parsed
}

func stringValue(envelope map[string]any, key string) string {
	switch v := envelope[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// mergeStringMap copies an envelope sub-map into dst, stringifying values.
// Envelopes decoded from JSON carry map[string]any; envelopes built in
// process often carry map[string]string. A JSON null or a missing key is an
// empty map.
func mergeStringMap(dst map[string]string, src any) {
	switch m := src.(type) {
	case map[string]string:
		for k, v := range m {
			dst[k] = v
		}
	case map[string]any:
		for k, v := range m {
			if s, ok := v.(string); ok {
				dst[k] = s
				continue
			}
			dst[k] = fmt.Sprint(v)
		}
	}
}
