package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lambdakit/lambdakit/core/handler"
)

// ProxyHandler returns an entrypoint for the typed API Gateway proxy
// integration. Prefer it over Handler when the function sits behind API
// Gateway or an ALB in proxy mode; the generic Handler remains the right
// choice for mixed HTTP and direct invocations.
func (a *API) ProxyHandler() func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, e events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		a.freezeOnce.Do(a.router.Freeze)

		req := FromProxyRequest(e, handler.NewContext(ctx))
		return toProxyResponse(a.Dispatch(req)), nil
	}
}

// FromProxyRequest decodes a typed API Gateway proxy event with the same
// leniency as FromEvent. Base64-encoded bodies are decoded first; a body
// that fails to decode stays raw.
func FromProxyRequest(e events.APIGatewayProxyRequest, reqCtx *handler.Context) *handler.Request {
	method := handler.Method(e.HTTPMethod)
	if method == "" {
		method = handler.MethodGet
	}

	req := handler.NewRequest(method, e.Path)
	for k, v := range e.Headers {
		req.Headers[k] = v
	}
	for k, v := range e.QueryStringParameters {
		req.QueryParams[k] = v
	}
	for k, v := range e.PathParameters {
		req.PathParams[k] = v
	}
	req.RawEvent = proxyEnvelope(e)

	if e.Body != "" {
		raw := e.Body
		if e.IsBase64Encoded {
			if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
				raw = string(decoded)
			}
		}
		req.Body = decodeBody(raw, req.Headers["Content-Type"])
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

// proxyEnvelope preserves the typed event as the raw envelope so handlers
// and subscribers see the same shape regardless of entrypoint.
func proxyEnvelope(e events.APIGatewayProxyRequest) map[string]any {
	envelope := map[string]any{
		"httpMethod":            e.HTTPMethod,
		"path":                  e.Path,
		"headers":               e.Headers,
		"queryStringParameters": e.QueryStringParameters,
		"pathParameters":        e.PathParameters,
		"body":                  e.Body,
		"isBase64Encoded":       e.IsBase64Encoded,
	}
	if e.Resource != "" {
		envelope["resource"] = e.Resource
	}
	if e.RequestContext.RequestID != "" {
		envelope["requestContext"] = map[string]any{"requestId": e.RequestContext.RequestID}
	}
	return envelope
}

func toProxyResponse(resp *handler.Response) events.APIGatewayProxyResponse {
	out := events.APIGatewayProxyResponse{
		StatusCode: resp.Status,
		Headers:    resp.Headers,
	}

	switch body := resp.Body.(type) {
	case nil:
	case string:
		out.Body = body
	default:
		data, err := json.Marshal(body)
		if err != nil {
			reply, _ := json.Marshal(map[string]any{"error": "response body is not serializable: " + err.Error()})
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusInternalServerError,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       string(reply),
			}
		}
		out.Body = string(data)
	}
	return out
}
