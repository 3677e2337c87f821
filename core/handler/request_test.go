package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lambdakit/lambdakit/core/handler"
)

func TestRequestParam(t *testing.T) {
	t.Parallel()

	t.Run("path parameters win over query and body", func(t *testing.T) {
		t.Parallel()

		r := handler.NewRequest(handler.MethodGet, "/users/42")
		r.PathParams["id"] = "path-id"
		r.QueryParams["id"] = "query-id"
		r.Body = map[string]any{"id": "body-id"}

		assert.Equal(t, "path-id", r.Param("id"))
	})

	t.Run("query parameters win over body", func(t *testing.T) {
		t.Parallel()

		r := handler.NewRequest(handler.MethodGet, "/users")
		r.QueryParams["id"] = "query-id"
		r.Body = map[string]any{"id": "body-id"}

		assert.Equal(t, "query-id", r.Param("id"))
	})

	t.Run("body object fields resolve last", func(t *testing.T) {
		t.Parallel()

		r := handler.NewRequest(handler.MethodPost, "/users")
		r.Body = map[string]any{"name": "Ada", "age": float64(36)}

		assert.Equal(t, "Ada", r.Param("name"))
		assert.Equal(t, float64(36), r.Param("age"))
	})

	t.Run("non-object body is not searched", func(t *testing.T) {
		t.Parallel()

		r := handler.NewRequest(handler.MethodPost, "/raw")
		r.Body = "plain text payload"

		assert.Nil(t, r.Param("name"))
	})

	t.Run("missing parameter returns nil", func(t *testing.T) {
		t.Parallel()

		r := handler.NewRequest(handler.MethodGet, "/users")
		assert.Nil(t, r.Param("missing"))
	})

	t.Run("default applies only when absent", func(t *testing.T) {
		t.Parallel()

		r := handler.NewRequest(handler.MethodGet, "/users")
		r.QueryParams["page"] = "3"

		assert.Equal(t, "3", r.ParamDefault("page", "1"))
		assert.Equal(t, "1", r.ParamDefault("size", "1"))
	})
}

func TestRequestHeader(t *testing.T) {
	t.Parallel()

	r := handler.NewRequest(handler.MethodGet, "/")
	r.Headers["Content-Type"] = "application/json"

	assert.Equal(t, "application/json", r.Header("Content-Type"))
	// Header keys are never normalized, so lookups are case-sensitive.
	assert.Empty(t, r.Header("content-type"))
}
