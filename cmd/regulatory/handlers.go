package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/lambdakit/lambdakit/core/binder"
	"github.com/lambdakit/lambdakit/core/handler"
	"github.com/lambdakit/lambdakit/datasource"
	"github.com/lambdakit/lambdakit/regulatory"
)

// searchParams binds /regulations query parameters. Multi-value filters
// arrive comma-separated, e.g. ?jurisdiction=us,eu.
type searchParams struct {
	Query         string   `query:"q"`
	DataTypes     []string `query:"data_type" validate:"omitempty,dive,oneof=regulation guidance policy standard framework"`
	Jurisdictions []string `query:"jurisdiction" validate:"omitempty,dive,oneof=global us eu uk apac"`
	Industries    []string `query:"industry"`
	Topics        []string `query:"topic"`
	EffectiveFrom string   `query:"effective_from" validate:"omitempty,datetime=2006-01-02"`
	EffectiveTo   string   `query:"effective_to" validate:"omitempty,datetime=2006-01-02"`
	Page          int      `query:"page" validate:"omitempty,min=1"`
	Size          int      `query:"size" validate:"omitempty,min=1,max=100"`
	SortBy        string   `query:"sort_by" validate:"omitempty,oneof=_score effective_date publication_date title"`
	SortOrder     string   `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

func searchRegulations(dao *regulatory.DAO) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		var params searchParams
		if err := binder.Bind(r, &params); err != nil {
			return badRequest(err), nil
		}

		query := regulatory.Query{
			Text:          params.Query,
			DataTypes:     toEnums[regulatory.DataType](params.DataTypes),
			Jurisdictions: toEnums[regulatory.Jurisdiction](params.Jurisdictions),
			Industries:    params.Industries,
			Topics:        params.Topics,
			Page:          params.Page,
			Size:          params.Size,
			SortBy:        params.SortBy,
			SortOrder:     params.SortOrder,
		}
		// Dates are pre-validated by the datetime tag.
		if t, err := time.Parse(time.DateOnly, params.EffectiveFrom); err == nil {
			query.EffectiveFrom = t
		}
		if t, err := time.Parse(time.DateOnly, params.EffectiveTo); err == nil {
			query.EffectiveTo = t
		}

		result, err := dao.Search(r.Context, query)
		if err != nil {
			return nil, err
		}
		return listBody(result), nil
	}
}

type getParams struct {
	ID       string `path:"id" validate:"required"`
	DataType string `query:"data_type" validate:"omitempty,oneof=regulation guidance policy standard framework"`
}

func getRegulation(dao *regulatory.DAO) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		var params getParams
		if err := binder.Bind(r, &params); err != nil {
			return badRequest(err), nil
		}

		doc, found, err := dao.GetByID(r.Context, params.ID, regulatory.DataType(params.DataType))
		if err != nil {
			return nil, err
		}
		if !found {
			return notFound("regulation " + params.ID + " not found"), nil
		}
		return doc, nil
	}
}

type relatedParams struct {
	ID  string `path:"id" validate:"required"`
	Max int    `query:"max" validate:"omitempty,min=1,max=20"`
}

func relatedRegulations(dao *regulatory.DAO) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		var params relatedParams
		if err := binder.Bind(r, &params); err != nil {
			return badRequest(err), nil
		}

		related, err := dao.Related(r.Context, params.ID, params.Max)
		if err != nil {
			return nil, err
		}
		if related == nil {
			related = []regulatory.Document{}
		}
		return map[string]any{"items": related, "total": len(related)}, nil
	}
}

type topicParams struct {
	Topic string `path:"topic" validate:"required"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
	Size  int    `query:"size" validate:"omitempty,min=1,max=100"`
}

func regulationsByTopic(dao *regulatory.DAO) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		var params topicParams
		if err := binder.Bind(r, &params); err != nil {
			return badRequest(err), nil
		}

		result, err := dao.ByTopic(r.Context, params.Topic, params.Page, params.Size)
		if err != nil {
			return nil, err
		}
		return listBody(result), nil
	}
}

type latestParams struct {
	Days         int    `query:"days" validate:"omitempty,min=1,max=365"`
	Jurisdiction string `query:"jurisdiction" validate:"omitempty,oneof=global us eu uk apac"`
	Page         int    `query:"page" validate:"omitempty,min=1"`
	Size         int    `query:"size" validate:"omitempty,min=1,max=100"`
}

func latestRegulations(dao *regulatory.DAO) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		var params latestParams
		if err := binder.Bind(r, &params); err != nil {
			return badRequest(err), nil
		}

		result, err := dao.Latest(r.Context, params.Days, regulatory.Jurisdiction(params.Jurisdiction), params.Page, params.Size)
		if err != nil {
			return nil, err
		}
		return listBody(result), nil
	}
}

func createRegulation(dao *regulatory.DAO) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		var doc regulatory.Document
		if err := binder.Bind(r, &doc); err != nil {
			return badRequest(err), nil
		}

		saved, err := dao.Save(r.Context, doc, datasource.WithRefresh())
		if err != nil {
			if isValidationError(err) {
				return badRequest(err), nil
			}
			return nil, err
		}
		return handler.NewResponse(saved, handler.WithStatus(http.StatusCreated)), nil
	}
}

type deleteParams struct {
	ID       string `path:"id" validate:"required"`
	DataType string `query:"data_type" validate:"omitempty,oneof=regulation guidance policy standard framework"`
}

func deleteRegulation(dao *regulatory.DAO) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		var params deleteParams
		if err := binder.Bind(r, &params); err != nil {
			return badRequest(err), nil
		}

		found, err := dao.Delete(r.Context, params.ID, regulatory.DataType(params.DataType), datasource.WithRefresh())
		if err != nil {
			return nil, err
		}
		if !found {
			return notFound("regulation " + params.ID + " not found"), nil
		}
		return map[string]any{"deleted": true, "id": params.ID}, nil
	}
}

func listBody(result *datasource.Result[regulatory.Document]) map[string]any {
	items := result.Hits
	if items == nil {
		items = []regulatory.Document{}
	}
	return map[string]any{
		"items":        items,
		"total":        result.Total,
		"took_ms":      result.TookMs,
		"aggregations": result.Aggregations,
	}
}

func badRequest(err error) *handler.Response {
	return handler.NewResponse(
		map[string]any{"error": err.Error()},
		handler.WithStatus(http.StatusBadRequest),
	)
}

func notFound(msg string) *handler.Response {
	return handler.NewResponse(
		map[string]any{"error": msg},
		handler.WithStatus(http.StatusNotFound),
	)
}

func isValidationError(err error) bool {
	return errors.Is(err, regulatory.ErrMissingTitle) ||
		errors.Is(err, regulatory.ErrInvalidDataType) ||
		errors.Is(err, regulatory.ErrInvalidJurisdiction)
}

func toEnums[E ~string](values []string) []E {
	if len(values) == 0 {
		return nil
	}
	out := make([]E, len(values))
	for i, v := range values {
		out[i] = E(v)
	}
	return out
}
