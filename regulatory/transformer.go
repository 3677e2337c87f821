package regulatory

import (
	"fmt"
	"time"

	"github.com/lambdakit/lambdakit/datasource"
)

// DocumentTransformer maps Document to and from the flat maps stored in the
// search engine. Reads are lenient: unknown fields are ignored, enum values
// are copied as-is, and the engine's "_id" stands in when a source has no id
// field. Dates must still parse; a malformed date is data corruption worth
// surfacing.
type DocumentTransformer struct{}

var _ datasource.RecordTransformer[Document] = DocumentTransformer{}

// Indexed dates are RFC 3339. Older ingests wrote naive ISO timestamps and
// bare dates, so reads accept those too.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (DocumentTransformer) FromDocument(doc map[string]any) (Document, error) {
	d := Document{
		ID:               stringField(doc, "id"),
		Title:            stringField(doc, "title"),
		DataType:         DataType(stringField(doc, "data_type")),
		Jurisdiction:     Jurisdiction(stringField(doc, "jurisdiction")),
		Summary:          stringField(doc, "summary"),
		Content:          stringField(doc, "content"),
		IssuingBody:      stringField(doc, "issuing_body"),
		Citation:         stringField(doc, "citation"),
		URL:              stringField(doc, "url"),
		Industries:       stringsField(doc, "industries"),
		Topics:           stringsField(doc, "topics"),
		Keywords:         stringsField(doc, "keywords"),
		RelatedDocuments: stringsField(doc, "related_documents"),
	}
	if d.ID == "" {
		d.ID = stringField(doc, "_id")
	}
	if meta, ok := doc["metadata"].(map[string]any); ok && len(meta) > 0 {
		d.Metadata = meta
	}

	var err error
	if d.EffectiveDate, err = timeField(doc, "effective_date"); err != nil {
		return Document{}, err
	}
	if d.PublicationDate, err = timeField(doc, "publication_date"); err != nil {
		return Document{}, err
	}
	if d.ExpirationDate, err = timeField(doc, "expiration_date"); err != nil {
		return Document{}, err
	}
	if d.CreatedAt, err = timeField(doc, "created_at"); err != nil {
		return Document{}, err
	}
	if d.UpdatedAt, err = timeField(doc, "updated_at"); err != nil {
		return Document{}, err
	}
	return d, nil
}

func (DocumentTransformer) ToDocument(d Document) (map[string]any, error) {
	doc := map[string]any{
		"title":        d.Title,
		"data_type":    string(d.DataType),
		"jurisdiction": string(d.Jurisdiction),
	}
	putString(doc, "id", d.ID)
	putString(doc, "summary", d.Summary)
	putString(doc, "content", d.Content)
	putString(doc, "issuing_body", d.IssuingBody)
	putString(doc, "citation", d.Citation)
	putString(doc, "url", d.URL)
	putStrings(doc, "industries", d.Industries)
	putStrings(doc, "topics", d.Topics)
	putStrings(doc, "keywords", d.Keywords)
	putStrings(doc, "related_documents", d.RelatedDocuments)
	putTime(doc, "effective_date", d.EffectiveDate)
	putTime(doc, "publication_date", d.PublicationDate)
	putTime(doc, "expiration_date", d.ExpirationDate)
	putTime(doc, "created_at", d.CreatedAt)
	putTime(doc, "updated_at", d.UpdatedAt)
	if len(d.Metadata) > 0 {
		doc["metadata"] = d.Metadata
	}
	return doc, nil
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

// stringsField accepts both []string from in-process writes and []any from
// decoded JSON.
func stringsField(doc map[string]any, key string) []string {
	switch v := doc[key].(type) {
	case []string:
		if len(v) == 0 {
			return nil
		}
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}

func timeField(doc map[string]any, key string) (time.Time, error) {
	raw, ok := doc[key].(string)
	if !ok || raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("field %s: unsupported time value %q", key, raw)
}

func putString(doc map[string]any, key, value string) {
	if value != "" {
		doc[key] = value
	}
}

func putStrings(doc map[string]any, key string, values []string) {
	if len(values) > 0 {
		doc[key] = values
	}
}

func putTime(doc map[string]any, key string, value time.Time) {
	if !value.IsZero() {
		doc[key] = value.UTC().Format(time.RFC3339)
	}
}
