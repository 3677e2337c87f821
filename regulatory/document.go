package regulatory

import (
	"fmt"
	"strings"
	"time"
)

// DataType classifies a regulatory document. Each type is stored in its own
// index.
type DataType string

const (
	DataTypeRegulation DataType = "regulation"
	DataTypeGuidance   DataType = "guidance"
	DataTypePolicy     DataType = "policy"
	DataTypeStandard   DataType = "standard"
	DataTypeFramework  DataType = "framework"
)

// Valid reports whether the data type is one of the known values.
func (t DataType) Valid() bool {
	switch t {
	case DataTypeRegulation, DataTypeGuidance, DataTypePolicy, DataTypeStandard, DataTypeFramework:
		return true
	}
	return false
}

// Jurisdiction names the regulatory regime a document belongs to.
type Jurisdiction string

const (
	JurisdictionGlobal Jurisdiction = "global"
	JurisdictionUS     Jurisdiction = "us"
	JurisdictionEU     Jurisdiction = "eu"
	JurisdictionUK     Jurisdiction = "uk"
	JurisdictionAPAC   Jurisdiction = "apac"
)

// Valid reports whether the jurisdiction is one of the known values.
func (j Jurisdiction) Valid() bool {
	switch j {
	case JurisdictionGlobal, JurisdictionUS, JurisdictionEU, JurisdictionUK, JurisdictionAPAC:
		return true
	}
	return false
}

// Document is a regulatory document as stored and served. Zero time values
// mean the date is unknown; they are omitted on both the index and API wire
// forms.
type Document struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	DataType         DataType       `json:"data_type"`
	Jurisdiction     Jurisdiction   `json:"jurisdiction"`
	Summary          string         `json:"summary,omitempty"`
	Content          string         `json:"content,omitempty"`
	EffectiveDate    time.Time      `json:"effective_date,omitzero"`
	PublicationDate  time.Time      `json:"publication_date,omitzero"`
	ExpirationDate   time.Time      `json:"expiration_date,omitzero"`
	IssuingBody      string         `json:"issuing_body,omitempty"`
	Citation         string         `json:"citation,omitempty"`
	URL              string         `json:"url,omitempty"`
	Industries       []string       `json:"industries,omitempty"`
	Topics           []string       `json:"topics,omitempty"`
	Keywords         []string       `json:"keywords,omitempty"`
	RelatedDocuments []string       `json:"related_documents,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at,omitzero"`
	UpdatedAt        time.Time      `json:"updated_at,omitzero"`
}

// Validate checks the fields a document must carry before it can be stored.
// Reads stay lenient; only the write path validates.
func (d Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrMissingTitle
	}
	if !d.DataType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDataType, d.DataType)
	}
	if !d.Jurisdiction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidJurisdiction, d.Jurisdiction)
	}
	return nil
}
