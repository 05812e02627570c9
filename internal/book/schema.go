package book

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema is the shape a raw book document must have before it is
// decoded. Unknown fields are rejected, except the store-assigned ids.
const documentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"_id":            {},
		"id":             {"type": "integer"},
		"title":          {"type": "string", "minLength": 1},
		"author":         {"type": "string", "minLength": 1},
		"genre":          {"type": "string", "minLength": 1},
		"published_year": {"type": "integer"},
		"price":          {"type": "number", "minimum": 0},
		"in_stock":       {"type": "boolean"}
	},
	"required": ["title", "author", "genre", "published_year", "price", "in_stock"],
	"additionalProperties": false
}`

var compiledSchema *gojsonschema.Schema

func init() {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	if err != nil {
		panic(fmt.Sprintf("book: invalid document schema: %v", err))
	}
	compiledSchema = s
}

// ValidateDocument checks one raw JSON document against the book schema.
func ValidateDocument(raw []byte) []ValidationError {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return []ValidationError{{Message: fmt.Sprintf("malformed document: %v", err)}}
	}
	if result.Valid() {
		return nil
	}
	out := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		out = append(out, ValidationError{Field: re.Field(), Message: re.Description()})
	}
	return out
}

// DecodeDocuments parses a JSON array of book documents, validating each one
// against the schema and the struct rules. Ids in the input are dropped; the
// store assigns them.
func DecodeDocuments(data []byte) ([]Book, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of documents: %v", ErrInvalidDocument, err)
	}

	books := make([]Book, 0, len(raws))
	for i, raw := range raws {
		if errs := ValidateDocument(raw); len(errs) > 0 {
			return nil, &DocumentError{Index: i, Errors: errs}
		}
		var b Book
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, &DocumentError{Index: i, Errors: []ValidationError{{Message: err.Error()}}}
		}
		b.ID = 0
		if errs := ValidateStruct(b); len(errs) > 0 {
			return nil, &DocumentError{Index: i, Errors: errs}
		}
		books = append(books, b)
	}
	return books, nil
}
