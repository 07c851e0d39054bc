// internal/engine/validate.go
package engine

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Structural validation for persisted records. The same validators are used
// by the load path (self-healing corrupted keys) and the import path, so the
// two can never drift apart.

const emotionVectorSchemaJSON = `{
	"type": "object",
	"required": ["joy", "anger", "sadness", "fear", "surprise", "disgust", "trust", "lastUpdated"],
	"properties": {
		"joy":         {"type": "number", "minimum": 0, "maximum": 1},
		"anger":       {"type": "number", "minimum": 0, "maximum": 1},
		"sadness":     {"type": "number", "minimum": 0, "maximum": 1},
		"fear":        {"type": "number", "minimum": 0, "maximum": 1},
		"surprise":    {"type": "number", "minimum": 0, "maximum": 1},
		"disgust":     {"type": "number", "minimum": 0, "maximum": 1},
		"trust":       {"type": "number", "minimum": 0, "maximum": 1},
		"lastUpdated": {"type": "integer"}
	}
}`

var petSchemaJSON = fmt.Sprintf(`{
	"type": "object",
	"required": ["id", "stage", "feedingCount", "emotionVector", "createdAt"],
	"properties": {
		"id":            {"type": "string", "minLength": 1},
		"stage":         {"type": "integer", "enum": [1, 2]},
		"feedingCount":  {"type": "integer", "minimum": 0},
		"emotionVector": %s,
		"createdAt":     {"type": "string"}
	}
}`, emotionVectorSchemaJSON)

var feedingRecordSchemaJSON = fmt.Sprintf(`{
	"type": "object",
	"required": ["id", "timestamp", "inputText", "words", "emotionAnalysis"],
	"properties": {
		"id":              {"type": "string", "minLength": 1},
		"timestamp":       {"type": "string"},
		"inputText":       {"type": "string"},
		"words":           {"type": "array", "items": {"type": "string"}},
		"emotionAnalysis": %s
	}
}`, emotionVectorSchemaJSON)

var historySchemaJSON = fmt.Sprintf(`{
	"type": "array",
	"items": %s
}`, feedingRecordSchemaJSON)

// An expression is exactly one of the two variants: art (imageUrl) or
// poetry (lines). An entry carrying both fails the oneOf.
var expressionSchemaJSON = fmt.Sprintf(`{
	"type": "object",
	"required": ["id", "timestamp"],
	"properties": {
		"id":              {"type": "string", "minLength": 1},
		"timestamp":       {"type": "string"},
		"imageUrl":        {"type": "string", "minLength": 1},
		"prompt":          {"type": "string"},
		"dominantEmotion": {"type": "string"},
		"lines":           {"type": "array", "minItems": 3, "maxItems": 5, "items": {"type": "string"}},
		"sourceText":      {"type": "string"},
		"emotionContext":  %s
	},
	"oneOf": [
		{"required": ["imageUrl", "prompt", "dominantEmotion"]},
		{"required": ["lines", "sourceText", "emotionContext"]}
	]
}`, emotionVectorSchemaJSON)

var expressionsSchemaJSON = fmt.Sprintf(`{
	"type": "array",
	"items": %s
}`, expressionSchemaJSON)

var documentSchemaJSON = fmt.Sprintf(`{
	"type": "object",
	"required": ["pet", "feedingHistory", "expressions"],
	"properties": {
		"pet":            {"oneOf": [{"type": "null"}, %s]},
		"feedingHistory": %s,
		"expressions":    %s
	}
}`, petSchemaJSON, historySchemaJSON, expressionsSchemaJSON)

var (
	petSchema         = mustSchema(petSchemaJSON)
	historySchema     = mustSchema(historySchemaJSON)
	expressionsSchema = mustSchema(expressionsSchemaJSON)
	documentSchema    = mustSchema(documentSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

func validate(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if result.Valid() {
		return nil
	}
	descs := result.Errors()
	msgs := make([]string, 0, 3)
	for i, desc := range descs {
		if i == 3 {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(descs)-3))
			break
		}
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid shape: %s", strings.Join(msgs, "; "))
}

// ValidatePet checks a serialized PetState.
func ValidatePet(raw []byte) error {
	return validate(petSchema, raw)
}

// ValidateFeedingHistory checks a serialized FeedingRecord array.
func ValidateFeedingHistory(raw []byte) error {
	return validate(historySchema, raw)
}

// ValidateExpressions checks a serialized Expression array.
func ValidateExpressions(raw []byte) error {
	return validate(expressionsSchema, raw)
}

// ValidateDocument checks a serialized StorageDocument.
func ValidateDocument(raw []byte) error {
	return validate(documentSchema, raw)
}
