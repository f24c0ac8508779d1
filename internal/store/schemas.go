package store

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON schemas for the score and weight blobs. Validation runs on every
// load so a truncated or hand-edited blob is rejected before it can feed
// the blender.

const userScoreSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"additionalProperties": {"type": "number"}
	}
}`

const globalScoreSchema = `{
	"type": "object",
	"additionalProperties": {"type": "number"}
}`

const weightSchema = userScoreSchema

var (
	userScoreValidator   = gojsonschema.NewStringLoader(userScoreSchema)
	globalScoreValidator = gojsonschema.NewStringLoader(globalScoreSchema)
	weightValidator      = gojsonschema.NewStringLoader(weightSchema)
)

func validateBlob(schema gojsonschema.JSONLoader, data []byte, path string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate blob %s: %w", path, err)
	}
	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}
	return fmt.Errorf("blob %s failed schema validation: %s", path, strings.Join(messages, "; "))
}
