// internal/server/validation.go
package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "assessment-engine/internal/common/errors"
)

// submissionSchema validates the POST /assess body before decoding.
// The catalyst enum and score bounds are enforced here so the service
// layer only ever sees well-formed submissions from this transport.
const submissionSchema = `{
	"type": "object",
	"required": ["catalyst", "answers"],
	"properties": {
		"catalyst": {
			"type": "string",
			"enum": [
				"Crisis",
				"Economic Uncertainty",
				"New Opportunity",
				"Steady Growth",
				"Lifestyle Change",
				"Operational Adjustments"
			]
		},
		"answers": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["question_id", "score"],
				"properties": {
					"question_id": {"type": "string", "minLength": 1},
					"score": {"type": "integer", "minimum": 0, "maximum": 4},
					"notes": {"type": "string"}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`

var submissionSchemaLoader = gojsonschema.NewStringLoader(submissionSchema)

// validateSubmission checks a raw request body against the submission
// schema and returns a validation error listing every violation.
func validateSubmission(body []byte) error {
	result, err := gojsonschema.Validate(submissionSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperrors.NewValidationFailedError(fmt.Sprintf("invalid JSON: %s", err.Error()))
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return apperrors.NewValidationFailedError(strings.Join(msgs, "; "))
	}
	return nil
}
