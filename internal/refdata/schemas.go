// internal/refdata/schemas.go
package refdata

// JSON schemas each reference file must satisfy before the stricter
// cross-table consistency checks run.

const questionsSchema = `{
	"type": "object",
	"required": ["assessment"],
	"properties": {
		"assessment": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "type", "text"],
					"properties": {
						"id":   {"type": "string", "minLength": 1},
						"type": {"type": "string"},
						"text": {"type": "string", "minLength": 1}
					}
				}
			}
		}
	}
}`

const rulesSchema = `{
	"type": "object",
	"required": ["tier_boundaries", "whole_business_summaries"],
	"properties": {
		"tier_boundaries": {
			"type": "object",
			"minProperties": 3,
			"maxProperties": 3,
			"additionalProperties": {
				"type": "array",
				"minItems": 2,
				"maxItems": 2,
				"items": {"type": "number", "minimum": 0, "maximum": 1}
			}
		},
		"whole_business_summaries": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`

const toneSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {
		"type": "object",
		"additionalProperties": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

const catalystsSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {
		"type": "object",
		"required": ["definition", "primary_focus_areas"],
		"properties": {
			"definition": {"type": "string", "minLength": 1},
			"primary_focus_areas": {
				"type": "array",
				"items": {"type": "string"}
			}
		}
	}
}`

const recommendationsSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"additionalProperties": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["recommendation"],
					"properties": {
						"recommendation": {"type": "string", "minLength": 1},
						"tone_focus":     {"type": "string"}
					}
				}
			}
		}
	}
}`
