package verify

import "encoding/json"

// Schemas constraining the verification agents' structured outputs.

var claimsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"claims": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"claim_text": {"type": "string"},
					"status": {"type": "string", "enum": ["TRACED", "PARTIALLY_TRACED", "NOT_TRACED"]},
					"source_page": {"type": ["integer", "null"]},
					"source_section": {"type": ["string", "null"]}
				},
				"required": ["claim_text", "status"]
			}
		}
	},
	"required": ["claims"]
}`)

var coverageSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"section": {"type": "string"},
		"status": {"type": "string", "enum": ["COVERED", "PARTIAL", "OMITTED"]},
		"key_points_total": {"type": "integer", "minimum": 0},
		"key_points_covered": {"type": "integer", "minimum": 0},
		"omitted_points": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["section", "status", "key_points_total", "key_points_covered", "omitted_points"]
}`)
