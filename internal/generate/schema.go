package generate

import "encoding/json"

// Schemas constraining structured agent outputs. The chat client validates
// responses against these and requests repairs when they do not conform.

var keyPointsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"sections": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"section": {"type": "string"},
					"points": {"type": "array", "items": {"type": "string"}}
				},
				"required": ["section", "points"]
			}
		}
	},
	"required": ["sections"]
}`)

var evaluationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"teachability": {"type": "integer", "minimum": 1, "maximum": 10},
		"conversational_feel": {"type": "integer", "minimum": 1, "maximum": 10},
		"friction_disagreement": {"type": "integer", "minimum": 1, "maximum": 10},
		"takeaway_clarity": {"type": "integer", "minimum": 1, "maximum": 10},
		"accuracy": {"type": "integer", "minimum": 1, "maximum": 10},
		"coverage": {"type": "integer", "minimum": 1, "maximum": 10},
		"overall": {"type": "number"},
		"feedback": {"type": "string"}
	},
	"required": ["teachability", "conversational_feel", "friction_disagreement", "takeaway_clarity", "accuracy", "coverage", "overall", "feedback"]
}`)
