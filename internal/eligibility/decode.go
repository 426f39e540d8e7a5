package eligibility

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const profileSchemaJSON = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "score": {"type": "integer"},
    "disqualifiers": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "boolean"}
    }
  }
}`

const requirementSchemaJSON = `{
  "type": "object",
  "required": ["minScore"],
  "properties": {
    "minScore": {"type": "integer"},
    "relevantDisqualifiers": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "boolean"}
    },
    "alwaysDisqualifying": {
      "type": ["array", "null"],
      "items": {"type": "string", "minLength": 1},
      "uniqueItems": true
    }
  }
}`

var (
	profileSchema     = mustSchema(profileSchemaJSON)
	requirementSchema = mustSchema(requirementSchemaJSON)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

// DecodeProfile parses a JSON applicant profile. A missing or non-integer
// score and non-boolean flag values yield a *ValidationError naming the field.
func DecodeProfile(data []byte) (ApplicantProfile, error) {
	var p ApplicantProfile
	if err := decodeWithSchema(profileSchema, data, &p); err != nil {
		return ApplicantProfile{}, err
	}
	return p, nil
}

// DecodeRequirement parses a JSON job requirement. An omitted or null
// alwaysDisqualifying list leaves the catalog policy in force; an empty
// list disables it.
func DecodeRequirement(data []byte) (JobRequirement, error) {
	var r JobRequirement
	if err := decodeWithSchema(requirementSchema, data, &r); err != nil {
		return JobRequirement{}, err
	}
	return r, nil
}

func decodeWithSchema(schema *gojsonschema.Schema, data []byte, target any) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationError{Field: "(root)", Message: "malformed json"}
	}
	if !result.Valid() {
		return firstSchemaError(result.Errors())
	}
	if err := json.Unmarshal(data, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ValidationError{Field: typeErr.Field, Message: "must be " + typeErr.Type.String()}
		}
		return &ValidationError{Field: "(root)", Message: err.Error()}
	}
	return nil
}

func firstSchemaError(errs []gojsonschema.ResultError) error {
	fields := make([]*ValidationError, 0, len(errs))
	for _, e := range errs {
		field := e.Field()
		if e.Type() == "required" {
			if prop, ok := e.Details()["property"].(string); ok {
				switch {
				case field == "(root)" || field == "":
					field = prop
				case field == prop || strings.HasSuffix(field, "."+prop):
				default:
					field = field + "." + prop
				}
			}
		}
		fields = append(fields, &ValidationError{Field: field, Message: e.Description()})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return strings.Compare(fields[i].Field, fields[j].Field) < 0
	})
	if len(fields) == 0 {
		return &ValidationError{Field: "(root)", Message: "invalid document"}
	}
	return fields[0]
}
