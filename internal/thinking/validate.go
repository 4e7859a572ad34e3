package thinking

import "encoding/json"

// Validate turns an untyped thought input into a typed Record.
//
// Required fields: text (non-empty string), sequenceNumber (number),
// estimatedTotal (number), continuesNext (boolean). A missing or mistyped
// required field fails with a *ValidationError naming the field.
//
// Optional fields (isRevision, revisesSequence, branchOrigin, branchId,
// needsMoreSteps) are accepted only when present with the correct type;
// a wrong-typed optional field is treated as absent, never coerced.
//
// Validate has no side effects, so validating the same input twice yields
// structurally identical records.
func Validate(input map[string]any) (Record, error) {
	text, ok := input["text"].(string)
	if !ok {
		return Record{}, &ValidationError{Field: "text", Reason: "must be a string"}
	}
	if text == "" {
		return Record{}, &ValidationError{Field: "text", Reason: "must not be empty"}
	}

	seq, ok := asNumber(input["sequenceNumber"])
	if !ok {
		return Record{}, &ValidationError{Field: "sequenceNumber", Reason: "must be a number"}
	}
	total, ok := asNumber(input["estimatedTotal"])
	if !ok {
		return Record{}, &ValidationError{Field: "estimatedTotal", Reason: "must be a number"}
	}
	continues, ok := input["continuesNext"].(bool)
	if !ok {
		return Record{}, &ValidationError{Field: "continuesNext", Reason: "must be a boolean"}
	}

	rec := Record{
		Text:           text,
		SequenceNumber: seq,
		EstimatedTotal: total,
		ContinuesNext:  continues,
	}

	if v, ok := input["isRevision"].(bool); ok {
		rec.IsRevision = v
	}
	if v, ok := asNumber(input["revisesSequence"]); ok {
		rec.RevisesSequence = v
	}
	if v, ok := asNumber(input["branchOrigin"]); ok {
		rec.BranchOrigin = v
	}
	if v, ok := input["branchId"].(string); ok {
		rec.BranchID = v
	}
	if v, ok := input["needsMoreSteps"].(bool); ok {
		rec.NeedsMoreSteps = v
	}

	return rec, nil
}

// asNumber accepts the numeric types JSON decoding can produce.
func asNumber(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}
