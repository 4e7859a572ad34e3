package thinking

import (
	"errors"
	"reflect"
	"testing"
)

func validInput() map[string]any {
	return map[string]any{
		"text":           "consider the base case",
		"sequenceNumber": float64(1),
		"estimatedTotal": float64(3),
		"continuesNext":  true,
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantField string
	}{
		{
			name:      "empty input reports text",
			mutate:    func(in map[string]any) { clearAll(in) },
			wantField: "text",
		},
		{
			name:      "missing text",
			mutate:    func(in map[string]any) { delete(in, "text") },
			wantField: "text",
		},
		{
			name:      "empty text",
			mutate:    func(in map[string]any) { in["text"] = "" },
			wantField: "text",
		},
		{
			name:      "text wrong type",
			mutate:    func(in map[string]any) { in["text"] = 42 },
			wantField: "text",
		},
		{
			name:      "sequenceNumber as string",
			mutate:    func(in map[string]any) { in["sequenceNumber"] = "1" },
			wantField: "sequenceNumber",
		},
		{
			name:      "missing estimatedTotal",
			mutate:    func(in map[string]any) { delete(in, "estimatedTotal") },
			wantField: "estimatedTotal",
		},
		{
			name:      "continuesNext as string",
			mutate:    func(in map[string]any) { in["continuesNext"] = "false" },
			wantField: "continuesNext",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			_, err := Validate(in)
			if err == nil {
				t.Fatal("Validate() error = nil, want ValidationError")
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %T, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestValidate_OptionalWrongTypeTreatedAbsent(t *testing.T) {
	in := validInput()
	in["isRevision"] = "yes"
	in["revisesSequence"] = "2"
	in["branchId"] = 7
	in["needsMoreSteps"] = 1

	rec, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rec.IsRevision || rec.RevisesSequence != 0 || rec.BranchID != "" || rec.NeedsMoreSteps {
		t.Errorf("wrong-typed optional fields were coerced: %+v", rec)
	}
}

func TestValidate_OptionalFields(t *testing.T) {
	in := validInput()
	in["isRevision"] = true
	in["revisesSequence"] = float64(2)
	in["branchOrigin"] = float64(1)
	in["branchId"] = "alt"
	in["needsMoreSteps"] = true

	rec, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !rec.IsRevision || rec.RevisesSequence != 2 {
		t.Errorf("revision fields = (%v, %d), want (true, 2)", rec.IsRevision, rec.RevisesSequence)
	}
	if rec.BranchID != "alt" || rec.BranchOrigin != 1 {
		t.Errorf("branch fields = (%q, %d), want (alt, 1)", rec.BranchID, rec.BranchOrigin)
	}
	if !rec.NeedsMoreSteps {
		t.Error("NeedsMoreSteps = false, want true")
	}
}

func TestValidate_Idempotent(t *testing.T) {
	in := validInput()

	first, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	second, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate() second error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation differs: %+v vs %+v", first, second)
	}
}

func TestValidate_IntegerTypes(t *testing.T) {
	in := validInput()
	in["sequenceNumber"] = 4
	in["estimatedTotal"] = int64(9)

	rec, err := Validate(in)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rec.SequenceNumber != 4 || rec.EstimatedTotal != 9 {
		t.Errorf("numbers = (%d, %d), want (4, 9)", rec.SequenceNumber, rec.EstimatedTotal)
	}
}

func clearAll(in map[string]any) {
	for k := range in {
		delete(in, k)
	}
}
