package transform

import (
	"testing"
)

func TestDelayPension_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tr      *DelayPension
		wantErr bool
	}{
		{"cpp on everyone", &DelayPension{Stream: "cpp", Age: 70}, false},
		{"named person", &DelayPension{Person: "jordan", Stream: "cpp", Age: 68}, false},
		{"missing stream", &DelayPension{Stream: "db", Age: 65}, true},
		{"stream on wrong person", &DelayPension{Person: "jordan", Stream: "oas", Age: 70}, true},
		{"empty stream", &DelayPension{Age: 70}, true},
		{"age out of range", &DelayPension{Stream: "cpp", Age: 120}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tr.Validate(createTestInput())
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDelayPension_ApplyNamedPerson(t *testing.T) {
	result, err := (&DelayPension{Person: "jordan", Stream: "cpp", Age: 68}).Apply(createTestInput())
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if result.Persons[1].Pensions[0].StartAge != 68 {
		t.Errorf("Expected jordan's cpp at 68, got %d", result.Persons[1].Pensions[0].StartAge)
	}
	if result.Persons[0].Pensions[1].StartAge != 65 {
		t.Errorf("Expected alex's cpp unchanged, got %d", result.Persons[0].Pensions[1].StartAge)
	}
}

func TestDelayPension_Description(t *testing.T) {
	if d := (&DelayPension{Stream: "cpp", Age: 70}).Description(); d != "Start cpp at 70" {
		t.Errorf("Unexpected description %q", d)
	}
	if d := (&DelayPension{Person: "alex", Stream: "oas", Age: 70}).Description(); d != "Start alex's oas at 70" {
		t.Errorf("Unexpected description %q", d)
	}
}
