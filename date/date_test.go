package date

import (
	"encoding/json"
	"testing"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, 7, 1)},
		{in: "2025-7-1", want: New(2025, 7, 1)},
		{in: "2024-01-15T00:00:00.000Z", want: New(2024, 1, 15)},
		{in: "2024-01-15T23:30:00+02:00", want: New(2024, 1, 15)},
		{in: "2025-07-01T00:00:00+02:00", want: New(2025, 7, 1)},
		{in: "2025-06-30T23:30:00-05:00", want: New(2025, 6, 30)},
		{in: "", want: Date{}},
		{in: "15/01/2024", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2025, 2, 29), New(2025, 3, 1); got != want {
		t.Errorf("New(2025, 2, 29) = %v, want %v", got, want)
	}
	if got, want := New(2025, 12, 31).Add(1), New(2026, 1, 1); got != want {
		t.Errorf("Add(1) = %v, want %v", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, d := range []Date{{}, New(2024, 2, 29), Today()} {
		data, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("Marshal(%v) unexpected error: %v", d, err)
		}
		var got Date
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s) unexpected error: %v", data, err)
		}
		if got != d {
			t.Errorf("round trip of %v gave %v (json %s)", d, got, data)
		}
	}
}
