package sensor

import (
	"testing"
	"time"
)

func TestParseRoom(t *testing.T) {
	tests := []struct {
		in      string
		want    Room
		wantErr bool
	}{
		{"1", Room1, false},
		{" 3 ", Room3, false},
		{"0", 0, true},
		{"4", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRoom(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRoom(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRoom(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestKindTokensAndBounds(t *testing.T) {
	tests := []struct {
		kind  Kind
		token string
		lo    float64
		hi    float64
	}{
		{Temperature, "temp", 0, 40},
		{Humidity, "humedad", 0, 100},
		{AirQuality, "calidad", 0, 1000},
	}
	for _, tt := range tests {
		if string(tt.kind) != tt.token {
			t.Errorf("token: got %q, want %q", tt.kind, tt.token)
		}
		b := tt.kind.Bounds()
		if b.Min != tt.lo || b.Max != tt.hi {
			t.Errorf("%s bounds: got %+v, want [%v,%v]", tt.kind, b, tt.lo, tt.hi)
		}
	}
	if Kind("bogus").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestReadingValue(t *testing.T) {
	r := Reading{Room: Room2, Temperature: 21.5, Humidity: 40, AirQuality: 350}
	if r.Value(Temperature) != 21.5 || r.Value(Humidity) != 40 || r.Value(AirQuality) != 350 {
		t.Errorf("unexpected values: %+v", r)
	}
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("GMT-6", -6*3600)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-11-20T14:03:05Z", time.Date(2024, 11, 20, 14, 3, 5, 0, time.UTC)},
		{"2024-11-20T14:03:05.250-06:00", time.Date(2024, 11, 20, 14, 3, 5, 250e6, loc)},
		{"2024-11-20T14:03:05", time.Date(2024, 11, 20, 14, 3, 5, 0, loc)},
		{"2024-11-20 14:03:05", time.Date(2024, 11, 20, 14, 3, 5, 0, loc)},
		{"2024-11-20T14:03:05.123", time.Date(2024, 11, 20, 14, 3, 5, 123e6, loc)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in, loc)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTimestamp("yesterday", loc); err == nil {
		t.Error("expected error for garbage timestamp")
	}
}

func TestAgeLabel(t *testing.T) {
	now := time.Date(2024, 11, 20, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		ts   string
		want string
	}{
		{"2024-11-20T14:55:00Z", "5 minutes ago"},
		{"2024-11-20T14:59:30Z", "30 seconds ago"},
		{"2024-11-20T12:00:00Z", "3 hours ago"},
		{"not a time", "unknown"},
	}
	for _, tt := range tests {
		if got := AgeLabel(tt.ts, now, time.UTC); got != tt.want {
			t.Errorf("AgeLabel(%q) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}
