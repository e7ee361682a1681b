package usecases

import (
	"errors"
	"testing"
)

func TestParseReadingValid(t *testing.T) {
	body := `{"temperature":22.4,"humidity":48,"light":310.5,"ieqi":81.2,"device_id":"esp32-livingroom"}`

	got, err := ParseReading([]byte(body))
	if err != nil {
		t.Fatalf("ParseReading() error = %v", err)
	}
	if got.DeviceID != "esp32-livingroom" || got.Temperature != 22.4 || got.Humidity != 48 || got.Light != 310.5 || got.IEQI != 81.2 {
		t.Errorf("ParseReading() = %+v", got)
	}
	if got.ID != 0 || !got.CreatedAt.IsZero() {
		t.Error("ParseReading() must leave id and created_at to the store")
	}
}

func TestParseReadingInvalidJSON(t *testing.T) {
	for _, body := range []string{"", "{", "temperature=1", `{"temperature":}`} {
		_, err := ParseReading([]byte(body))
		if !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("ParseReading(%q) error = %v, want ErrInvalidJSON", body, err)
		}
	}
}

func TestParseReadingInvalidFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing temperature", `{"humidity":1,"light":1,"ieqi":1,"device_id":"d"}`},
		{"string humidity", `{"temperature":1,"humidity":"50","light":1,"ieqi":1,"device_id":"d"}`},
		{"boolean light", `{"temperature":1,"humidity":1,"light":true,"ieqi":1,"device_id":"d"}`},
		{"null ieqi", `{"temperature":1,"humidity":1,"light":1,"ieqi":null,"device_id":"d"}`},
		{"missing device", `{"temperature":1,"humidity":1,"light":1,"ieqi":1}`},
		{"empty device", `{"temperature":1,"humidity":1,"light":1,"ieqi":1,"device_id":""}`},
		{"zero device", `{"temperature":1,"humidity":1,"light":1,"ieqi":1,"device_id":0}`},
		{"false device", `{"temperature":1,"humidity":1,"light":1,"ieqi":1,"device_id":false}`},
		{"null device", `{"temperature":1,"humidity":1,"light":1,"ieqi":1,"device_id":null}`},
		{"array body", `[1,2,3]`},
		{"string body", `"reading"`},
		{"null body", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReading([]byte(tt.body))
			if !errors.Is(err, ErrInvalidFields) {
				t.Errorf("ParseReading() error = %v, want ErrInvalidFields", err)
			}
		})
	}
}

func TestParseReadingTruthyDeviceIDs(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"0"`, "0"},
		{`7`, "7"},
		{`12.5`, "12.5"},
		{`true`, "true"},
		{`{}`, "{}"},
		{`["a"]`, `["a"]`},
	}

	for _, tt := range tests {
		body := `{"temperature":1,"humidity":1,"light":1,"ieqi":1,"device_id":` + tt.raw + `}`
		got, err := ParseReading([]byte(body))
		if err != nil {
			t.Errorf("device_id %s: error = %v", tt.raw, err)
			continue
		}
		if got.DeviceID != tt.want {
			t.Errorf("device_id %s stored as %q, want %q", tt.raw, got.DeviceID, tt.want)
		}
	}
}

func TestParseReadingNoRangeChecks(t *testing.T) {
	body := `{"temperature":-273.5,"humidity":150,"light":-1,"ieqi":1e6,"device_id":"d"}`
	got, err := ParseReading([]byte(body))
	if err != nil {
		t.Fatalf("ParseReading() error = %v", err)
	}
	if got.Humidity != 150 {
		t.Errorf("Humidity = %v, want 150", got.Humidity)
	}
}
