package usecases

import (
	"encoding/json"
	"errors"
	"strconv"

	"ieqi-server/entities"
)

var (
	ErrInvalidJSON   = errors.New("request body is not valid JSON")
	ErrInvalidFields = errors.New("missing or invalid reading fields")
)

// ParseReading decodes an ingest body into a Reading that has not been stored
// yet. The four measurements must be JSON numbers; device_id only has to be
// truthy, so "", 0, false and null are rejected while other scalars are kept
// in their JSON text form.
func ParseReading(body []byte) (*entities.Reading, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, ErrInvalidJSON
	}

	// Non-object documents behave like an object with no fields.
	fields, _ := decoded.(map[string]any)

	temperature, ok1 := fields["temperature"].(float64)
	humidity, ok2 := fields["humidity"].(float64)
	light, ok3 := fields["light"].(float64)
	ieqi, ok4 := fields["ieqi"].(float64)
	deviceID, ok5 := deviceIDOf(fields["device_id"])

	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil, ErrInvalidFields
	}

	return &entities.Reading{
		DeviceID:    deviceID,
		Temperature: temperature,
		Humidity:    humidity,
		Light:       light,
		IEQI:        ieqi,
	}, nil
}

func deviceIDOf(v any) (string, bool) {
	if !truthy(v) {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return "true", true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
