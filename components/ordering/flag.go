package ordering

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Flag is a boolean that accepts the shapes backends use for is_active:
// true/false, 1/0, "1"/"0", "true"/"false", "yes"/"no", "on"/"off" and null.
type Flag bool

// ParseFlag converts a decoded JSON value into a Flag.
func ParseFlag(v any) (Flag, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return Flag(b), nil
	case float64:
		return numericFlag(b)
	case int:
		return numericFlag(float64(b))
	case json.Number:
		f, err := b.Float64()
		if err != nil {
			return false, fmt.Errorf("ordering: invalid flag %q: %w", b.String(), err)
		}
		return numericFlag(f)
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes", "on", "y", "t":
			return true, nil
		case "0", "false", "no", "off", "n", "f", "":
			return false, nil
		}
		return false, fmt.Errorf("ordering: invalid flag %q", b)
	default:
		return false, fmt.Errorf("ordering: unsupported flag type %T", v)
	}
}

func numericFlag(f float64) (Flag, error) {
	switch f {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("ordering: invalid numeric flag %v", f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("ordering: decode flag: %w", err)
	}
	parsed, err := ParseFlag(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalJSON always emits a JSON boolean.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}
