package cache

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Value kinds on the cache wire. The envelope replaces runtime type
// inspection with an explicit tagged union: scalars, structured JSON
// containers, and opaque binary payloads.
const (
	kindBasic  = "basic"
	kindJSON   = "json"
	kindBinary = "binary"
)

// envelope is the serialized cache record.
type envelope struct {
	Kind string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Encode serializes a value for storage. Scalars (strings, booleans,
// numbers) are tagged basic; []byte is tagged binary and base64-encoded;
// everything else must be JSON-marshalable and is tagged json.
func Encode(value any) (string, error) {
	var kind string
	var payload any

	switch v := value.(type) {
	case nil:
		kind, payload = kindBasic, nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		kind, payload = kindBasic, v
	case []byte:
		kind, payload = kindBinary, base64.StdEncoding.EncodeToString(v)
	default:
		kind, payload = kindJSON, v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal cache payload: %w", err)
	}

	raw, err := json.Marshal(envelope{Kind: kind, Data: data})
	if err != nil {
		return "", fmt.Errorf("marshal cache envelope: %w", err)
	}
	return string(raw), nil
}

// Decode deserializes a stored record into out, which must be a pointer
// of the type that was encoded. Binary records decode into *[]byte.
func Decode(raw string, out any) error {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("unmarshal cache envelope: %w", err)
	}

	switch env.Kind {
	case kindBasic, kindJSON:
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("unmarshal %s cache payload: %w", env.Kind, err)
		}
		return nil
	case kindBinary:
		dst, ok := out.(*[]byte)
		if !ok {
			return fmt.Errorf("binary cache payload requires *[]byte, got %T", out)
		}
		var encoded string
		if err := json.Unmarshal(env.Data, &encoded); err != nil {
			return fmt.Errorf("unmarshal binary cache payload: %w", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("decode binary cache payload: %w", err)
		}
		*dst = decoded
		return nil
	default:
		return fmt.Errorf("unknown cache value kind %q", env.Kind)
	}
}
