package http

import (
	"encoding/json"
	"net/http"

	"github.com/Cuutu/brasil2026/internal/core"
)

const maxBodyBytes = 1 << 20 // 1MB

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(out)
}

// amountFromJSON coerces an amountBRL field into a validated float64.
// Clients send numbers, but some datastore round-trips deliver decimal
// strings; both are accepted.
func amountFromJSON(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, core.ErrInvalidAmount
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, core.ErrInvalidAmount
	}

	switch t := v.(type) {
	case float64:
		if err := core.ValidateAmount(t); err != nil {
			return 0, err
		}
		return t, nil
	case string:
		return core.ParseAmount(t)
	default:
		return 0, core.ErrInvalidAmount
	}
}

// isJSONNull reports whether the raw field was absent or an explicit null.
func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
