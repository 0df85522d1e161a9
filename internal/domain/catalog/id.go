package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a product or category in the remote store.
// Valid ids are strictly positive; the zero value means "not assigned".
type ID int64

// ParseID converts user or wire text into an ID. Surrounding whitespace is
// ignored and integral float notation ("2.0") is accepted. Anything else,
// including zero and negative numbers, is rejected.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty id")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return positive(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("invalid id %q: not an integer", s)
	}
	return positive(int64(f))
}

func positive(n int64) (ID, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid id %d: must be positive", n)
	}
	return ID(n), nil
}

// Valid reports whether the id refers to a persisted entity
func (id ID) Valid() bool {
	return id > 0
}

// String returns the decimal form of the id, or "" when unset
func (id ID) String() string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts numbers, numeric strings and null. Servers are not
// consistent about emitting ids as numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			*id = 0
			return nil
		}
	} else {
		raw = string(data)
	}

	parsed, err := ParseID(raw)
	if err != nil {
		// zero and negative ids are read as unset and left to Valid
		if n, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64); perr == nil && n <= 0 && n == math.Trunc(n) {
			*id = 0
			return nil
		}
		return err
	}
	*id = parsed
	return nil
}
