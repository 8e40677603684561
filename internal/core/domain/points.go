package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Points is the numeric value of an entry. Legacy exports store it either as
// a JSON number or as a numeric string; both decode to the same value and
// anything unparseable decodes to zero.
type Points float64

func ParsePoints(v any) Points {
	switch p := v.(type) {
	case nil:
		return 0
	case Points:
		return p
	case float64:
		return Points(p)
	case float32:
		return Points(p)
	case int:
		return Points(p)
	case int64:
		return Points(p)
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0
		}
		return Points(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0
		}
		return Points(f)
	case []byte:
		return ParsePoints(string(p))
	}
	return 0
}

func (p *Points) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*p = 0
			return nil
		}
		*p = ParsePoints(s)
		return nil
	}

	*p = ParsePoints(json.Number(data))
	return nil
}

func (p Points) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(p), 'f', -1, 64)), nil
}

func (p *Points) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = 0
	case float64, int64, []byte, string:
		*p = ParsePoints(v)
	default:
		return fmt.Errorf("cannot scan %T into Points", src)
	}
	return nil
}

func (p Points) Value() (driver.Value, error) {
	return float64(p), nil
}

func (p Points) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}
