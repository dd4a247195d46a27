package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Percent is a share of a country total. It is undefined when the denominator is zero
// or the country has no total; an undefined percent is never reported as 0.
type Percent struct {
	Value   float64
	Defined bool
}

// UndefinedPercent returns a percent that cannot be computed.
func UndefinedPercent() Percent {
	return Percent{}
}

// PercentOf returns round(100 * part / total, 2), or an undefined percent when total <= 0.
func PercentOf(part, total float64) Percent {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return UndefinedPercent()
	}
	return Percent{Value: math.Round(100*part/total*100) / 100, Defined: true}
}

// Ptr returns the value as a pointer, nil when undefined.
func (p Percent) Ptr() *float64 {
	if !p.Defined {
		return nil
	}
	v := p.Value
	return &v
}

// String formats the percent with two decimals, or "n/a" when undefined.
func (p Percent) String() string {
	if !p.Defined {
		return "n/a"
	}
	return strconv.FormatFloat(p.Value, 'f', 2, 64) + "%"
}

// MarshalJSON encodes an undefined percent as null.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON decodes null as an undefined percent.
func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = UndefinedPercent()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Percent{Value: v, Defined: true}
	return nil
}
