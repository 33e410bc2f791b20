package preference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Element is a single member of a Domain. Categorical domains hold labels,
// Continuous and Interval domains hold numbers.
type Element struct {
	label   string
	value   float64
	numeric bool
}

// Label returns a categorical element.
func Label(s string) Element { return Element{label: s} }

// Number returns a numeric element.
func Number(v float64) Element { return Element{value: v, numeric: true} }

func (e Element) IsNumeric() bool { return e.numeric }

// Float returns the numeric value and whether the element is numeric.
func (e Element) Float() (float64, bool) { return e.value, e.numeric }

func (e Element) String() string {
	if e.numeric {
		return strconv.FormatFloat(e.value, 'g', -1, 64)
	}
	return e.label
}

// Less orders numbers before labels, numbers by value and labels lexically.
func (e Element) Less(o Element) bool {
	if e.numeric != o.numeric {
		return e.numeric
	}
	if e.numeric {
		return e.value < o.value
	}
	return e.label < o.label
}

func (e Element) MarshalJSON() ([]byte, error) {
	if e.numeric {
		return json.Marshal(e.value)
	}
	return json.Marshal(e.label)
}

func (e *Element) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = Label(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("element must be a string or number: %w", err)
	}
	*e = Number(v)
	return nil
}
