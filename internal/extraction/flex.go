package extraction

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// number decodes any JSON scalar into a float64. Strings are parsed after
// dropping thousands separators and currency noise; anything unparseable,
// null or absent becomes 0.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = number(f)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	*n = number(parseAmount(s))
	return nil
}

// parseAmount reads "1,200,000 VND", "1.200.000", " 850000 ", "-15.5" and the like.
func parseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	digits := b.String()
	// "1.200.000" uses dots as thousands separators
	if strings.Count(digits, ".") > 1 {
		digits = strings.ReplaceAll(digits, ".", "")
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// text decodes any JSON scalar into a string; null and objects become "".
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	*t = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = text(strings.TrimSpace(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*t = text(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*t = text(strconv.FormatBool(b))
	}
	return nil
}

// textList accepts either an array of scalars or a single string.
type textList []string

func (l *textList) UnmarshalJSON(data []byte) error {
	*l = nil
	var items []text
	if err := json.Unmarshal(data, &items); err == nil {
		for _, it := range items {
			if it != "" {
				*l = append(*l, string(it))
			}
		}
		return nil
	}
	var single text
	if err := json.Unmarshal(data, &single); err == nil && single != "" {
		*l = textList{string(single)}
	}
	return nil
}
