package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type scalarKind int

const (
	scalarAbsent scalarKind = iota
	scalarString
	scalarNumber
)

// Scalar is a loosely typed book field that may arrive as a string or a number.
// Anything else (null, bool, list, map) decodes to an absent scalar instead of failing.
type Scalar struct {
	kind scalarKind
	str  string
	num  float64
}

// String builds a string scalar.
func String(s string) Scalar { return Scalar{kind: scalarString, str: s} }

// Number builds a numeric scalar.
func Number(f float64) Scalar { return Scalar{kind: scalarNumber, num: f} }

// IsZero reports whether the scalar was absent in the source document.
func (s Scalar) IsZero() bool { return s.kind == scalarAbsent }

// ID normalises the scalar to a section identifier: trimmed non-empty strings and
// finite numbers are valid, everything else reports false.
func (s Scalar) ID() (string, bool) {
	switch s.kind {
	case scalarString:
		v := strings.TrimSpace(s.str)
		return v, v != ""
	case scalarNumber:
		if math.IsNaN(s.num) || math.IsInf(s.num, 0) {
			return "", false
		}
		return strconv.FormatFloat(s.num, 'f', -1, 64), true
	}
	return "", false
}

// Float parses the scalar as a finite number.
func (s Scalar) Float() (float64, bool) {
	var f float64
	switch s.kind {
	case scalarNumber:
		f = s.num
	case scalarString:
		v := strings.TrimSpace(s.str)
		if v == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	*s = Scalar{}
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return nil
	}
	switch node.ShortTag() {
	case "!!str":
		*s = String(node.Value)
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil
		}
		*s = Number(f)
	}
	return nil
}

func (s Scalar) MarshalYAML() (interface{}, error) {
	switch s.kind {
	case scalarString:
		return s.str, nil
	case scalarNumber:
		return s.num, nil
	}
	return nil, nil
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	*s = Scalar{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*s = String(t)
	case float64:
		*s = Number(t)
	}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case scalarString:
		return json.Marshal(s.str)
	case scalarNumber:
		return json.Marshal(s.num)
	}
	return []byte("null"), nil
}
