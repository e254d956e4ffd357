package defs

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Attribute is one name/value pair of an upstream XML element
type Attribute struct {
	Name  string
	Value string
}

// Attributes is the neutral attribute list delivered by the document parser
type Attributes []Attribute

// AttributeParser is implemented by every record that can be filled from an attribute list
type AttributeParser interface {
	ParseAttributes(Attributes)
}

// FieldTable maps an attribute name to the setter that parses and stores its value
type FieldTable map[string]func(string)

// Apply runs a single pass over the list. Unknown names are ignored, and a value
// that fails to parse leaves its field at the zero value.
func (a Attributes) Apply(table FieldTable) {
	for _, attr := range a {
		if set, ok := table[attr.Name]; ok {
			set(strings.TrimSpace(attr.Value))
		}
	}
}

// Get returns the value of the first attribute with the given name
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

func StringField(dst *string) func(string) {
	return func(v string) { *dst = v }
}

func IntField(dst *int) func(string) {
	return func(v string) {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = 0
		}
		*dst = n
	}
}

func Int64Field(dst *int64) func(string) {
	return func(v string) {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			n = 0
		}
		*dst = n
	}
}

func FloatField(dst *float64) func(string) {
	return func(v string) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			f = 0
		}
		*dst = f
	}
}

// SizeField parses sizes such as "32K", "512K" or "1M" where the single letter
// suffix is binary (K = 1024)
func SizeField(dst *int64) func(string) {
	return func(v string) {
		*dst = ParseSize(v)
	}
}

// IDSetField parses a comma separated list of server IDs, skipping malformed entries
func IDSetField(dst *map[int]struct{}) func(string) {
	return func(v string) {
		ids := make(map[int]struct{})
		for _, part := range strings.Split(v, ",") {
			if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				ids[id] = struct{}{}
			}
		}
		*dst = ids
	}
}

// ParseSize returns the byte count of a size attribute, 0 when malformed
func ParseSize(v string) int64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	switch last := v[len(v)-1]; last {
	case 'K', 'k', 'M', 'm', 'G', 'g':
		v += "iB"
	}
	n, err := humanize.ParseBytes(v)
	if err != nil {
		return 0
	}
	return int64(n)
}
