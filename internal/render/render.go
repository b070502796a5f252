// Package render turns decoded replies into terminal text or JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nkootstra/kvwire/internal/protocol"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Text renders v one line per value. Array elements are indented two
// spaces per nesting level.
func (s Styler) Text(v protocol.Value) string {
	var b strings.Builder
	s.writeText(&b, v, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func (s Styler) writeText(b *strings.Builder, v protocol.Value, depth int) {
	indent := strings.Repeat("  ", depth)
	line := func(tag protocol.Tag, label, rest string) {
		b.WriteString(indent)
		b.WriteString(s.tag(tag, label))
		if rest != "" {
			b.WriteString(" ")
			b.WriteString(rest)
		}
		b.WriteString("\n")
	}

	switch v := v.(type) {
	case protocol.Nil:
		line(protocol.TagNil, "(nil)", "")
	case protocol.Error:
		line(protocol.TagError, "(err)", fmt.Sprintf("%d: %s", v.Code, v.Message))
	case protocol.Str:
		line(protocol.TagString, "(str)", string(v))
	case protocol.Int:
		line(protocol.TagInt, "(int)", strconv.FormatInt(int64(v), 10))
	case protocol.Double:
		line(protocol.TagDouble, "(dbl)", FormatDouble(float64(v)))
	case protocol.Array:
		line(protocol.TagArray, "(arr)", fmt.Sprintf("len=%d", len(v)))
		for _, elem := range v {
			s.writeText(b, elem, depth+1)
		}
		line(protocol.TagArray, "(arr)", "end")
	case protocol.KeyValue:
		line(protocol.TagKV, "(kv)", fmt.Sprintf("key: %s, value: %s", v.Key, v.Value))
	case nil:
		line(protocol.TagNil, "(none)", "")
	}
}

// FormatDouble prints f in its shortest form, always with a decimal point
// so doubles stay distinguishable from integers.
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

type jsonValue struct {
	Type    string  `json:"type"`
	Value   any     `json:"value,omitempty"`
	Code    *int32  `json:"code,omitempty"`
	Message *string `json:"message,omitempty"`
	Key     *string `json:"key,omitempty"`
}

func toJSON(v protocol.Value) jsonValue {
	switch v := v.(type) {
	case protocol.Nil:
		return jsonValue{Type: "nil"}
	case protocol.Error:
		return jsonValue{Type: "err", Code: &v.Code, Message: &v.Message}
	case protocol.Str:
		return jsonValue{Type: "str", Value: string(v)}
	case protocol.Int:
		return jsonValue{Type: "int", Value: int64(v)}
	case protocol.Double:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return jsonValue{Type: "dbl", Value: FormatDouble(f)}
		}
		return jsonValue{Type: "dbl", Value: f}
	case protocol.Array:
		items := make([]jsonValue, len(v))
		for i, elem := range v {
			items[i] = toJSON(elem)
		}
		return jsonValue{Type: "arr", Value: items}
	case protocol.KeyValue:
		return jsonValue{Type: "kv", Key: &v.Key, Value: v.Value}
	}
	return jsonValue{Type: "unknown"}
}

// JSON encodes v as a single JSON object.
func JSON(v protocol.Value) ([]byte, error) {
	return json.Marshal(toJSON(v))
}

// Printer writes replies in one format.
type Printer struct {
	W      io.Writer
	Format Format
	Styler Styler
}

// Value writes one reply followed by a newline.
func (p Printer) Value(v protocol.Value) error {
	if p.Format == FormatJSON {
		data, err := JSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.W, string(data))
		return err
	}
	_, err := fmt.Fprintln(p.W, p.Styler.Text(v))
	return err
}

// Header writes a section title. JSON output has no headers.
func (p Printer) Header(title string) error {
	if p.Format == FormatJSON {
		return nil
	}
	_, err := fmt.Fprintln(p.W, p.Styler.Header(title))
	return err
}
