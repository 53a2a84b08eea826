package sval

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// UnknownTagError reports an element whose tag is outside the SVAL value set.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return "unknown data type: " + e.Tag
}

// ValueError reports a scalar, vector, or unit element whose content cannot be decoded.
type ValueError struct {
	Tag  string
	Name string
	Text string
	Err  error
}

func (e *ValueError) Error() string {
	label := "<" + e.Tag + ">"
	if e.Name != "" {
		label = fmt.Sprintf("<%s name=%q>", e.Tag, e.Name)
	}
	if e.Text == "" {
		return fmt.Sprintf("decoding %s: %v", label, e.Err)
	}
	return fmt.Sprintf("decoding %s %q: %v", label, e.Text, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithTrace logs every decoded element at debug level.
func WithTrace(logger *zap.Logger) DecoderOption {
	return func(d *Decoder) {
		if logger != nil {
			d.trace = logger
		}
	}
}

// Decoder turns markup elements into Values. It holds no state between calls
// and is safe for concurrent use.
type Decoder struct {
	trace *zap.Logger
}

// NewDecoder returns a Decoder configured by opts.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode converts el into a Value. The boolean result is false when el decodes
// to nothing (loader, null and scene tags, or an empty scalar); such elements are
// dropped by the enclosing array or dict.
//
// Precondition: el must not be nil.
// Postcondition: on success with ok == true, v is non-nil.
func (d *Decoder) Decode(el *Element) (v Value, ok bool, err error) {
	return d.decode(el, 0)
}

// DecodeDocument decodes every top-level element of doc, dropping absent ones.
func (d *Decoder) DecodeDocument(doc *Document) ([]Value, error) {
	out := make([]Value, 0, len(doc.Elements))
	for _, el := range doc.Elements {
		v, ok, err := d.decode(el, 0)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// DecodeText strips comments from text, parses it, and decodes the top-level elements.
func (d *Decoder) DecodeText(text string) ([]Value, error) {
	doc, err := ParseMarkup(StripComments(text))
	if err != nil {
		return nil, err
	}
	return d.DecodeDocument(doc)
}

// Decode is DecodeText on a Decoder without tracing.
func Decode(text string) ([]Value, error) {
	return NewDecoder().DecodeText(text)
}

func (d *Decoder) decode(el *Element, depth int) (Value, bool, error) {
	if d.trace != nil {
		name, _ := el.Attr("name")
		d.trace.Debug("sval element",
			zap.Int("depth", depth),
			zap.String("tag", el.Name),
			zap.String("name", name),
		)
	}

	switch el.Name {
	case "loader", "null", "scene":
		return nil, false, nil

	case "string":
		text, ok, err := firstText(el)
		if !ok || err != nil {
			return nil, false, err
		}
		return String(text), true, nil

	case "int", "long":
		text, ok, err := firstText(el)
		if !ok || err != nil {
			return nil, false, err
		}
		n, err := parseLeadingInt(text)
		if err != nil {
			return nil, false, valueError(el, text, err)
		}
		return Int(n), true, nil

	case "float":
		text, ok, err := firstText(el)
		if !ok || err != nil {
			return nil, false, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, false, valueError(el, text, err)
		}
		return Float(f), true, nil

	case "bool":
		text, ok, err := firstText(el)
		if !ok || err != nil {
			return nil, false, err
		}
		return Bool(text != "" && (text[0] == 't' || text[0] == 'T')), true, nil

	case "vec2", "vec3", "vec4":
		text, ok, err := firstText(el)
		if !ok || err != nil {
			return nil, false, err
		}
		vec, err := parseVector(text, int(el.Name[3]-'0'))
		if err != nil {
			return nil, false, valueError(el, text, err)
		}
		return vec, true, nil

	case "array":
		list := List{}
		for _, child := range el.Elements() {
			v, ok, err := d.decode(child, depth+1)
			if err != nil {
				return nil, false, err
			}
			if ok {
				list = append(list, v)
			}
		}
		return list, true, nil

	case "svals", "dict":
		m, err := d.decodeMapping(el, depth+1)
		if err != nil {
			return nil, false, err
		}
		return m, true, nil

	case "unit":
		child := el.FirstElement()
		if child == nil {
			return nil, false, valueError(el, "", fmt.Errorf("unit has no element child"))
		}
		m, err := d.decodeMapping(child, depth)
		if err != nil {
			return nil, false, err
		}
		if class, ok := child.Attr("class"); ok {
			m.Set("class", String(class))
		}
		return m, true, nil
	}

	return nil, false, &UnknownTagError{Tag: el.Name}
}

func (d *Decoder) decodeMapping(el *Element, depth int) (*Mapping, error) {
	m := NewMapping()
	for _, child := range el.Elements() {
		name, _ := child.Attr("name")
		v, ok, err := d.decode(child, depth)
		if err != nil {
			return nil, err
		}
		if ok {
			m.Set(name, v)
		}
	}
	return m, nil
}

// firstText returns the text of el's first child. ok is false when el has no
// children at all.
func firstText(el *Element) (text string, ok bool, err error) {
	if len(el.Children) == 0 {
		return "", false, nil
	}
	t, isText := el.Children[0].(Text)
	if !isText {
		return "", false, valueError(el, "", fmt.Errorf("expected text content, found element"))
	}
	return string(t), true, nil
}

func valueError(el *Element, text string, err error) error {
	name, _ := el.Attr("name")
	return &ValueError{Tag: el.Name, Name: name, Text: text, Err: err}
}

// parseVector splits text on single spaces and parses each token as an
// integer, the same way int elements are parsed.
func parseVector(text string, size int) (Vector, error) {
	tokens := strings.Split(text, " ")
	if len(tokens) != size {
		return nil, fmt.Errorf("expected %d components, got %d", size, len(tokens))
	}
	vec := make(Vector, size)
	for i, tok := range tokens {
		n, err := parseLeadingInt(tok)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		vec[i] = n
	}
	return vec, nil
}

// parseLeadingInt parses the optional sign and decimal digits at the start of
// s, ignoring anything after them ("1.75" parses as 1).
func parseLeadingInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return strconv.ParseInt(s[:end], 10, 64)
}
