package params

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/kview/internal/blobs"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// Parse reads one document from r. Unquoted scalars become Int, then
// Double, then String, except that bare true and false are read as Bool so
// the values Write emits for Bool entries come back unchanged.
func Parse(r io.Reader) (*List, error) {
	return parse(r, "")
}

func ParseString(s string) (*List, error) {
	return parse(strings.NewReader(s), "")
}

func ParseFile(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}
	return parse(bytes.NewReader(data), path)
}

// Load reads a parameter file from a local path or a gs://bucket/key URL.
func Load(ctx context.Context, uri string) (*List, error) {
	path, err := blobs.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", uri, err)
	}
	defer os.Remove(path)

	l, err := ParseFile(path)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = uri
		}
		return nil, err
	}
	klog.FromContext(ctx).V(2).Info("loaded parameter list", "uri", uri, "name", l.Name(), "entries", l.Len())
	return l, nil
}

// UpdateFromString parses s and merges it into l. With overwrite, parsed
// entries replace existing ones; otherwise only missing keys are added.
func UpdateFromString(l *List, s string, overwrite bool) error {
	updated, err := ParseString(s)
	if err != nil {
		return err
	}
	if overwrite {
		l.SetParameters(updated)
	} else {
		l.SetParametersNotAlreadySet(updated)
	}
	return nil
}

type reader struct {
	source string
}

func parse(r io.Reader, source string) (*List, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Source: source, Msg: "empty document"}
		}
		return nil, &ParseError{Source: source, Msg: err.Error(), Err: err}
	}
	rd := reader{source: source}
	root := resolve(&doc)
	if root.Kind != yaml.MappingNode {
		return nil, rd.fail(root, "top level must be a mapping")
	}

	name := DefaultName
	if len(root.Content) == 2 {
		if v := resolve(root.Content[1]); v.Kind == yaml.MappingNode {
			name = root.Content[0].Value
			root = v
		}
	}
	return rd.mapping(root, name)
}

func resolve(n *yaml.Node) *yaml.Node {
	for {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return &yaml.Node{Kind: yaml.MappingNode}
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
}

func (rd reader) fail(n *yaml.Node, format string, args ...any) *ParseError {
	return &ParseError{Source: rd.source, Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}

func (rd reader) mapping(n *yaml.Node, name string) (*List, error) {
	l := NewList(name)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolve(n.Content[i])
		if k.Kind != yaml.ScalarNode {
			return nil, rd.fail(k, "mapping key must be a scalar")
		}
		e, err := rd.value(resolve(n.Content[i+1]), k.Value)
		if err != nil {
			return nil, err
		}
		l.Set(k.Value, e)
	}
	return l, nil
}

func (rd reader) value(n *yaml.Node, key string) (Entry, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return classify(n), nil
	case yaml.MappingNode:
		return rd.mapping(n, key)
	case yaml.SequenceNode:
		return rd.sequence(n)
	}
	return nil, rd.fail(n, "unexpected value kind for %q", key)
}

func quoted(n *yaml.Node) bool {
	return n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0
}

func parseInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil
}

func parseDouble(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// classify types a scalar. Bare true and false read as Bool.
func classify(n *yaml.Node) Entry {
	if quoted(n) {
		return String(n.Value)
	}
	if v, ok := parseInt(n.Value); ok {
		return Int(v)
	}
	if v, ok := parseDouble(n.Value); ok {
		return Double(v)
	}
	switch n.Value {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return String(n.Value)
}

func (rd reader) sequence(n *yaml.Node) (Entry, error) {
	if len(n.Content) == 0 {
		return nil, rd.fail(n, "empty sequences are not allowed: the element type cannot be deduced")
	}
	first := resolve(n.Content[0])
	switch first.Kind {
	case yaml.ScalarNode:
		return rd.array(n)
	case yaml.SequenceNode:
		return rd.twoD(n)
	}
	return nil, rd.fail(first, "unexpected sequence item type")
}

// array reads a sequence of scalars typed by its first element.
func (rd reader) array(n *yaml.Node) (Entry, error) {
	items := make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		items[i] = resolve(c)
		if items[i].Kind != yaml.ScalarNode {
			return nil, rd.fail(items[i], "array item %d is not a scalar", i)
		}
	}

	switch classify(items[0]).(type) {
	case Int:
		out := make(Array[int], len(items))
		for i, it := range items {
			v, ok := parseInt(it.Value)
			if !ok || quoted(it) {
				return nil, rd.fail(it, "item %d (%q) in integer array is not an integer", i, it.Value)
			}
			out[i] = v
		}
		return out, nil
	case Double:
		out := make(Array[float64], len(items))
		for i, it := range items {
			v, ok := parseDouble(it.Value)
			if !ok || quoted(it) {
				return nil, rd.fail(it, "item %d (%q) in double array is not a number", i, it.Value)
			}
			out[i] = v
		}
		return out, nil
	case Bool:
		return nil, rd.fail(items[0], "arrays of booleans are not supported")
	}
	out := make(Array[string], len(items))
	for i, it := range items {
		out[i] = it.Value
	}
	return out, nil
}

// twoD reads a sequence of equal-length scalar sequences of one type.
func (rd reader) twoD(n *yaml.Node) (Entry, error) {
	rows := make([]Entry, len(n.Content))
	width := len(resolve(n.Content[0]).Content)
	for i, c := range n.Content {
		c = resolve(c)
		if c.Kind != yaml.SequenceNode {
			return nil, rd.fail(c, "row %d of a two-dimensional array is not a sequence", i)
		}
		if len(c.Content) == 0 {
			return nil, rd.fail(c, "empty sequences are not allowed: the element type cannot be deduced")
		}
		if resolve(c.Content[0]).Kind != yaml.ScalarNode {
			return nil, rd.fail(c, "arrays deeper than two dimensions are not supported")
		}
		row, err := rd.array(c)
		if err != nil {
			return nil, err
		}
		rows[i] = row
		if len(c.Content) != width {
			return nil, rd.fail(c, "two-dimensional array rows have different lengths: row %d has %d items, row 0 has %d", i, len(c.Content), width)
		}
	}

	switch rows[0].(type) {
	case Array[int]:
		return collect[int](rd, n, rows)
	case Array[float64]:
		return collect[float64](rd, n, rows)
	default:
		return collect[string](rd, n, rows)
	}
}

func collect[E Elem](rd reader, n *yaml.Node, rows []Entry) (Entry, error) {
	data := make([][]E, len(rows))
	for i, r := range rows {
		row, ok := r.(Array[E])
		if !ok {
			return nil, rd.fail(resolve(n.Content[i]), "row %d is %s, row 0 is %s", i, TypeName(r), TypeName(rows[0]))
		}
		data[i] = row
	}
	out, err := NewTwoDArray(data)
	if err != nil {
		return nil, rd.fail(n, "%v", err)
	}
	return out, nil
}
