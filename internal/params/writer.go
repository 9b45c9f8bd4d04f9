package params

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/san-kum/kview/internal/blobs"
	"k8s.io/klog/v2"
)

type writerOptions struct {
	floatFormat byte
}

// WriterOption configures Write.
type WriterOption func(*writerOptions)

// FloatFormat selects how doubles are printed: 'g' (default) for the
// shortest of fixed and scientific notation, or 'e' for scientific. Both use
// 17 significant digits.
func FloatFormat(f byte) WriterOption {
	return func(o *writerOptions) {
		if f == 'e' || f == 'g' {
			o.floatFormat = f
		}
	}
}

// Write emits l as a YAML 1.1 document. It fails with ErrInvalidUTF8,
// writing nothing, when a key or string value is not valid UTF-8.
func Write(w io.Writer, l *List, opts ...WriterOption) error {
	if err := checkUTF8(l.Name(), l); err != nil {
		return err
	}
	o := writerOptions{floatFormat: 'g'}
	for _, opt := range opts {
		opt(&o)
	}
	bw := bufio.NewWriter(w)
	yw := &yamlWriter{w: bw, opts: o}

	bw.WriteString("%YAML 1.1\n---\n")
	yw.key(l.Name())
	bw.WriteString(":")
	yw.list(l, 2)
	bw.WriteString("...\n")
	return bw.Flush()
}

func checkUTF8(path string, l *List) error {
	bad := func(what string) error {
		return fmt.Errorf("%w: %s", ErrInvalidUTF8, what)
	}
	if !utf8.ValidString(l.Name()) {
		return bad("list name")
	}
	for _, k := range l.Keys() {
		if !utf8.ValidString(k) {
			return bad(fmt.Sprintf("key under %q", path))
		}
		e, _ := l.Get(k)
		var strs []string
		switch v := e.(type) {
		case *List:
			if err := checkUTF8(path+"."+k, v); err != nil {
				return err
			}
		case String:
			strs = []string{string(v)}
		case Array[string]:
			strs = v
		case TwoDArray[string]:
			strs = v.Data
		}
		for _, s := range strs {
			if !utf8.ValidString(s) {
				return bad(fmt.Sprintf("value of %q", path+"."+k))
			}
		}
	}
	return nil
}

// WriteString is Write into a string. It returns "" for lists Write rejects.
func WriteString(l *List, opts ...WriterOption) string {
	var b strings.Builder
	if err := Write(&b, l, opts...); err != nil {
		return ""
	}
	return b.String()
}

func WriteFile(path string, l *List, opts ...WriterOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating parameter file: %w", err)
	}
	if err := Write(f, l, opts...); err != nil {
		f.Close()
		return fmt.Errorf("writing parameter file: %w", err)
	}
	return f.Close()
}

// Save writes l to a local path or a gs://bucket/key URL.
func Save(ctx context.Context, uri string, l *List, opts ...WriterOption) error {
	tmp, err := os.CreateTemp("", "kview-params-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := WriteFile(tmp.Name(), l, opts...); err != nil {
		return err
	}
	if err := blobs.Put(ctx, tmp.Name(), uri); err != nil {
		return fmt.Errorf("storing %s: %w", uri, err)
	}
	klog.FromContext(ctx).V(2).Info("saved parameter list", "uri", uri, "name", l.Name(), "entries", l.Len())
	return nil
}

// FormatEntry renders a non-list entry the way Write prints it inline.
// Lists render as "{...}".
func FormatEntry(e Entry, opts ...WriterOption) string {
	if _, ok := e.(*List); ok {
		return "{...}"
	}
	o := writerOptions{floatFormat: 'g'}
	for _, opt := range opts {
		opt(&o)
	}
	var b strings.Builder
	bw := bufio.NewWriter(&b)
	yw := &yamlWriter{w: bw, opts: o}
	yw.inline(e)
	_ = bw.Flush()
	return b.String()
}

type yamlWriter struct {
	w    *bufio.Writer
	opts writerOptions
}

func (yw *yamlWriter) indent(n int) {
	for i := 0; i < n; i++ {
		yw.w.WriteByte(' ')
	}
}

// list writes the remainder of a "key:" line and the entries below it.
func (yw *yamlWriter) list(l *List, indent int) {
	if l.Len() == 0 {
		yw.w.WriteString(" { }\n")
		return
	}
	yw.w.WriteByte('\n')
	for _, k := range l.keys {
		yw.entry(k, l.entries[k], indent)
	}
}

func (yw *yamlWriter) entry(key string, e Entry, indent int) {
	yw.indent(indent)
	yw.key(key)
	yw.w.WriteByte(':')

	switch v := e.(type) {
	case *List:
		yw.list(v, indent+2)
		return
	case String:
		if s := string(v); strings.Contains(s, "\n") && !needsEscape(s) {
			yw.block(s, indent+2)
			return
		}
	}
	yw.w.WriteByte(' ')
	yw.inline(e)
	yw.w.WriteByte('\n')
}

func (yw *yamlWriter) inline(e Entry) {
	switch v := e.(type) {
	case Int:
		yw.w.WriteString(strconv.Itoa(int(v)))
	case Double:
		yw.w.WriteString(formatDouble(float64(v), yw.opts.floatFormat))
	case String:
		yw.w.WriteString(quoteString(string(v)))
	case Bool:
		yw.w.WriteString(strconv.FormatBool(bool(v)))
	case Array[int]:
		writeSeq(yw, v, func(x int) string { return strconv.Itoa(x) })
	case Array[float64]:
		writeSeq(yw, v, yw.double)
	case Array[string]:
		writeSeq(yw, v, quoteString)
	case TwoDArray[int]:
		writeTwoD(yw, v, func(x int) string { return strconv.Itoa(x) })
	case TwoDArray[float64]:
		writeTwoD(yw, v, yw.double)
	case TwoDArray[string]:
		writeTwoD(yw, v, quoteString)
	}
}

func (yw *yamlWriter) double(x float64) string {
	return formatDouble(x, yw.opts.floatFormat)
}

func writeSeq[E Elem](yw *yamlWriter, items []E, format func(E) string) {
	yw.w.WriteByte('[')
	for i, x := range items {
		if i > 0 {
			yw.w.WriteString(", ")
		}
		yw.w.WriteString(format(x))
	}
	yw.w.WriteByte(']')
}

func writeTwoD[E Elem](yw *yamlWriter, a TwoDArray[E], format func(E) string) {
	yw.w.WriteByte('[')
	for i := 0; i < a.Rows; i++ {
		if i > 0 {
			yw.w.WriteString(", ")
		}
		writeSeq(yw, a.Row(i), format)
	}
	yw.w.WriteByte(']')
}

// block writes a multi-line string as a literal with an explicit indentation
// indicator, keeping a trailing newline when the string has one.
func (yw *yamlWriter) block(s string, indent int) {
	body, keep := strings.CutSuffix(s, "\n")
	if keep {
		yw.w.WriteString(" |2+\n")
	} else {
		yw.w.WriteString(" |2-\n")
	}
	for _, line := range strings.Split(body, "\n") {
		if line != "" {
			yw.indent(indent)
			yw.w.WriteString(line)
		}
		yw.w.WriteByte('\n')
	}
}

func (yw *yamlWriter) key(k string) {
	yw.w.WriteString(quoteString(k))
}

// formatDouble prints x with 17 significant digits and always carries a
// decimal point, exponent or non-finite marker, so the text never reads
// back as an integer.
func formatDouble(x float64, format byte) string {
	var s string
	if format == 'e' {
		s = strconv.FormatFloat(x, 'e', 16, 64)
	} else {
		s = strconv.FormatFloat(x, 'g', 17, 64)
	}
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

const specialChars = ":{}[],&*#?|-<>=!%@\\'\"`"

var reserved = map[string]bool{
	"true": true, "false": true, "True": true, "False": true, "TRUE": true, "FALSE": true,
	"null": true, "Null": true, "NULL": true, "~": true,
}

func needsQuotes(s string) bool {
	if s == "" || reserved[s] || strings.ContainsAny(s, specialChars+"\t") {
		return true
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return true
	}
	if _, ok := parseInt(s); ok {
		return true
	}
	_, ok := parseDouble(s)
	return ok
}

// needsEscape reports whether s holds characters only a double-quoted
// scalar can carry. YAML 1.1 reads NEL and the Unicode line and paragraph
// separators as line breaks.
func needsEscape(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	for _, r := range s {
		if r == '\n' || r == '\t' {
			continue
		}
		if r < 0x20 || r == 0x7f || r == '\uFEFF' || r == '\u0085' || r == '\u2028' || r == '\u2029' {
			return true
		}
	}
	return false
}

func quoteString(s string) string {
	switch {
	case needsEscape(s) || strings.Contains(s, "\n"):
		return strconv.Quote(s)
	case needsQuotes(s):
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return s
}
