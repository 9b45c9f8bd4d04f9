package params_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kview/internal/params"
)

func sampleList() *params.List {
	grid, err := params.NewTwoDArray([][]int{{1, 2}, {3, 4}})
	Expect(err).NotTo(HaveOccurred())
	return params.NewList("").
		Set("n", params.Int(5)).
		Set("pi", params.Double(3.14)).
		Set("tags", params.Array[string]{"a", "b"}).
		Set("grid", grid)
}

var _ = Describe("Write", func() {
	It("round-trips keys, types and values", func() {
		l := sampleList()
		text := params.WriteString(l)
		Expect(text).To(HavePrefix("%YAML 1.1\n---\nANONYMOUS:\n"))
		Expect(text).To(HaveSuffix("...\n"))

		back, err := params.ParseString(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Keys()).To(Equal([]string{"n", "pi", "tags", "grid"}))
		Expect(get(back, "n")).To(Equal(params.Int(5)))
		Expect(get(back, "pi")).To(Equal(params.Double(3.14)))
		Expect(get(back, "tags")).To(Equal(params.Array[string]{"a", "b"}))
		Expect(get(back, "grid")).To(Equal(get(l, "grid")))
		Expect(back.Equal(l)).To(BeTrue())
	})

	It("writes the entry layout", func() {
		text := params.WriteString(sampleList())
		Expect(text).To(Equal("%YAML 1.1\n---\nANONYMOUS:\n" +
			"  n: 5\n" +
			"  pi: 3.1400000000000001\n" +
			"  tags: [a, b]\n" +
			"  grid: [[1, 2], [3, 4]]\n" +
			"...\n"))
	})

	DescribeTable("keeps doubles distinguishable from integers",
		func(x float64, opts []params.WriterOption) {
			l := params.NewList("").Set("x", params.Double(x)).Set("a", params.Array[float64]{x, x})
			back, err := params.ParseString(params.WriteString(l, opts...))
			Expect(err).NotTo(HaveOccurred())
			got, err := params.Lookup[params.Double](back, "x")
			Expect(err).NotTo(HaveOccurred())
			if math.IsNaN(x) {
				Expect(math.IsNaN(float64(got))).To(BeTrue())
				return
			}
			Expect(float64(got)).To(Equal(x))
			Expect(get(back, "a")).To(Equal(params.Array[float64]{x, x}))
		},
		Entry("integral", 5.0, nil),
		Entry("zero", 0.0, nil),
		Entry("negative integral", -42.0, nil),
		Entry("large", 1e21, nil),
		Entry("tiny", 5e-324, nil),
		Entry("third", 1.0/3, nil),
		Entry("integral scientific", 7.0, []params.WriterOption{params.FloatFormat('e')}),
		Entry("infinity", math.Inf(1), nil),
		Entry("nan", math.NaN(), nil),
	)

	DescribeTable("quotes strings that would read back as something else",
		func(s string) {
			l := params.NewList("").Set("s", params.String(s)).Set("a", params.Array[string]{s, "x"})
			text := params.WriteString(l)
			back, err := params.ParseString(text)
			Expect(err).NotTo(HaveOccurred(), text)
			Expect(get(back, "s")).To(Equal(params.String(s)), text)
			Expect(get(back, "a")).To(Equal(params.Array[string]{s, "x"}), text)
		},
		Entry("integer text", "5"),
		Entry("double text", "2.5"),
		Entry("bool text", "true"),
		Entry("null text", "null"),
		Entry("empty", ""),
		Entry("reserved punctuation", "a: b, [c]"),
		Entry("hyphen", "-x"),
		Entry("comment marker", "x # y"),
		Entry("single quote", "it's"),
		Entry("double quote", `say "hi"`),
		Entry("surrounding space", " padded "),
		Entry("tab inside", "a\tb"),
		Entry("control character", "bell\a"),
		Entry("unicode", "größe"),
		Entry("line separator", "a\u2028b"),
		Entry("paragraph separator", "a\u2029b"),
		Entry("next line", "a\u0085b"),
	)

	It("quotes keys holding Unicode line breaks", func() {
		l := params.NewList("").Set("a\u2028b", params.Int(1))
		text := params.WriteString(l)
		back, err := params.ParseString(text)
		Expect(err).NotTo(HaveOccurred(), text)
		Expect(get(back, "a\u2028b")).To(Equal(params.Int(1)))
	})

	DescribeTable("rejects strings that are not valid UTF-8",
		func(l *params.List) {
			var b strings.Builder
			err := params.Write(&b, l)
			Expect(errors.Is(err, params.ErrInvalidUTF8)).To(BeTrue(), "%v", err)
			Expect(b.String()).To(BeEmpty())
			Expect(params.WriteString(l)).To(BeEmpty())
		},
		Entry("value", params.NewList("").Set("s", params.String("\xff\xfe"))),
		Entry("array item", params.NewList("").Set("a", params.Array[string]{"ok", "\xff"})),
		Entry("key", params.NewList("").Set("\xfe", params.Int(1))),
		Entry("nested value", func() *params.List {
			l := params.NewList("")
			sub, _ := l.Sublist("inner")
			sub.Set("s", params.String("x\xffy"))
			return l
		}()),
	)

	DescribeTable("writes multi-line strings as literal blocks",
		func(s, header string) {
			l := params.NewList("").Set("text", params.String(s))
			sub, err := l.Sublist("nested")
			Expect(err).NotTo(HaveOccurred())
			sub.Set("text", params.String(s))

			text := params.WriteString(l)
			Expect(text).To(ContainSubstring("text: " + header + "\n"))
			back, err := params.ParseString(text)
			Expect(err).NotTo(HaveOccurred(), text)
			Expect(get(back, "text")).To(Equal(params.String(s)), text)
			nested, err := params.Lookup[*params.List](back, "nested")
			Expect(err).NotTo(HaveOccurred())
			Expect(get(nested, "text")).To(Equal(params.String(s)), text)
		},
		Entry("two lines", "line one\nline two", "|2-"),
		Entry("leading indentation", "  indented\nflush", "|2-"),
		Entry("blank line inside", "a\n\nb", "|2-"),
		Entry("trailing newline", "a\nb\n", "|2+"),
		Entry("two trailing newlines", "a\n\n", "|2+"),
	)

	It("writes nested and empty lists", func() {
		l := params.NewList("solver")
		l.Set("empty", params.NewList(""))
		inner, _ := l.Sublist("inner")
		inner.Set("on", params.Bool(true))

		text := params.WriteString(l)
		Expect(text).To(ContainSubstring("solver:\n  empty: { }\n  inner:\n    on: true\n"))

		back, err := params.ParseString(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Name()).To(Equal("solver"))
		Expect(back.Equal(l)).To(BeTrue())
	})

	It("writes an empty top-level list inline", func() {
		Expect(params.WriteString(params.NewList(""))).To(Equal("%YAML 1.1\n---\nANONYMOUS: { }\n...\n"))
	})

	It("writes and reads files", func() {
		path := filepath.Join(GinkgoT().TempDir(), "out.yaml")
		Expect(params.WriteFile(path, sampleList())).To(Succeed())
		back, err := params.ParseFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Equal(sampleList())).To(BeTrue())

		err = params.WriteFile(filepath.Join(path, "nope.yaml"), sampleList())
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, os.ErrNotExist) || strings.Contains(err.Error(), "not a directory")).To(BeTrue())
	})

	It("saves to a local path and loads it back", func() {
		ctx := context.Background()
		path := filepath.Join(GinkgoT().TempDir(), "sub", "saved.yaml")
		Expect(params.Save(ctx, path, sampleList())).To(Succeed())
		back, err := params.Load(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Equal(sampleList())).To(BeTrue())
	})

	DescribeTable("formats single entries inline",
		func(e params.Entry, want string) {
			Expect(params.FormatEntry(e)).To(Equal(want))
		},
		Entry("int", params.Int(-3), "-3"),
		Entry("whole double", params.Double(2), "2.0"),
		Entry("quoted string", params.String("a: b"), "'a: b'"),
		Entry("bool", params.Bool(true), "true"),
		Entry("array", params.Array[float64]{1, 0.5}, "[1.0, 0.5]"),
		Entry("nested list", params.NewList("inner"), "{...}"),
	)
})
