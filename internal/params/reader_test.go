package params_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kview/internal/params"
)

var _ = Describe("Parse", func() {
	Describe("scalar classification", func() {
		DescribeTable("reads entries by their unquoted or quoted form",
			func(text string, want params.Entry) {
				l, err := params.ParseString("v: " + text)
				Expect(err).NotTo(HaveOccurred())
				Expect(get(l, "v")).To(Equal(want))
			},
			Entry("integer", "5", params.Int(5)),
			Entry("negative integer", "-12", params.Int(-12)),
			Entry("double", "3.14", params.Double(3.14)),
			Entry("exponent", "1e-3", params.Double(1e-3)),
			Entry("integral double", "5.0", params.Double(5)),
			Entry("single-quoted number", "'5'", params.String("5")),
			Entry("double-quoted number", `"2.5"`, params.String("2.5")),
			Entry("true", "true", params.Bool(true)),
			Entry("false", "false", params.Bool(false)),
			Entry("quoted bool", "'true'", params.String("true")),
			Entry("plain word", "gmres", params.String("gmres")),
			Entry("partial number", "3abc", params.String("3abc")),
			Entry("empty value", "", params.String("")),
		)
	})

	Describe("sequences", func() {
		It("types arrays by their first element", func() {
			l, err := params.ParseString("ints: [1, 2, 3]\ndoubles: [1.5, 2]\nstrings: [a, 1, 'b']\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(get(l, "ints")).To(Equal(params.Array[int]{1, 2, 3}))
			Expect(get(l, "doubles")).To(Equal(params.Array[float64]{1.5, 2}))
			Expect(get(l, "strings")).To(Equal(params.Array[string]{"a", "1", "b"}))
		})

		It("reads block sequences", func() {
			l, err := params.ParseString("v:\n  - 1\n  - 2\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(get(l, "v")).To(Equal(params.Array[int]{1, 2}))
		})

		It("reads rectangular nested sequences as two-dimensional arrays", func() {
			l, err := params.ParseString("grid: [[1, 2], [3, 4], [5, 6]]")
			Expect(err).NotTo(HaveOccurred())
			grid, ok := get(l, "grid").(params.TwoDArray[int])
			Expect(ok).To(BeTrue())
			Expect(grid.Rows).To(Equal(3))
			Expect(grid.Cols).To(Equal(2))
			Expect(grid.At(2, 1)).To(Equal(6))
		})

		DescribeTable("rejects sequences whose type cannot be settled",
			func(text string) {
				_, err := params.ParseString(text)
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, params.ErrParse)).To(BeTrue())
				var pe *params.ParseError
				Expect(errors.As(err, &pe)).To(BeTrue())
			},
			Entry("ragged rows", "a: [[1, 2], [3]]"),
			Entry("empty flow sequence", "a: []"),
			Entry("empty row", "a: [[], [1]]"),
			Entry("string in integer array", "a: [1, x]"),
			Entry("quoted item in integer array", "a: [1, '2']"),
			Entry("double in integer array", "a: [1, 2.5]"),
			Entry("mixed row types", "a: [[1, 2], [1.5, 2.5]]"),
			Entry("sequence of mappings", "a: [{b: 1}]"),
			Entry("booleans", "a: [true, false]"),
			Entry("three dimensions", "a: [[[1]]]"),
		)
	})

	Describe("document structure", func() {
		It("unwraps a single top-level key holding a mapping", func() {
			l, err := params.ParseString("%YAML 1.1\n---\nsolver:\n  tol: 1.0e-8\n  restart: 30\n...\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Name()).To(Equal("solver"))
			Expect(l.Keys()).To(Equal([]string{"tol", "restart"}))
		})

		It("names a bare mapping ANONYMOUS", func() {
			l, err := params.ParseString("a: 1\nb: 2\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Name()).To(Equal(params.DefaultName))
			Expect(l.Len()).To(Equal(2))
		})

		It("reads nested lists and keeps their names", func() {
			l, err := params.ParseString("ANONYMOUS:\n  outer:\n    inner:\n      x: 1\n  empty: { }\n")
			Expect(err).NotTo(HaveOccurred())
			outer, err := params.Lookup[*params.List](l, "outer")
			Expect(err).NotTo(HaveOccurred())
			inner, err := outer.Sublist("inner")
			Expect(err).NotTo(HaveOccurred())
			Expect(inner.Name()).To(Equal("inner"))
			Expect(inner.GetInt("x")).To(Equal(1))
			empty, err := params.Lookup[*params.List](l, "empty")
			Expect(err).NotTo(HaveOccurred())
			Expect(empty.Len()).To(BeZero())
		})

		It("reports the position of a bad value", func() {
			_, err := params.ParseString("a: 1\nb: [[1], [2, 3]]\n")
			var pe *params.ParseError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Line).To(Equal(2))
		})

		It("wraps syntax errors", func() {
			_, err := params.ParseString("a: [1, 2")
			Expect(errors.Is(err, params.ErrParse)).To(BeTrue())
		})

		It("rejects empty documents and top-level sequences", func() {
			_, err := params.ParseString("")
			Expect(errors.Is(err, params.ErrParse)).To(BeTrue())
			_, err = params.ParseString("- 1\n- 2\n")
			Expect(errors.Is(err, params.ErrParse)).To(BeTrue())
		})
	})

	Describe("files", func() {
		It("parses files and local URIs", func() {
			path := filepath.Join(GinkgoT().TempDir(), "p.yaml")
			Expect(os.WriteFile(path, []byte("ANONYMOUS:\n  n: 5\n"), 0644)).To(Succeed())

			l, err := params.ParseFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.GetInt("n")).To(Equal(5))

			l, err = params.Load(context.Background(), path)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.GetInt("n")).To(Equal(5))
		})

		It("labels parse errors with the source", func() {
			path := filepath.Join(GinkgoT().TempDir(), "bad.yaml")
			Expect(os.WriteFile(path, []byte("a: []\n"), 0644)).To(Succeed())
			_, err := params.Load(context.Background(), path)
			Expect(err).To(MatchError(ContainSubstring(path)))
		})

		It("fails for missing files", func() {
			_, err := params.ParseFile("/nonexistent/params.yaml")
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})
})
