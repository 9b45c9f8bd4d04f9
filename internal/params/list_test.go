package params_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kview/internal/params"
)

var _ = Describe("List", func() {
	var base *params.List

	BeforeEach(func() {
		var err error
		base, err = params.ParseString("ANONYMOUS:\n  tol: 1.0e-6\n  solver:\n    name: cg\n    restart: 20\n")
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps insertion order when replacing entries", func() {
		base.Set("tol", params.Double(1e-9))
		Expect(base.Keys()).To(Equal([]string{"tol", "solver"}))
		Expect(base.GetDouble("tol")).To(Equal(1e-9))
	})

	It("removes entries", func() {
		Expect(base.Remove("tol")).To(BeTrue())
		Expect(base.Remove("tol")).To(BeFalse())
		Expect(base.Keys()).To(Equal([]string{"solver"}))
	})

	It("reports missing and mistyped lookups", func() {
		_, err := base.GetInt("missing")
		Expect(errors.Is(err, params.ErrNotFound)).To(BeTrue())
		_, err = base.GetString("tol")
		Expect(errors.Is(err, params.ErrWrongType)).To(BeTrue())
		_, err = base.Sublist("tol")
		Expect(errors.Is(err, params.ErrWrongType)).To(BeTrue())
	})

	It("widens integers for double lookups", func() {
		base.Set("n", params.Int(3))
		Expect(base.GetDouble("n")).To(Equal(3.0))
	})

	It("overwrites with SetParameters and merges nested lists", func() {
		update, err := params.ParseString("ANONYMOUS:\n  tol: 1.0e-10\n  solver:\n    restart: 50\n  verbose: true\n")
		Expect(err).NotTo(HaveOccurred())
		base.SetParameters(update)

		Expect(base.GetDouble("tol")).To(Equal(1e-10))
		Expect(base.GetBool("verbose")).To(BeTrue())
		solver, _ := base.Sublist("solver")
		Expect(solver.GetInt("restart")).To(Equal(50))
		Expect(solver.GetString("name")).To(Equal("cg"))
	})

	It("only fills gaps with SetParametersNotAlreadySet", func() {
		Expect(params.UpdateFromString(base, "tol: 1.0\nsolver:\n  restart: 50\n  precond: jacobi\nextra: x\n", false)).To(Succeed())

		Expect(base.GetDouble("tol")).To(Equal(1e-6))
		Expect(base.GetString("extra")).To(Equal("x"))
		solver, _ := base.Sublist("solver")
		Expect(solver.GetInt("restart")).To(Equal(20))
		Expect(solver.GetString("precond")).To(Equal("jacobi"))
	})

	It("copies merged entries", func() {
		update := params.NewList("").Set("a", params.Array[int]{1, 2})
		base.SetParameters(update)
		update.Set("a", params.Array[int]{9})
		Expect(get(base, "a")).To(Equal(params.Array[int]{1, 2}))
	})

	It("clones deeply", func() {
		c := base.Clone()
		Expect(c.Equal(base)).To(BeTrue())
		sub, _ := c.Sublist("solver")
		sub.Set("restart", params.Int(1))
		Expect(c.Equal(base)).To(BeFalse())
	})

	It("rejects ragged rows when building two-dimensional arrays", func() {
		_, err := params.NewTwoDArray([][]float64{{1, 2}, {3}})
		Expect(err).To(HaveOccurred())
	})
})
