package cmdguard_test

import (
	"go/ast"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/testutils"
)

var _ = Describe("Call List", func() {
	var calls cmdguard.CallList
	BeforeEach(func() {
		calls = cmdguard.NewCallList()
	})

	It("should not return any matches when empty", func() {
		Expect(calls.Contains("foo", "bar")).Should(BeFalse())
	})

	It("should be possible to add a single call", func() {
		Expect(calls).Should(BeEmpty())
		calls.Add("foo", "bar")
		Expect(calls).Should(HaveLen(1))

		expected := map[string]bool{"bar": true}
		actual := map[string]bool(calls["foo"])
		Expect(actual).Should(Equal(expected))
	})

	It("should be possible to add multiple calls at once", func() {
		Expect(calls).Should(BeEmpty())
		calls.AddAll("process", "Exec", "GetEnv", "SetEnv")

		expected := map[string]bool{
			"Exec":   true,
			"GetEnv": true,
			"SetEnv": true,
		}
		actual := map[string]bool(calls["process"])
		Expect(actual).Should(Equal(expected))
	})

	It("should not return a match if none are present", func() {
		calls.Add("process", "Exec")
		Expect(calls.Contains("shell", "Exec")).Should(BeFalse())
	})

	It("should match a call based on selector and ident", func() {
		calls.Add("process", "Exec")
		Expect(calls.Contains("process", "Exec")).Should(BeTrue())
	})

	It("should only match the exact spelling of selector and ident", func() {
		calls.Add("process", "Exec")
		Expect(calls.Contains("Process", "Exec")).Should(BeFalse())
		Expect(calls.Contains("process", "exec")).Should(BeFalse())
		Expect(calls.Contains("process", "ExecX")).Should(BeFalse())
		Expect(calls.Contains("process", "Exe")).Should(BeFalse())
	})

	Context("when matching call expressions by their spelling", func() {
		var matched []*ast.CallExpr

		BeforeEach(func() {
			matched = nil
			calls.Add("process", "Exec")
			pkg := testutils.NewTestPackage()
			defer pkg.Close()
			pkg.AddFile("calls.go", `
package main

import (
	"sample/process"
	other "sample/shell"
)

type holder struct{ process struct{ Exec func(process.Command, map[string]string) } }

func main() {
	var h holder
	process.Exec(process.Command{Value: "/bin/ls"}, nil)
	other.Exec(other.Command{Value: "/bin/ls"}, nil)
	h.process.Exec(process.Command{Value: "/bin/ls"}, nil)
	exec := process.Exec
	exec(process.Command{Value: "/bin/ls"}, nil)
}`)
			ctx := pkg.CreateContext("calls.go")
			v := testutils.NewMockVisitor()
			v.Context = ctx
			v.Callback = func(n ast.Node, ctx *cmdguard.Context) bool {
				if call := calls.ContainsSelectorCall(n); call != nil {
					matched = append(matched, call)
				}
				return true
			}
			ast.Walk(v, ctx.Root)
		})

		It("should only match alias.Ident calls", func() {
			Expect(matched).Should(HaveLen(1))
			sel := matched[0].Fun.(*ast.SelectorExpr)
			Expect(sel.X.(*ast.Ident).Name).Should(Equal("process"))
		})
	})
})
