package issue_test

import (
	"encoding/json"
	"go/ast"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
	"github.com/cmdguard/cmdguard/rules"
	"github.com/cmdguard/cmdguard/testutils"
)

var _ = Describe("Issue", func() {
	Context("when creating a new issue", func() {
		It("should create a code snippet from the specified ast.Node", func() {
			var target *ast.BasicLit
			source := `package main
			const foo = "bar"
			func main(){
				println(foo)
			}
			`
			pkg := testutils.NewTestPackage()
			defer pkg.Close()
			pkg.AddFile("foo.go", source)
			ctx := pkg.CreateContext("foo.go")
			v := testutils.NewMockVisitor()
			v.Callback = func(n ast.Node, ctx *cmdguard.Context) bool {
				if node, ok := n.(*ast.BasicLit); ok {
					target = node
					return false
				}
				return true
			}
			v.Context = ctx
			ast.Walk(v, ctx.Root)
			Expect(target).ShouldNot(BeNil())

			fobj := ctx.GetFileAtNodePos(target)
			issue := issue.New(fobj, target, "TEST", "", issue.High, issue.High)
			Expect(issue).ShouldNot(BeNil())
			Expect(issue.Code).Should(MatchRegexp(`"bar"`))
			Expect(issue.Line).Should(Equal("2"))
			Expect(issue.Col).Should(Equal("16"))
			Expect(issue.Cwe).Should(BeNil())
		})

		It("should construct file path based on line and file information", func() {
			var target *ast.CallExpr
			source := `package main
			import "sample/process"
			func main() {
				process.Exec(process.Command{Value: "ls"}, nil)
			}`

			pkg := testutils.NewTestPackage()
			defer pkg.Close()
			pkg.AddFile("foo.go", source)
			ctx := pkg.CreateContext("foo.go")
			v := testutils.NewMockVisitor()
			v.Callback = func(n ast.Node, ctx *cmdguard.Context) bool {
				if node, ok := n.(*ast.CallExpr); ok && target == nil {
					target = node
				}
				return true
			}
			v.Context = ctx
			ast.Walk(v, ctx.Root)
			Expect(target).ShouldNot(BeNil())

			rule, _ := rules.NewPartialPath("CG102", cmdguard.NewConfig())
			foundIssue, err := rule.Match(target, ctx)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(foundIssue).ShouldNot(BeNil())
			Expect(foundIssue.FileLocation()).Should(MatchRegexp("foo.go:4"))
			Expect(foundIssue.Cwe.ID).Should(Equal("426"))
		})

		It("should provide accurate line and file information for multi-line statements", func() {
			var target *ast.CallExpr
			source := `
package main
import (
	"sample/process"
)
func main() {
	_, _ = process.Exec(process.Command{
	Value: "ls"}, nil)
}
`
			pkg := testutils.NewTestPackage()
			defer pkg.Close()
			pkg.AddFile("foo.go", source)
			ctx := pkg.CreateContext("foo.go")
			v := testutils.NewMockVisitor()
			v.Callback = func(n ast.Node, ctx *cmdguard.Context) bool {
				if node, ok := n.(*ast.CallExpr); ok {
					target = node
				}
				return true
			}
			v.Context = ctx
			ast.Walk(v, ctx.Root)
			Expect(target).ShouldNot(BeNil())

			rule, _ := rules.NewPartialPath("TEST", cmdguard.NewConfig())
			issue, err := rule.Match(target, ctx)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(issue).ShouldNot(BeNil())
			Expect(issue.File).Should(MatchRegexp("foo.go"))
			Expect(issue.Line).Should(MatchRegexp("7-8"))
			Expect(issue.Col).Should(Equal("9"))
		})

		It("should maintain the provided severity and confidence scores", func() {
			var target *ast.Ident
			pkg := testutils.NewTestPackage()
			defer pkg.Close()
			pkg.AddFile("foo.go", "package main\nfunc main() {}\n")
			ctx := pkg.CreateContext("foo.go")
			ast.Inspect(ctx.Root, func(n ast.Node) bool {
				if id, ok := n.(*ast.Ident); ok && id.Name == "main" && target == nil {
					target = id
				}
				return true
			})
			Expect(target).ShouldNot(BeNil())
			i := ctx.NewIssue(target, "CG101", "what", issue.Low, issue.Medium)
			Expect(i.Severity).Should(Equal(issue.Low))
			Expect(i.Confidence).Should(Equal(issue.Medium))
			Expect(i.Cwe.ID).Should(Equal("78"))
			Expect(i.What).Should(Equal("what"))
		})
	})

	Context("when encoding scores", func() {
		It("should render scores as names", func() {
			data, err := json.Marshal(issue.High)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(string(data)).Should(Equal(`"HIGH"`))

			out, err := yaml.Marshal(map[string]issue.Score{"severity": issue.Low})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(string(out)).Should(Equal("severity: LOW\n"))
			Expect(issue.Score(7).String()).Should(Equal("UNDEFINED"))
		})
	})

	Context("when mapping rules to weaknesses", func() {
		It("should know the command injection weakness", func() {
			Expect(issue.GetCweByRule("CG101").ID).Should(Equal("78"))
			Expect(issue.GetCweByRule("CG999")).Should(BeNil())
		})

		It("should attach suppressions", func() {
			i := &issue.Issue{}
			i.WithSuppressions([]issue.SuppressionInfo{{Kind: "inSource", Justification: "trusted"}})
			Expect(i.Suppressions).Should(HaveLen(1))
		})
	})
})
