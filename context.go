// (c) Copyright cmdguard's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmdguard

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/cmdguard/cmdguard/issue"
)

// The Context is populated with data parsed from the source code as it is scanned.
// It is passed through to all rule functions as they are called. Rules may use
// this data in conjunction with the encountered AST node.
type Context struct {
	FileSet  *token.FileSet
	Comments ast.CommentMap
	Info     *types.Info
	Pkg      *types.Package
	PkgFiles []*ast.File
	Root     *ast.File
	Config   Config
	// Stack is the path from Root to the node being matched, the node itself last.
	Stack   []ast.Node
	Ignores []map[string][]issue.SuppressionInfo
}

// GetFileAtNodePos returns the file at the node position in the file set available in the context.
func (ctx *Context) GetFileAtNodePos(node ast.Node) *token.File {
	return ctx.FileSet.File(node.Pos())
}

// NewIssue creates a new issue
func (ctx *Context) NewIssue(node ast.Node, ruleID, desc string,
	severity, confidence issue.Score,
) *issue.Issue {
	return issue.New(ctx.GetFileAtNodePos(node), node, ruleID, desc, severity, confidence)
}

// Ancestors returns the enclosing nodes of the node being matched,
// outermost first.
func (ctx *Context) Ancestors() []ast.Node {
	if len(ctx.Stack) == 0 {
		return nil
	}
	return ctx.Stack[:len(ctx.Stack)-1]
}

// suppressions returns the in-source suppressions that apply to ruleID at
// the current position of the walk.
func (ctx *Context) suppressions(ruleID string) ([]issue.SuppressionInfo, bool) {
	var found []issue.SuppressionInfo
	for _, ignores := range ctx.Ignores {
		if s, ok := ignores[ruleID]; ok {
			found = append(found, s...)
		}
		if s, ok := ignores[aliasOfAllRules]; ok {
			found = append(found, s...)
		}
	}
	return found, len(found) > 0
}
