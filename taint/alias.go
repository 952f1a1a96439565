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

package taint

import (
	"go/ast"
	"go/token"

	"github.com/cmdguard/cmdguard"
)

// AliasTracer decides whether a variable used in a function can hold the
// value of one of the function parameters.
type AliasTracer interface {
	Traces(item ast.Expr, scope *FunctionScope) bool
}

// TextualAliasTracer follows a single declaration or assignment by comparing
// source text. Only the top level statements of the function body are
// inspected and their position relative to the use is ignored. Two variables
// spelled the same in different blocks are not told apart.
type TextualAliasTracer struct {
	FileSet *token.FileSet
}

// NewTextualAliasTracer creates a tracer printing nodes with fset.
func NewTextualAliasTracer(fset *token.FileSet) *TextualAliasTracer {
	if fset == nil {
		fset = token.NewFileSet()
	}
	return &TextualAliasTracer{FileSet: fset}
}

// Traces reports whether the body declares any variable from a parameter, or
// assigns a parameter to the item.
func (t *TextualAliasTracer) Traces(item ast.Expr, scope *FunctionScope) bool {
	if scope == nil {
		return false
	}
	itemText := t.text(item)
	for _, stmt := range scope.Body {
		switch s := stmt.(type) {
		case *ast.DeclStmt:
			gen, ok := s.Decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}
			for _, spec := range gen.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, value := range vs.Values {
					if t.fromParam(value, scope) {
						return true
					}
				}
			}
		case *ast.AssignStmt:
			switch s.Tok {
			case token.DEFINE:
				for _, rhs := range s.Rhs {
					if t.fromParam(rhs, scope) {
						return true
					}
				}
			case token.ASSIGN:
				if len(s.Lhs) != len(s.Rhs) {
					continue
				}
				for i := range s.Lhs {
					if t.text(s.Lhs[i]) == itemText && t.fromParam(s.Rhs[i], scope) {
						return true
					}
				}
			}
		}
	}
	return false
}

// fromParam reports whether expr is spelled as a parameter name or is a list
// literal with such an element.
func (t *TextualAliasTracer) fromParam(expr ast.Expr, scope *FunctionScope) bool {
	if scope.HasParam(t.text(expr)) {
		return true
	}
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return false
	}
	if _, ok := lit.Type.(*ast.ArrayType); !ok {
		return false
	}
	for _, elt := range lit.Elts {
		if scope.HasParam(t.text(elt)) {
			return true
		}
	}
	return false
}

func (t *TextualAliasTracer) text(node ast.Node) string {
	return cmdguard.SourceText(t.FileSet, node)
}
