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
)

// FunctionScope is the view of the function declaration enclosing a node.
type FunctionScope struct {
	Decl   *ast.FuncDecl
	Name   string
	Public bool
	// Params holds the named, non blank parameters in declaration order.
	// The receiver is not a parameter.
	Params []string
	Body   []ast.Stmt
}

// NewFunctionScope builds the scope of a function declaration.
func NewFunctionScope(decl *ast.FuncDecl) *FunctionScope {
	scope := &FunctionScope{
		Decl:   decl,
		Name:   decl.Name.Name,
		Public: ast.IsExported(decl.Name.Name),
	}
	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			for _, name := range field.Names {
				if name.Name != "_" {
					scope.Params = append(scope.Params, name.Name)
				}
			}
		}
	}
	if decl.Body != nil {
		scope.Body = decl.Body.List
	}
	return scope
}

// HasParam reports whether name is one of the parameters.
func (s *FunctionScope) HasParam(name string) bool {
	for _, p := range s.Params {
		if p == name {
			return true
		}
	}
	return false
}

// EnclosingFunc returns the scope of the innermost function declaration in an
// ancestor stack ordered outermost first. Function literals are skipped.
func EnclosingFunc(stack []ast.Node) (*FunctionScope, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if decl, ok := stack[i].(*ast.FuncDecl); ok {
			return NewFunctionScope(decl), true
		}
	}
	return nil, false
}
