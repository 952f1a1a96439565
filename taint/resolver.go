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

// Package taint decides whether an expression can carry input received by an
// exported function. The analysis is intraprocedural and follows at most one
// declaration or assignment.
package taint

import (
	"go/ast"
)

// Resolver classifies argument expressions as tainted or not. It holds no
// mutable state and can be shared between goroutines when its collaborators
// can.
type Resolver struct {
	Symbols SymbolResolver
	Aliases AliasTracer
}

// NewResolver creates a resolver.
func NewResolver(symbols SymbolResolver, aliases AliasTracer) *Resolver {
	return &Resolver{Symbols: symbols, Aliases: aliases}
}

// IsTainted reports whether item can hold a parameter of the exported
// function enclosing it. stack is the ancestor chain of item, outermost first.
func (r *Resolver) IsTainted(item ast.Expr, stack []ast.Node) bool {
	if r.Symbols == nil {
		return false
	}
	sym, ok := r.Symbols.Resolve(item)
	if !ok {
		return false
	}
	switch sym.Kind {
	case Parameter:
		scope, ok := EnclosingFunc(stack)
		return ok && scope.Public
	case Variable:
		scope, ok := EnclosingFunc(stack)
		if !ok || !scope.Public || r.Aliases == nil {
			return false
		}
		return r.Aliases.Traces(item, scope)
	}
	return false
}
