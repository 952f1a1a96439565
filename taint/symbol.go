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
	"go/types"
)

// Kind classifies the symbol an expression refers to.
type Kind int

const (
	// Other covers receivers, fields, constants, functions, types and packages.
	Other Kind = iota
	// Parameter is a named parameter of a function.
	Parameter
	// Variable is a local, package level or named result variable.
	Variable
)

func (k Kind) String() string {
	switch k {
	case Parameter:
		return "Parameter"
	case Variable:
		return "Variable"
	}
	return "Other"
}

// Symbol is the resolved view of an identifier.
type Symbol struct {
	Name   string
	Kind   Kind
	Object types.Object
}

// SymbolResolver maps an expression to the symbol it names, if any.
type SymbolResolver interface {
	Resolve(expr ast.Expr) (Symbol, bool)
}

// TypesResolver resolves identifiers through the type checker results of a package.
type TypesResolver struct {
	Info *types.Info
}

// NewTypesResolver creates a resolver backed by info. A nil info resolves nothing.
func NewTypesResolver(info *types.Info) *TypesResolver {
	return &TypesResolver{Info: info}
}

// Resolve returns the symbol of a bare identifier. Blank identifiers, non
// identifiers and identifiers without type information are unresolved.
func (r *TypesResolver) Resolve(expr ast.Expr) (Symbol, bool) {
	if r == nil || r.Info == nil {
		return Symbol{}, false
	}
	id, ok := ast.Unparen(expr).(*ast.Ident)
	if !ok || id.Name == "_" {
		return Symbol{}, false
	}
	obj := r.Info.ObjectOf(id)
	if obj == nil {
		return Symbol{}, false
	}
	return Symbol{Name: id.Name, Kind: kindOf(obj), Object: obj}, true
}

func kindOf(obj types.Object) Kind {
	v, ok := obj.(*types.Var)
	if !ok {
		return Other
	}
	switch v.Kind() {
	case types.ParamVar:
		return Parameter
	case types.LocalVar, types.PackageVar, types.ResultVar:
		return Variable
	}
	return Other
}
