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

package rules

import (
	"go/ast"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
)

const (
	defaultAlias         = "process"
	defaultFunction      = "Exec"
	defaultArgumentField = "Arguments"
	defaultValueField    = "Value"
)

// sink describes the process spawn call watched by the rules. Every part
// can be overridden in the settings section of a rule.
type sink struct {
	alias    string
	function string
	// field names the command record field holding the argument vector
	field string
	// value names the command record field holding the executable
	value string
}

func newSink(id string, conf cmdguard.Config) sink {
	settings := conf.RuleSettings(id)
	s := sink{
		alias:    defaultAlias,
		function: defaultFunction,
		field:    defaultArgumentField,
		value:    defaultValueField,
	}
	if v := settings["alias"]; v != "" {
		s.alias = v
	}
	if v := settings["function"]; v != "" {
		s.function = v
	}
	if v := settings["field"]; v != "" {
		s.field = v
	}
	if v := settings["value"]; v != "" {
		s.value = v
	}
	return s
}

func (s sink) String() string {
	return s.alias + "." + s.function
}

// callListRule is a base for rules that match a sink call through a CallList
type callListRule struct {
	issue.MetaData
	sink  sink
	calls cmdguard.CallList
}

func newCallListRule(id, what string, severity, confidence issue.Score, conf cmdguard.Config) callListRule {
	s := newSink(id, conf)
	calls := cmdguard.NewCallList()
	calls.Add(s.alias, s.function)
	return callListRule{
		MetaData: issue.NewMetaData(id, what, severity, confidence),
		sink:     s,
		calls:    calls,
	}
}

func (r *callListRule) matchSink(n ast.Node) *ast.CallExpr {
	return r.calls.ContainsSelectorCall(n)
}

// commandRecords returns the keyed composite literals passed to call.
func commandRecords(call *ast.CallExpr) []*ast.CompositeLit {
	var records []*ast.CompositeLit
	for _, arg := range call.Args {
		lit, ok := cmdguard.Unwrap(arg).(*ast.CompositeLit)
		if !ok || !isKeyed(lit) {
			continue
		}
		records = append(records, lit)
	}
	return records
}

func isKeyed(lit *ast.CompositeLit) bool {
	if len(lit.Elts) == 0 {
		return false
	}
	for _, elt := range lit.Elts {
		if _, ok := elt.(*ast.KeyValueExpr); !ok {
			return false
		}
	}
	return true
}

// recordField returns the value of the field called name.
func recordField(lit *ast.CompositeLit, name string) (ast.Expr, bool) {
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		if key, ok := kv.Key.(*ast.Ident); ok && key.Name == name {
			return kv.Value, true
		}
	}
	return nil, false
}

// extractArguments returns the expressions flowing into the argument vector
// of a sink call. The boolean is false when no command record carries the
// field at all.
func extractArguments(call *ast.CallExpr, field string) ([]ast.Expr, bool) {
	var items []ast.Expr
	found := false
	for _, record := range commandRecords(call) {
		value, ok := recordField(record, field)
		if !ok {
			continue
		}
		found = true
		switch v := cmdguard.Unwrap(value).(type) {
		case *ast.CompositeLit:
			if _, ok := v.Type.(*ast.ArrayType); ok {
				items = append(items, v.Elts...)
			}
		case *ast.Ident:
			items = append(items, v)
		}
	}
	return items, found
}
