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
	"fmt"
	"go/ast"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
	"github.com/cmdguard/cmdguard/taint"
)

type commandInjection struct {
	callListRule
	sanitizer *sanitizer
}

// Match reports a sink call whose argument vector holds input of the
// exported function enclosing it. Only the first tainted item is reported.
func (r *commandInjection) Match(n ast.Node, c *cmdguard.Context) (*issue.Issue, error) {
	call := r.matchSink(n)
	if call == nil {
		return nil, nil
	}
	items, ok := extractArguments(call, r.sink.field)
	if !ok {
		return nil, nil
	}
	resolver := taint.NewResolver(taint.NewTypesResolver(c.Info), taint.NewTextualAliasTracer(c.FileSet))
	for _, item := range items {
		if !resolver.IsTainted(item, c.Stack) {
			continue
		}
		scope, ok := taint.EnclosingFunc(c.Stack)
		if !ok {
			return nil, nil
		}
		if r.sanitizer.isSanitized(c.FileSet, scope.Body, scope.Params) {
			return nil, nil
		}
		what := fmt.Sprintf(r.What, scope.Name, r.sink)
		return c.NewIssue(call, r.ID(), what, r.Severity, r.Confidence), nil
	}
	return nil, nil
}

// NewCommandInjection detects process spawns whose arguments come from
// the parameters of an exported function without sanitization.
func NewCommandInjection(id string, conf cmdguard.Config) (cmdguard.Rule, []ast.Node) {
	rule := &commandInjection{
		callListRule: newCallListRule(id,
			"Potential command injection in function '%s': unsanitized input is passed to %s",
			issue.High, issue.Medium, conf),
		sanitizer: newSanitizer(id, conf),
	}
	return rule, []ast.Node{(*ast.CallExpr)(nil)}
}
