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
	"strings"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
)

type partialPath struct {
	callListRule
}

// Match reports a sink call whose command record names the executable with
// a literal that is not an absolute path.
func (r *partialPath) Match(n ast.Node, c *cmdguard.Context) (*issue.Issue, error) {
	call := r.matchSink(n)
	if call == nil {
		return nil, nil
	}
	for _, record := range commandRecords(call) {
		value, ok := recordField(record, r.sink.value)
		if !ok {
			continue
		}
		if str, err := cmdguard.GetString(value); err == nil && !strings.HasPrefix(str, "/") {
			return c.NewIssue(call, r.ID(), r.What, r.Severity, r.Confidence), nil
		}
	}
	return nil, nil
}

// NewPartialPath creates a rule reporting processes launched with a partial path
func NewPartialPath(id string, conf cmdguard.Config) (cmdguard.Rule, []ast.Node) {
	rule := &partialPath{
		callListRule: newCallListRule(id, "Subprocess launching with partial path.", issue.Low, issue.High, conf),
	}
	return rule, []ast.Node{(*ast.CallExpr)(nil)}
}
