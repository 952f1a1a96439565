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
	"go/token"
	"strings"

	"github.com/cmdguard/cmdguard"
)

var (
	defaultAllowList = [][]string{
		{"slices.ContainsFunc(", "strings.EqualFold("},
		{"slices.Contains("},
	}
	defaultNormalizers = []string{
		"strings.TrimSpace(%s)",
		"strings.ToLower(%s)",
		"strings.ReplaceAll(%s,",
		".ReplaceAllString(%s,",
		"strings.Trim(%s,",
	}
)

// sanitizer recognises a function body guarding its input with an allow list
// check or a normalisation call. The check is textual only.
type sanitizer struct {
	allowList   [][]string
	normalizers []string
}

// newSanitizer reads the settings of rule id. It returns nil when
// sanitization is disabled, and a nil sanitizer never matches.
//
//	"CG101": {
//	  "sanitization": "disabled",
//	  "allow-list": ["slices.Contains( strings.EqualFold("],
//	  "normalizers": ["strings.TrimSpace(%s)"]
//	}
//
// Each allow-list entry is a group of whitespace separated substrings that
// must all occur in one statement.
func newSanitizer(id string, conf cmdguard.Config) *sanitizer {
	if conf.RuleSettings(id)["sanitization"] == "disabled" {
		return nil
	}
	s := &sanitizer{allowList: defaultAllowList, normalizers: defaultNormalizers}
	if groups, ok := conf.RuleList(id, "allow-list"); ok {
		s.allowList = nil
		for _, group := range groups {
			if fields := strings.Fields(group); len(fields) > 0 {
				s.allowList = append(s.allowList, fields)
			}
		}
	}
	if normalizers, ok := conf.RuleList(id, "normalizers"); ok {
		s.normalizers = normalizers
	}
	return s
}

// isSanitized reports whether one top level statement of body performs an
// allow list check or normalises one of params.
func (s *sanitizer) isSanitized(fset *token.FileSet, body []ast.Stmt, params []string) bool {
	if s == nil {
		return false
	}
	for _, stmt := range body {
		text := cmdguard.SourceText(fset, stmt)
		if s.allowListed(text) || s.normalized(text, params) {
			return true
		}
	}
	return false
}

func (s *sanitizer) allowListed(text string) bool {
	for _, group := range s.allowList {
		if containsAll(text, group) {
			return true
		}
	}
	return false
}

func (s *sanitizer) normalized(text string, params []string) bool {
	for _, p := range params {
		for _, template := range s.normalizers {
			if strings.Contains(text, strings.ReplaceAll(template, "%s", p)) {
				return true
			}
		}
	}
	return false
}

func containsAll(text string, substrings []string) bool {
	for _, sub := range substrings {
		if !strings.Contains(text, sub) {
			return false
		}
	}
	return true
}
