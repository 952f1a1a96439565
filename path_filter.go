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
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cmdguard/cmdguard/issue"
)

// PathExcludeRule excludes a set of rules for the files whose path matches
// Path, a regular expression. A rule id of "*" excludes every rule.
type PathExcludeRule struct {
	Path  string   `json:"path" yaml:"path"`
	Rules []string `json:"rules" yaml:"rules"`
}

type pathRule struct {
	source  string
	pattern *regexp.Regexp
	ids     map[string]bool
}

func (r pathRule) excludes(ruleID string) bool {
	return r.ids[aliasOfAllRules] || r.ids[ruleID]
}

// PathExclusionFilter drops issues reported by excluded rules in matching paths.
type PathExclusionFilter struct {
	rules []pathRule
}

// NewPathExclusionFilter compiles the exclusion rules.
func NewPathExclusionFilter(rules []PathExcludeRule) (*PathExclusionFilter, error) {
	filter := &PathExclusionFilter{}
	for i, rule := range rules {
		if rule.Path == "" {
			return nil, fmt.Errorf("exclude-rules[%d]: path cannot be empty", i)
		}
		pattern, err := regexp.Compile(rule.Path)
		if err != nil {
			return nil, fmt.Errorf("exclude-rules[%d]: invalid path regex %q: %w", i, rule.Path, err)
		}
		ids := make(map[string]bool, len(rule.Rules))
		for _, id := range rule.Rules {
			if id = strings.TrimSpace(id); id != "" {
				ids[id] = true
			}
		}
		filter.rules = append(filter.rules, pathRule{source: rule.Path, pattern: pattern, ids: ids})
	}
	return filter, nil
}

// ShouldExclude reports whether ruleID is excluded for filePath.
func (f *PathExclusionFilter) ShouldExclude(filePath, ruleID string) bool {
	if f == nil {
		return false
	}
	path := strings.ReplaceAll(filePath, "\\", "/")
	for _, rule := range f.rules {
		if rule.excludes(ruleID) && RegexMatch(rule.pattern, path) {
			return true
		}
	}
	return false
}

// FilterIssues returns the issues that are not excluded and the number of
// dropped issues.
func (f *PathExclusionFilter) FilterIssues(issues []*issue.Issue) ([]*issue.Issue, int) {
	if f == nil || len(f.rules) == 0 {
		return issues, 0
	}
	kept := make([]*issue.Issue, 0, len(issues))
	for _, i := range issues {
		if !f.ShouldExclude(i.File, i.RuleID) {
			kept = append(kept, i)
		}
	}
	return kept, len(issues) - len(kept)
}

// String returns a human-readable representation of the filter
func (f *PathExclusionFilter) String() string {
	if f == nil || len(f.rules) == 0 {
		return "PathExclusionFilter{}"
	}
	parts := make([]string, 0, len(f.rules))
	for _, rule := range f.rules {
		ids := make([]string, 0, len(rule.ids))
		for id := range rule.ids {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		parts = append(parts, rule.source+":"+strings.Join(ids, ","))
	}
	return "PathExclusionFilter{" + strings.Join(parts, ";") + "}"
}

// ParseCLIExcludeRules parses exclusions written as
// "path:rule1,rule2;path2:rule3". The last colon of each part separates the
// path pattern from the rule ids.
func ParseCLIExcludeRules(input string) ([]PathExcludeRule, error) {
	var rules []PathExcludeRule
	for n, part := range strings.Split(input, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, ":")
		if idx < 0 {
			return nil, fmt.Errorf("exclude-rules part %d: missing ':' separator in %q", n+1, part)
		}
		path := strings.TrimSpace(part[:idx])
		if path == "" {
			return nil, fmt.Errorf("exclude-rules part %d: path pattern cannot be empty", n+1)
		}
		var ids []string
		for _, id := range strings.Split(part[idx+1:], ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("exclude-rules part %d: no rules specified", n+1)
		}
		rules = append(rules, PathExcludeRule{Path: path, Rules: ids})
	}
	return rules, nil
}
