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

package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cmdguard/cmdguard/issue"
)

// handle ranges
func extractLineNumber(s string) int {
	start, _, _ := strings.Cut(s, "-")
	lineNumber, _ := strconv.Atoi(start)
	return lineNumber
}

type sortBySeverity []*issue.Issue

func (s sortBySeverity) Len() int { return len(s) }

func (s sortBySeverity) Less(i, j int) bool {
	if s[i].Severity != s[j].Severity {
		return s[i].Severity > s[j].Severity
	}
	if s[i].What != s[j].What {
		return s[i].What > s[j].What
	}
	if s[i].File != s[j].File {
		return s[i].File > s[j].File
	}
	return extractLineNumber(s[i].Line) > extractLineNumber(s[j].Line)
}

func (s sortBySeverity) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// sortIssues sorts the issues by severity in descending order
func sortIssues(issues []*issue.Issue) {
	sort.Stable(sortBySeverity(issues))
}
