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

// Package report renders analysis results in the supported output formats.
package report

import (
	"io"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
	"github.com/cmdguard/cmdguard/report/csv"
	"github.com/cmdguard/cmdguard/report/golint"
	"github.com/cmdguard/cmdguard/report/json"
	"github.com/cmdguard/cmdguard/report/junit"
	"github.com/cmdguard/cmdguard/report/sarif"
	"github.com/cmdguard/cmdguard/report/text"
	"github.com/cmdguard/cmdguard/report/yaml"
)

// Formats lists the accepted output formats
var Formats = []string{"text", "json", "yaml", "csv", "junit-xml", "sarif", "golint"}

// IsValidFormat reports whether format is one of Formats
func IsValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// CreateReport generates a report for the supplied issues and metrics in the
// specified format. Unknown formats fall back to text. Suppressed issues are
// only kept by the json and sarif formats, which can represent them.
func CreateReport(w io.Writer, format string, enableColor bool, rootPaths []string, data *cmdguard.ReportInfo) error {
	if format != "json" && format != "sarif" {
		filtered := *data
		filtered.Issues = filterOutSuppressedIssues(data.Issues)
		data = &filtered
	}
	switch format {
	case "json":
		return json.WriteReport(w, data)
	case "yaml":
		return yaml.WriteReport(w, data)
	case "csv":
		return csv.WriteReport(w, data)
	case "junit-xml":
		return junit.WriteReport(w, data)
	case "golint":
		return golint.WriteReport(w, data)
	case "sarif":
		return sarif.WriteReport(w, data, rootPaths)
	default:
		return text.WriteReport(w, data, enableColor)
	}
}

func filterOutSuppressedIssues(issues []*issue.Issue) []*issue.Issue {
	nonSuppressedIssues := []*issue.Issue{}
	for _, i := range issues {
		if len(i.Suppressions) == 0 {
			nonSuppressedIssues = append(nonSuppressedIssues, i)
		}
	}
	return nonSuppressedIssues
}
