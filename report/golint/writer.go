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

package golint

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmdguard/cmdguard"
)

// WriteReport write a report in golint format to the output writer
//
//	/tmp/run.go:7:2: [CWE-78] Potential command injection ... (Rule:CG101, Severity:HIGH, Confidence:MEDIUM)
func WriteReport(w io.Writer, data *cmdguard.ReportInfo) error {
	for _, issue := range data.Issues {
		what := issue.What
		if issue.Cwe != nil && issue.Cwe.ID != "" {
			what = fmt.Sprintf("[%s] %s", issue.Cwe.SprintID(), issue.What)
		}

		// multi line issues are reported at their first line
		start, _, _ := strings.Cut(issue.Line, "-")

		_, err := fmt.Fprintf(w, "%s:%s:%s: %s (Rule:%s, Severity:%s, Confidence:%s)\n",
			issue.File,
			start,
			issue.Col,
			what,
			issue.RuleID,
			issue.Severity,
			issue.Confidence,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
