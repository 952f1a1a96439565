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

package junit

import (
	"encoding/xml"
	"html"
	"io"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
)

// Report is the root element of a JUnit XML report
type Report struct {
	XMLName    xml.Name     `xml:"testsuites"`
	Testsuites []*Testsuite `xml:"testsuite"`
}

// Testsuite groups the failures of one rule
type Testsuite struct {
	XMLName   xml.Name    `xml:"testsuite"`
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Testcases []*Testcase `xml:"testcase"`
}

// Testcase is one issue
type Testcase struct {
	XMLName xml.Name `xml:"testcase"`
	Name    string   `xml:"name,attr"`
	Failure *Failure `xml:"failure"`
}

// Failure describes an issue
type Failure struct {
	XMLName xml.Name `xml:"failure"`
	Message string   `xml:"message,attr"`
	Text    string   `xml:",innerxml"`
}

func generatePlaintext(i *issue.Issue) string {
	return "Results:\n" +
		"[" + html.EscapeString(i.FileLocation()) + "] - " + html.EscapeString(i.What) +
		" (Confidence: " + i.Confidence.String() +
		", Severity: " + i.Severity.String() +
		", CWE: " + i.Cwe.SprintID() + ")\n" +
		"> " + html.EscapeString(i.Code)
}

// GenerateReport groups the issues by rule into test suites, in order of
// first appearance.
func GenerateReport(data *cmdguard.ReportInfo) *Report {
	report := &Report{}
	suites := map[string]*Testsuite{}
	for _, i := range data.Issues {
		suite, ok := suites[i.RuleID]
		if !ok {
			suite = &Testsuite{Name: i.RuleID}
			suites[i.RuleID] = suite
			report.Testsuites = append(report.Testsuites, suite)
		}
		suite.Testcases = append(suite.Testcases, &Testcase{
			Name: i.FileLocation(),
			Failure: &Failure{
				Message: i.What,
				Text:    generatePlaintext(i),
			},
		})
		suite.Tests++
		suite.Failures++
	}
	return report
}

// WriteReport write a report in JUnit XML format to the output writer
func WriteReport(w io.Writer, data *cmdguard.ReportInfo) error {
	raw, err := xml.MarshalIndent(GenerateReport(data), "", "\t")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
