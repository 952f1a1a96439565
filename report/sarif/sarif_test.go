package sarif_test

import (
	"bytes"
	"encoding/json"
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
	"github.com/cmdguard/cmdguard/report/sarif"
)

func newIssue(ruleID, line, code string) *issue.Issue {
	return &issue.Issue{
		File:       "/home/src/project/run.go",
		Line:       line,
		Col:        "2",
		RuleID:     ruleID,
		What:       "test",
		Confidence: issue.Medium,
		Severity:   issue.High,
		Code:       code,
		Cwe:        issue.GetCweByRule(ruleID),
	}
}

func newReport(issues ...*issue.Issue) *cmdguard.ReportInfo {
	return cmdguard.NewReportInfo(issues, &cmdguard.Metrics{}, map[string][]cmdguard.Error{}).WithVersion("v1.2.0")
}

var _ = Describe("Sarif Formatter", func() {
	Context("when converting to Sarif issues", func() {
		It("should contain an empty result list when there are no issues", func() {
			buf := new(bytes.Buffer)
			err := sarif.WriteReport(buf, newReport(), []string{})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("\"results\": []"))

			var report sarif.Report
			Expect(json.Unmarshal(buf.Bytes(), &report)).To(Succeed())
			Expect(report.Version).To(Equal(sarif.Version))
			Expect(report.Runs[0].Tool.Driver.Name).To(Equal("cmdguard"))
			Expect(report.Runs[0].Tool.Driver.SemanticVersion).To(Equal("1.2.0"))
			Expect(report.Runs[0].Taxonomies).To(BeEmpty())
		})

		It("should contain the suppressed results", func() {
			suppressed := newIssue("CG101", "1", "1: testcode")
			suppressed.Suppressions = []issue.SuppressionInfo{{Kind: "inSource", Justification: "arguments are constant"}}

			buf := new(bytes.Buffer)
			err := sarif.WriteReport(buf, newReport(suppressed), []string{})
			Expect(err).ShouldNot(HaveOccurred())

			result := buf.String()
			hasResults, _ := regexp.MatchString(`"results": \[(\s*){`, result)
			Expect(hasResults).To(BeTrue())
			hasSuppressions, _ := regexp.MatchString(`"suppressions": \[(\s*){`, result)
			Expect(hasSuppressions).To(BeTrue())
			Expect(result).To(ContainSubstring("arguments are constant"))
		})

		It("should contain the formatted one line code snippet", func() {
			code := "6: \tfunc Run(args []string) {\n7: \t\tprocess.Exec(process.Command{Arguments: args}, nil)\n8: \t}\n"
			report, err := sarif.GenerateReport([]string{}, newReport(newIssue("CG101", "7", code)))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(report.Runs[0].Results[0].Locations[0].PhysicalLocation.Region.Snippet.Text).
				Should(Equal("process.Exec(process.Command{Arguments: args}, nil)"))
		})

		It("should contain the formatted multiple line code snippet", func() {
			code := "6: func Run(args []string) {\n7: process.Exec(process.Command{\n8: Arguments: args}, nil)\n9: }\n"
			report, err := sarif.GenerateReport([]string{}, newReport(newIssue("CG101", "7-8", code)))
			Expect(err).ShouldNot(HaveOccurred())
			region := report.Runs[0].Results[0].Locations[0].PhysicalLocation.Region
			Expect(region.Snippet.Text).Should(Equal("process.Exec(process.Command{\nArguments: args}, nil)\n"))
			Expect(region.StartLine).To(Equal(7))
			Expect(region.EndLine).To(Equal(8))
			Expect(region.StartColumn).To(Equal(2))
		})

		It("should have rule indexes matching the driver rules", func() {
			issues := []*issue.Issue{
				newIssue("CG102", "3", ""),
				newIssue("CG101", "4", ""),
				newIssue("CG102", "5", ""),
				newIssue("CG101", "6", ""),
			}
			report, err := sarif.GenerateReport([]string{}, newReport(issues...))
			Expect(err).ShouldNot(HaveOccurred())

			driverRuleIndexes := map[string]int{}
			for idx, rule := range report.Runs[0].Tool.Driver.Rules {
				driverRuleIndexes[rule.ID] = idx
			}
			Expect(driverRuleIndexes).To(Equal(map[string]int{"CG101": 0, "CG102": 1}))
			for _, result := range report.Runs[0].Results {
				Expect(result.RuleIndex).To(Equal(driverRuleIndexes[result.RuleID]))
			}
		})

		It("should reference the CWE taxonomy", func() {
			report, err := sarif.GenerateReport([]string{}, newReport(newIssue("CG101", "7", "")))
			Expect(err).ShouldNot(HaveOccurred())

			run := report.Runs[0]
			Expect(run.Taxonomies).To(HaveLen(1))
			Expect(run.Taxonomies[0].Name).To(Equal("CWE"))
			Expect(run.Taxonomies[0].Taxa).To(HaveLen(1))
			Expect(run.Taxonomies[0].Taxa[0].ID).To(Equal("78"))
			Expect(run.Tool.Driver.Rules[0].Relationships[0].Target.ID).To(Equal("78"))
			Expect(run.Tool.Driver.Rules[0].Relationships[0].Target.GUID).
				To(Equal(run.Taxonomies[0].Taxa[0].GUID))
			Expect(run.Results[0].Level).To(Equal(sarif.Error))
		})

		It("should describe the CWE taxonomy and the driver with stable GUIDs", func() {
			first, err := sarif.GenerateReport([]string{}, newReport(newIssue("CG101", "7", "")))
			Expect(err).ShouldNot(HaveOccurred())
			second, err := sarif.GenerateReport([]string{}, newReport(newIssue("CG101", "7", "")))
			Expect(err).ShouldNot(HaveOccurred())

			taxonomy := first.Runs[0].Taxonomies[0]
			Expect(taxonomy.Organization).To(Equal("MITRE"))
			Expect(taxonomy.Version).To(Equal("4.4"))
			Expect(taxonomy.MinimumRequiredLocalizedDataSemanticVersion).To(Equal("4.4"))
			Expect(taxonomy.IsComprehensive).To(BeTrue())
			Expect(taxonomy.GUID).ToNot(BeEmpty())
			Expect(taxonomy.GUID).To(Equal(second.Runs[0].Taxonomies[0].GUID))

			driver := first.Runs[0].Tool.Driver
			Expect(driver.GUID).ToNot(BeEmpty())
			Expect(driver.GUID).To(Equal(second.Runs[0].Tool.Driver.GUID))
			Expect(driver.SupportedTaxonomies).To(HaveLen(1))
			Expect(driver.SupportedTaxonomies[0].GUID).To(Equal(taxonomy.GUID))
		})

		It("should make file paths relative to the root path", func() {
			report, err := sarif.GenerateReport([]string{"/home/src", "/home/src/project/"}, newReport(newIssue("CG101", "7", "")))
			Expect(err).ShouldNot(HaveOccurred())
			uri := report.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI
			Expect(uri).To(Equal("run.go"))
		})

		It("should fail on a malformed line", func() {
			_, err := sarif.GenerateReport([]string{}, newReport(newIssue("CG101", "seven", "")))
			Expect(err).To(HaveOccurred())
		})
	})
})
