package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
)

var _ = Describe("usage", func() {
	It("should print usage information to stderr", func() {
		old := os.Stderr
		r, w, err := os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		os.Stderr = w

		usage()

		w.Close()
		os.Stderr = old

		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		output := buf.String()

		Expect(output).To(ContainSubstring("OPTIONS:"))
		Expect(output).To(ContainSubstring("RULES:"))
		Expect(output).To(ContainSubstring("CG101: "))
		Expect(output).To(ContainSubstring("CG102: "))
	})
})

var _ = Describe("loadConfig", func() {
	var configFile string

	BeforeEach(func() {
		configFile = filepath.Join(GinkgoT().TempDir(), "cmdguard.json")
	})

	It("should load an empty config when no file is specified", func() {
		config, err := loadConfig("")
		Expect(err).NotTo(HaveOccurred())
		Expect(config).NotTo(BeNil())
	})

	It("should load config from a valid json file", func() {
		Expect(os.WriteFile(configFile, []byte(`{"global": {"nosec": "true"}, "CG101": {"sanitization": "disabled"}}`), 0o600)).To(Succeed())

		config, err := loadConfig(configFile)
		Expect(err).NotTo(HaveOccurred())

		value, err := config.GetGlobal(cmdguard.Nosec)
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal("true"))
		Expect(config.RuleSettings("CG101")).To(HaveKeyWithValue("sanitization", "disabled"))
	})

	It("should load config from a yaml file", func() {
		Expect(os.WriteFile(configFile, []byte("global:\n  nosec: \"true\"\nCG101:\n  alias: sh\n"), 0o600)).To(Succeed())

		config, err := loadConfig(configFile)
		Expect(err).NotTo(HaveOccurred())
		enabled, err := config.IsGlobalEnabled(cmdguard.Nosec)
		Expect(err).NotTo(HaveOccurred())
		Expect(enabled).To(BeTrue())
		Expect(config.RuleSettings("CG101")).To(HaveKeyWithValue("alias", "sh"))
	})

	It("should return error for non-existent file", func() {
		_, err := loadConfig("/nonexistent/config.json")
		Expect(err).To(HaveOccurred())
	})

	It("should return error for an empty file", func() {
		Expect(os.WriteFile(configFile, nil, 0o600)).To(Succeed())
		_, err := loadConfig(configFile)
		Expect(err).To(HaveOccurred())
	})

	Context("with flags set", func() {
		var (
			origIgnoreNoSec      bool
			origShowIgnored      bool
			origAlternativeNoSec string
		)

		BeforeEach(func() {
			origIgnoreNoSec = *flagIgnoreNoSec
			origShowIgnored = *flagShowIgnored
			origAlternativeNoSec = *flagAlternativeNoSec
		})

		AfterEach(func() {
			*flagIgnoreNoSec = origIgnoreNoSec
			*flagShowIgnored = origShowIgnored
			*flagAlternativeNoSec = origAlternativeNoSec
		})

		It("should set nosec when flagIgnoreNoSec is true", func() {
			*flagIgnoreNoSec = true
			config, err := loadConfig("")
			Expect(err).NotTo(HaveOccurred())
			value, err := config.GetGlobal(cmdguard.Nosec)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("true"))
		})

		It("should set show ignored when flagShowIgnored is true", func() {
			*flagShowIgnored = true
			config, err := loadConfig("")
			Expect(err).NotTo(HaveOccurred())
			value, err := config.GetGlobal(cmdguard.ShowIgnored)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("true"))
		})

		It("should set alternative nosec when specified", func() {
			*flagAlternativeNoSec = "#trusted"
			config, err := loadConfig("")
			Expect(err).NotTo(HaveOccurred())
			value, err := config.GetGlobal(cmdguard.NoSecAlternative)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("#trusted"))
		})
	})
})

var _ = Describe("loadRules", func() {
	It("should load default rules when no filters specified", func() {
		ruleList := loadRules("", "")
		Expect(ruleList.Rules).To(HaveKey("CG101"))
		Expect(ruleList.Rules).To(HaveKey("CG102"))
	})

	It("should load only included rules", func() {
		ruleList := loadRules("CG101", "")
		Expect(ruleList.Rules).To(HaveLen(1))
		Expect(ruleList.Rules).To(HaveKey("CG101"))
	})

	It("should exclude specified rules", func() {
		ruleList := loadRules("", "CG102")
		Expect(ruleList.Rules).To(HaveKey("CG101"))
		Expect(ruleList.Rules).NotTo(HaveKey("CG102"))
	})

	It("should handle both include and exclude filters", func() {
		ruleList := loadRules("CG101,CG102", "CG102")
		Expect(ruleList.Rules).To(HaveLen(1))
		Expect(ruleList.Rules).To(HaveKey("CG101"))
	})
})

var _ = Describe("getRootPaths", func() {
	It("should return absolute root paths", func() {
		paths, err := getRootPaths([]string{".", "./..."})
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(HaveLen(2))
		cwd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(paths[0]).To(Equal(cwd))
		Expect(paths[1]).To(Equal(cwd))
	})
})

var _ = Describe("getPackagePaths", func() {
	It("should expand recursive paths and skip excluded dirs", func() {
		root := GinkgoT().TempDir()
		for _, dir := range []string{"a", "a/b", "vendored", "empty"} {
			Expect(os.MkdirAll(filepath.Join(root, dir), 0o700)).To(Succeed())
		}
		for _, file := range []string{"a/a.go", "a/b/b.go", "vendored/v.go"} {
			Expect(os.WriteFile(filepath.Join(root, file), []byte("package x\n"), 0o600)).To(Succeed())
		}

		paths, err := getPackagePaths([]string{root + "/..."}, []string{"vendored"})
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(Equal([]string{filepath.Join(root, "a"), filepath.Join(root, "a/b")}))
	})

	It("should keep non recursive paths", func() {
		paths, err := getPackagePaths([]string{"./one", "./two"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(Equal([]string{"./one", "./two"}))
	})
})

var _ = Describe("convertToScore", func() {
	It("should convert the known values case insensitively", func() {
		for value, want := range map[string]issue.Score{
			"low": issue.Low, "Medium": issue.Medium, "HIGH": issue.High,
		} {
			score, err := convertToScore(value)
			Expect(err).NotTo(HaveOccurred())
			Expect(score).To(Equal(want))
		}
	})

	It("should return error for invalid score", func() {
		_, err := convertToScore("invalid")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("not valid"))

		_, err = convertToScore("")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("filterIssues", func() {
	var testIssues []*issue.Issue

	BeforeEach(func() {
		testIssues = []*issue.Issue{
			{Severity: issue.High, Confidence: issue.Medium, RuleID: "CG101"},
			{Severity: issue.Low, Confidence: issue.High, RuleID: "CG102"},
		}
	})

	It("should filter by severity", func() {
		filtered, trueIssues := filterIssues(testIssues, issue.High, issue.Low)
		Expect(filtered).To(HaveLen(1))
		Expect(filtered[0].RuleID).To(Equal("CG101"))
		Expect(trueIssues).To(Equal(1))
	})

	It("should filter by confidence", func() {
		filtered, trueIssues := filterIssues(testIssues, issue.Low, issue.High)
		Expect(filtered).To(HaveLen(1))
		Expect(filtered[0].RuleID).To(Equal("CG102"))
		Expect(trueIssues).To(Equal(1))
	})

	It("should include all issues with low thresholds", func() {
		filtered, trueIssues := filterIssues(testIssues, issue.Low, issue.Low)
		Expect(filtered).To(HaveLen(2))
		Expect(trueIssues).To(Equal(2))
	})

	It("should not count suppressed issues", func() {
		testIssues[0].Suppressions = []issue.SuppressionInfo{{Kind: "inSource"}}
		filtered, trueIssues := filterIssues(testIssues, issue.Low, issue.Low)
		Expect(filtered).To(HaveLen(2))
		Expect(trueIssues).To(Equal(1))
	})

	Context("with ignored issues shown", func() {
		var origShowIgnored bool

		BeforeEach(func() {
			origShowIgnored = *flagShowIgnored
			*flagShowIgnored = true
		})

		AfterEach(func() {
			*flagShowIgnored = origShowIgnored
		})

		It("should not count nosec issues", func() {
			testIssues[0].NoSec = true
			filtered, trueIssues := filterIssues(testIssues, issue.Low, issue.Low)
			Expect(filtered).To(HaveLen(2))
			Expect(trueIssues).To(Equal(1))
		})
	})
})

var _ = Describe("computeExitCode", func() {
	noErrors := map[string][]cmdguard.Error{}
	fileErrors := map[string][]cmdguard.Error{
		"run.go": {{Line: 1, Column: 1, Err: "test error"}},
	}
	found := []*issue.Issue{{Severity: issue.High, Confidence: issue.Medium}}

	It("should return success when no issues and no errors", func() {
		Expect(computeExitCode([]*issue.Issue{}, noErrors, false)).To(Equal(exitSuccess))
	})

	It("should return failure when issues exist", func() {
		Expect(computeExitCode(found, noErrors, false)).To(Equal(exitFailure))
	})

	It("should return failure when errors exist", func() {
		Expect(computeExitCode(nil, fileErrors, false)).To(Equal(exitFailure))
	})

	It("should return success with noFail", func() {
		Expect(computeExitCode(found, fileErrors, true)).To(Equal(exitSuccess))
	})

	It("should not count suppressed or ignored issues", func() {
		issues := []*issue.Issue{
			{Suppressions: []issue.SuppressionInfo{{Kind: "inSource"}}},
			{NoSec: true},
		}
		Expect(computeExitCode(issues, noErrors, false)).To(Equal(exitSuccess))
	})
})

var _ = Describe("buildPathExclusionFilter", func() {
	It("should create an empty filter with empty CLI flag", func() {
		filter, err := buildPathExclusionFilter(cmdguard.NewConfig(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(filter.String()).To(Equal("PathExclusionFilter{}"))
	})

	It("should create filter with valid CLI rule", func() {
		filter, err := buildPathExclusionFilter(cmdguard.NewConfig(), "cmd/.*:CG102")
		Expect(err).NotTo(HaveOccurred())
		Expect(filter.ShouldExclude("/src/cmd/main.go", "CG102")).To(BeTrue())
		Expect(filter.ShouldExclude("/src/cmd/main.go", "CG101")).To(BeFalse())
	})

	It("should return error for invalid CLI rule format", func() {
		_, err := buildPathExclusionFilter(cmdguard.NewConfig(), "invalid_format")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid --exclude-rules flag"))
	})

	It("should merge config file and CLI rules", func() {
		config := cmdguard.NewConfig()
		config.Set(cmdguard.ExcludeRulesKey, []interface{}{
			map[string]interface{}{"path": "internal/.*", "rules": []interface{}{"CG101"}},
		})
		filter, err := buildPathExclusionFilter(config, "cmd/.*:*")
		Expect(err).NotTo(HaveOccurred())
		Expect(filter.ShouldExclude("/src/internal/run.go", "CG101")).To(BeTrue())
		Expect(filter.ShouldExclude("/src/cmd/run.go", "CG101")).To(BeTrue())
		Expect(filter.ShouldExclude("/src/pkg/run.go", "CG101")).To(BeFalse())
	})

	It("should report invalid config rules", func() {
		config := cmdguard.NewConfig()
		config.Set(cmdguard.ExcludeRulesKey, "not a list")
		_, err := buildPathExclusionFilter(config, "")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid exclude-rules in config"))
	})
})

var _ = Describe("saveReport", func() {
	var reportInfo *cmdguard.ReportInfo

	BeforeEach(func() {
		reportInfo = cmdguard.NewReportInfo([]*issue.Issue{}, &cmdguard.Metrics{}, map[string][]cmdguard.Error{})
	})

	It("should save report to file", func() {
		out := filepath.Join(GinkgoT().TempDir(), "report.txt")
		Expect(saveReport(out, "text", []string{"."}, reportInfo)).To(Succeed())

		info, err := os.Stat(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})

	It("should save report in json format", func() {
		out := filepath.Join(GinkgoT().TempDir(), "report.json")
		Expect(saveReport(out, "json", []string{"."}, reportInfo)).To(Succeed())

		content, err := os.ReadFile(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(HavePrefix("{"))
	})

	It("should return error for invalid directory", func() {
		Expect(saveReport("/nonexistent/dir/report.txt", "text", []string{"."}, reportInfo)).NotTo(Succeed())
	})
})

var _ = Describe("arrayFlags", func() {
	It("should collect every value", func() {
		var flags arrayFlags
		Expect(flags.Set("vendor")).To(Succeed())
		Expect(flags.Set("testdata")).To(Succeed())
		Expect(flags).To(Equal(arrayFlags{"vendor", "testdata"}))
		Expect(flags.String()).To(Equal("vendor testdata"))
	})
})

var _ = Describe("newLogger", func() {
	It("should discard messages when quiet", func() {
		l, closer, err := newLogger(true, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(closer).To(BeNil())
		Expect(l.Writer()).To(Equal(io.Discard))
	})

	It("should write to the log file", func() {
		logfile := filepath.Join(GinkgoT().TempDir(), "cmdguard.log")
		l, closer, err := newLogger(false, logfile)
		Expect(err).NotTo(HaveOccurred())
		l.Print("checking")
		Expect(closer.Close()).To(Succeed())

		content, err := os.ReadFile(logfile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("[cmdguard] "))
		Expect(string(content)).To(ContainSubstring("checking"))
	})
})
