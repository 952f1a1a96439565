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
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/cmd/vflag"
	"github.com/cmdguard/cmdguard/issue"
	"github.com/cmdguard/cmdguard/report"
	"github.com/cmdguard/cmdguard/rules"
)

const (
	usageText = `
cmdguard - Command injection checker

cmdguard analyzes Go source code and reports exported functions which pass
their inputs, unsanitized, as arguments of a spawned process.

VERSION: %s
GIT TAG: %s
BUILD DATE: %s

USAGE:

	# Check a single package
	$ cmdguard $GOPATH/src/github.com/example/project

	# Check all packages under the current directory and save results in
	# json format.
	$ cmdguard -fmt=json -out=results.json ./...

	# Run a specific set of rules (by default all rules will be run):
	$ cmdguard -include=CG101 ./...

	# Run all rules except the provided
	$ cmdguard -exclude=CG102 $GOPATH/src/github.com/example/project/...

	# Skip a rule for the files matching a path pattern
	$ cmdguard -exclude-rules="cmd/.*:CG102" ./...

`
	// exitSuccess is the exit code when no issues were found
	exitSuccess = 0
	// exitFailure is the exit code when issues were found or the scan failed
	exitFailure = 1
)

type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, " ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

var (
	// #nosec flag
	flagIgnoreNoSec = flag.Bool("nosec", false, "Ignores #nosec comments when set")

	// show ignored
	flagShowIgnored = flag.Bool("show-ignored", false, "If enabled, ignored issues are printed")

	// track suppressions
	flagTrackSuppressions = flag.Bool("track-suppressions", false, "Track suppressions and keep them in the json and sarif reports")

	// alternative to #nosec
	flagAlternativeNoSec = flag.String("nosec-tag", "", "Set an alternative string for #nosec. Some examples: #dontanalyze, #falsepositive")

	// format output
	flagFormat = flag.String("fmt", "text", "Set output format. Valid options are: "+strings.Join(report.Formats, ", "))

	// colorize the text output
	flagColor = flag.Bool("color", true, "Prints the text format report with colorization when it goes in the stdout")

	// output file
	flagOutput = flag.String("out", "", "Set output file for results")

	// config file
	flagConfig = flag.String("conf", "", "Path to optional config file")

	// quiet
	flagQuiet = flag.Bool("quiet", false, "Only show output when errors are found")

	// rules to explicitly include
	flagRulesInclude = flag.String("include", "", "Comma separated list of rules IDs to include. (see rule list)")

	// rules to explicitly exclude
	flagRulesExclude = vflag.ValidatedFlag{}

	// path based rule exclusions
	flagExcludeRules = flag.String("exclude-rules", "", "Path based rule exclusions, e.g. \"cmd/.*:CG102;internal/.*:*\"")

	// directories to exclude
	flagDirsExclude arrayFlags

	// log to file or stderr
	flagLogfile = flag.String("log", "", "Log messages to file rather than stderr")

	// sort the issues by severity
	flagSortIssues = flag.Bool("sort", true, "Sort issues by severity")

	// go build tags
	flagBuildTags = flag.String("tags", "", "Comma separated list of build tags")

	// fail by severity
	flagSeverity = flag.String("severity", "low", "Filter out the issues with a lower severity than the given value. Valid options are: low, medium, high")

	// fail by confidence
	flagConfidence = flag.String("confidence", "low", "Filter out the issues with a lower confidence than the given value. Valid options are: low, medium, high")

	// do not fail
	flagNoFail = flag.Bool("no-fail", false, "Do not fail the scanning, even if issues were found")

	// scan tests files
	flagScanTests = flag.Bool("tests", false, "Scan tests files")

	// exclude generated files
	flagExcludeGenerated = flag.Bool("exclude-generated", false, "Exclude generated files")

	// number of packages analyzed concurrently
	flagConcurrency = flag.Int("concurrency", 1, "Concurrency value")

	// print version and quit with exit code 0
	flagVersion = flag.Bool("version", false, "Print version and quit with exit code 0")

	logger *log.Logger
)

//nolint:gochecknoinits // flag registration for the custom flag types
func init() {
	flag.Var(&flagRulesExclude, "exclude", "Comma separated list of rules IDs to exclude. (see rule list)")
	flag.Var(&flagDirsExclude, "exclude-dir", "Exclude folder from scan (can be specified multiple times)")
}

func usage() {
	fmt.Fprintf(os.Stderr, usageText, Version, GitTag, BuildDate)
	fmt.Fprint(os.Stderr, "OPTIONS:\n\n")
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, "\n\nRULES:\n\n")

	// sorted rule list for ease of reading
	rl := rules.Generate(*flagTrackSuppressions)
	keys := make([]string, 0, len(rl.Rules))
	for key := range rl.Rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(os.Stderr, "\t%s: %s\n", k, rl.Rules[k].Description)
	}
	fmt.Fprint(os.Stderr, "\n")
}

func loadConfig(configFile string) (cmdguard.Config, error) {
	config := cmdguard.NewConfig()
	if configFile != "" {
		file, err := os.Open(configFile) // #nosec
		if err != nil {
			return nil, err
		}
		defer file.Close() // #nosec
		if _, err := config.ReadFrom(file); err != nil {
			return nil, err
		}
	}
	if *flagIgnoreNoSec {
		config.SetGlobal(cmdguard.Nosec, "true")
	}
	if *flagShowIgnored {
		config.SetGlobal(cmdguard.ShowIgnored, "true")
	}
	if *flagAlternativeNoSec != "" {
		config.SetGlobal(cmdguard.NoSecAlternative, *flagAlternativeNoSec)
	}
	return config, nil
}

func loadRules(include, exclude string) rules.RuleList {
	var filters []rules.RuleFilter
	if include != "" {
		logger.Printf("Including rules: %s", include)
		including := strings.Split(include, ",")
		filters = append(filters, rules.NewRuleFilter(false, including...))
	} else {
		logger.Println("Including rules: default")
	}

	if exclude != "" {
		logger.Printf("Excluding rules: %s", exclude)
		excluding := strings.Split(exclude, ",")
		filters = append(filters, rules.NewRuleFilter(true, excluding...))
	} else {
		logger.Println("Excluding rules: default")
	}
	return rules.Generate(*flagTrackSuppressions, filters...)
}

// buildPathExclusionFilter merges the exclude-rules of the config file with
// the ones given on the command line.
func buildPathExclusionFilter(config cmdguard.Config, cliRules string) (*cmdguard.PathExclusionFilter, error) {
	configRules, err := config.GetExcludeRules()
	if err != nil {
		return nil, fmt.Errorf("invalid exclude-rules in config: %w", err)
	}
	parsed, err := cmdguard.ParseCLIExcludeRules(cliRules)
	if err != nil {
		return nil, fmt.Errorf("invalid --exclude-rules flag: %w", err)
	}
	return cmdguard.NewPathExclusionFilter(append(configRules, parsed...))
}

func getRootPaths(paths []string) ([]string, error) {
	rootPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		rootPath, err := cmdguard.RootPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get the root path of the projects: %w", err)
		}
		rootPaths = append(rootPaths, rootPath)
	}
	return rootPaths, nil
}

func getPackagePaths(paths []string, excludedDirs []string) ([]string, error) {
	excludes := cmdguard.ExcludedDirsRegExp(excludedDirs)
	var packages []string
	for _, path := range paths {
		pcks, err := cmdguard.PackagePaths(path, excludes)
		if err != nil {
			return nil, err
		}
		sort.Strings(pcks)
		packages = append(packages, pcks...)
	}
	return packages, nil
}

func convertToScore(value string) (issue.Score, error) {
	switch strings.ToLower(value) {
	case "low":
		return issue.Low, nil
	case "medium":
		return issue.Medium, nil
	case "high":
		return issue.High, nil
	default:
		return issue.Low, fmt.Errorf("provided value '%s' not valid. Valid options: low, medium, high", value)
	}
}

// filterIssues keeps the issues at or above the given severity and
// confidence. It also returns the number of issues which count as findings.
func filterIssues(issues []*issue.Issue, severity issue.Score, confidence issue.Score) ([]*issue.Issue, int) {
	result := []*issue.Issue{}
	trueIssues := 0
	for _, i := range issues {
		if i.Severity < severity || i.Confidence < confidence {
			continue
		}
		if len(i.Suppressions) == 0 && (!i.NoSec || !*flagShowIgnored) {
			trueIssues++
		}
		result = append(result, i)
	}
	return result, trueIssues
}

func computeExitCode(issues []*issue.Issue, errors map[string][]cmdguard.Error, noFail bool) int {
	if noFail {
		return exitSuccess
	}
	for _, i := range issues {
		if len(i.Suppressions) == 0 && !i.NoSec {
			return exitFailure
		}
	}
	if len(errors) > 0 {
		return exitFailure
	}
	return exitSuccess
}

func printReport(format string, color bool, rootPaths []string, reportInfo *cmdguard.ReportInfo) error {
	return report.CreateReport(os.Stdout, format, color, rootPaths, reportInfo)
}

func saveReport(filename, format string, rootPaths []string, reportInfo *cmdguard.ReportInfo) error {
	outfile, err := os.Create(filename) // #nosec
	if err != nil {
		return err
	}
	defer outfile.Close() // #nosec
	return report.CreateReport(outfile, format, false, rootPaths, reportInfo)
}

func newLogger(quiet bool, logfile string) (*log.Logger, io.Closer, error) {
	if quiet {
		return log.New(io.Discard, "", 0), nil, nil
	}
	if logfile == "" {
		return log.New(os.Stderr, "[cmdguard] ", log.LstdFlags), nil, nil
	}
	f, err := os.Create(logfile) // #nosec
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "[cmdguard] ", log.LstdFlags), f, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	prepareVersionInfo()

	flag.Usage = usage
	flag.Parse()

	if *flagVersion {
		fmt.Printf("Version: %s\nGit tag: %s\nBuild date: %s\n", Version, GitTag, BuildDate)
		return exitSuccess
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "\nError: FILE [FILE...] or './...' expected\n")
		flag.Usage()
		return exitFailure
	}

	if !report.IsValidFormat(*flagFormat) {
		fmt.Fprintf(os.Stderr, "\nError: invalid format %q\n", *flagFormat)
		flag.Usage()
		return exitFailure
	}

	var closer io.Closer
	var err error
	logger, closer, err = newLogger(*flagQuiet, *flagLogfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	if closer != nil {
		defer closer.Close() // #nosec
	}

	failSeverity, err := convertToScore(*flagSeverity)
	if err != nil {
		logger.Printf("Invalid severity value: %v", err)
		return exitFailure
	}
	failConfidence, err := convertToScore(*flagConfidence)
	if err != nil {
		logger.Printf("Invalid confidence value: %v", err)
		return exitFailure
	}

	config, err := loadConfig(*flagConfig)
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	ruleList := loadRules(*flagRulesInclude, flagRulesExclude.String())
	if len(ruleList.Rules) == 0 {
		logger.Print("No rules are configured")
		return exitFailure
	}

	pathFilter, err := buildPathExclusionFilter(config, *flagExcludeRules)
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	analyzer := cmdguard.NewAnalyzer(config, *flagScanTests, *flagExcludeGenerated, *flagTrackSuppressions, *flagConcurrency, logger)
	analyzer.LoadRules(ruleList.RulesInfo())
	analyzer.SetPathFilter(pathFilter)

	packages, err := getPackagePaths(flag.Args(), flagDirsExclude)
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	var buildTags []string
	if *flagBuildTags != "" {
		buildTags = strings.Split(*flagBuildTags, ",")
	}
	if err := analyzer.Process(buildTags, packages...); err != nil {
		logger.Print(err)
		return exitFailure
	}

	issues, metrics, errors := analyzer.Report()
	issues, metrics.NumFound = filterIssues(issues, failSeverity, failConfidence)

	if len(issues) == 0 && len(errors) == 0 && *flagQuiet {
		return exitSuccess
	}

	if *flagSortIssues {
		sortIssues(issues)
	}

	rootPaths, err := getRootPaths(flag.Args())
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	reportInfo := cmdguard.NewReportInfo(issues, metrics, errors).WithVersion(Version)
	if *flagOutput == "" {
		err = printReport(*flagFormat, *flagColor, rootPaths, reportInfo)
	} else {
		err = saveReport(*flagOutput, *flagFormat, rootPaths, reportInfo)
	}
	if err != nil {
		logger.Print(err)
		return exitFailure
	}

	return computeExitCode(issues, errors, *flagNoFail)
}
