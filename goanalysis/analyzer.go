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

// Package goanalysis provides a standard golang.org/x/tools/go/analysis.Analyzer for cmdguard.
package goanalysis

import (
	"fmt"
	"go/token"
	"io"
	"log"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/issue"
	"github.com/cmdguard/cmdguard/rules"
)

// Doc describes the analyzer
const Doc = `cmdguard reports command injections: unsanitized function inputs passed as process arguments.`

// Analyzer is the standard go/analysis Analyzer for cmdguard.
var Analyzer = &analysis.Analyzer{
	Name: "cmdguard",
	Doc:  Doc,
	Run:  run,
}

var (
	flagIncludeRules     string
	flagExcludeRules     string
	flagExcludeGenerated bool
	flagMinSeverity      string
	flagMinConfidence    string
)

//nolint:gochecknoinits // Required for go/analysis Analyzer flag registration
func init() {
	Analyzer.Flags.StringVar(&flagIncludeRules, "include", "", "Comma-separated list of rule IDs to include (e.g., CG101)")
	Analyzer.Flags.StringVar(&flagExcludeRules, "exclude", "", "Comma-separated list of rule IDs to exclude (e.g., CG102)")
	Analyzer.Flags.BoolVar(&flagExcludeGenerated, "exclude-generated", true, "Exclude generated code from analysis")
	Analyzer.Flags.StringVar(&flagMinSeverity, "severity", "low", "Minimum severity: low, medium, or high")
	Analyzer.Flags.StringVar(&flagMinConfidence, "confidence", "low", "Minimum confidence: low, medium, or high")
}

func run(pass *analysis.Pass) (any, error) {
	minSev, err := parseScore(flagMinSeverity)
	if err != nil {
		return nil, fmt.Errorf("invalid severity %q: %w", flagMinSeverity, err)
	}
	minConf, err := parseScore(flagMinConfidence)
	if err != nil {
		return nil, fmt.Errorf("invalid confidence %q: %w", flagMinConfidence, err)
	}

	logger := log.New(io.Discard, "", 0)
	analyzer := cmdguard.NewAnalyzer(cmdguard.NewConfig(), false, flagExcludeGenerated, false, 1, logger)

	ruleList := rules.Generate(false, buildFilters(flagIncludeRules, flagExcludeRules)...)
	analyzer.LoadRules(ruleList.RulesInfo())
	analyzer.CheckRules(convertPassToPackage(pass))

	issues, _, _ := analyzer.Report()
	for _, iss := range issues {
		if iss.Severity < minSev || iss.Confidence < minConf {
			continue
		}

		pos := parsePosition(pass.Fset, iss)
		msg := FormatMessage(iss)
		if pos == token.NoPos {
			msg = fmt.Sprintf("%s [unable to locate %s:%s]", msg, iss.File, iss.Line)
		}

		pass.Report(analysis.Diagnostic{
			Pos:      pos,
			Category: iss.RuleID,
			Message:  msg,
		})
	}

	return nil, nil
}

// FormatMessage renders an issue as a diagnostic message
//
//	CG101: [CWE-78] Potential command injection ... (Severity: HIGH, Confidence: MEDIUM)
func FormatMessage(iss *issue.Issue) string {
	what := iss.What
	if iss.Cwe != nil && iss.Cwe.ID != "" {
		what = fmt.Sprintf("[%s] %s", iss.Cwe.SprintID(), iss.What)
	}
	return fmt.Sprintf("%s: %s (Severity: %s, Confidence: %s)", iss.RuleID, what, iss.Severity, iss.Confidence)
}

// convertPassToPackage converts an analysis.Pass to the packages.Package
// the cmdguard analyzer checks.
func convertPassToPackage(pass *analysis.Pass) *packages.Package {
	pkg := &packages.Package{
		Name:       pass.Pkg.Name(),
		PkgPath:    pass.Pkg.Path(),
		Fset:       pass.Fset,
		Syntax:     pass.Files,
		Types:      pass.Pkg,
		TypesInfo:  pass.TypesInfo,
		TypesSizes: pass.TypesSizes,
	}

	pkg.CompiledGoFiles = make([]string, len(pass.Files))
	for i, f := range pass.Files {
		pkg.CompiledGoFiles[i] = pass.Fset.File(f.Pos()).Name()
	}
	return pkg
}

// buildFilters creates include/exclude rule filters from comma-separated rule IDs
func buildFilters(include, exclude string) []rules.RuleFilter {
	var filters []rules.RuleFilter
	if ids := parseRuleIDs(include); len(ids) > 0 {
		filters = append(filters, rules.NewRuleFilter(false, ids...))
	}
	if ids := parseRuleIDs(exclude); len(ids) > 0 {
		filters = append(filters, rules.NewRuleFilter(true, ids...))
	}
	return filters
}

// parseRuleIDs parses a comma-separated list of rule IDs
func parseRuleIDs(s string) []string {
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseScore converts a severity/confidence string to issue.Score
func parseScore(s string) (issue.Score, error) {
	switch strings.ToLower(s) {
	case "high":
		return issue.High, nil
	case "medium":
		return issue.Medium, nil
	case "low":
		return issue.Low, nil
	default:
		return issue.Low, fmt.Errorf("must be low, medium, or high")
	}
}

// parsePosition converts an issue location to a token.Pos
func parsePosition(fset *token.FileSet, iss *issue.Issue) token.Pos {
	var file *token.File
	fset.Iterate(func(f *token.File) bool {
		if f.Name() == iss.File {
			file = f
			return false
		}
		return true
	})
	if file == nil {
		return token.NoPos
	}

	// line ranges such as "28-34" map to their start line
	lineStr, _, _ := strings.Cut(iss.Line, "-")
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 || line > file.LineCount() {
		return token.NoPos
	}
	lineStart := file.LineStart(line)

	col, err := strconv.Atoi(iss.Col)
	if err != nil || col < 1 {
		return lineStart
	}
	pos := lineStart + token.Pos(col-1)
	if int(pos) > file.Base()+file.Size() {
		return lineStart
	}
	return pos
}
