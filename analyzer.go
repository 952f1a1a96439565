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

// Package cmdguard holds the central scanning logic used by the cmdguard
// command-injection scanner.
package cmdguard

import (
	"fmt"
	"go/ast"
	"go/build"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"github.com/cmdguard/cmdguard/issue"
)

// LoadMode controls the amount of details to return when loading the packages
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedTypesSizes |
	packages.NeedTypesInfo |
	packages.NeedSyntax |
	packages.NeedModule

const externalSuppressionJustification = "Globally suppressed."

const aliasOfAllRules = "*"

var (
	ruleIDPattern       = regexp.MustCompile(`(CG\d{3})`)
	justificationMarker = regexp.MustCompile(`-{2,}`)
)

// Metrics used when reporting information about a scanning run.
type Metrics struct {
	NumFiles int `json:"files"`
	NumLines int `json:"lines"`
	NumNosec int `json:"nosec"`
	NumFound int `json:"found"`
}

// Analyzer object is the main object of cmdguard. It has methods to load and analyze
// packages, traverse ASTs, and invoke the correct checking rules on each node as required.
type Analyzer struct {
	ignoreNosec       bool
	showIgnored       bool
	trackSuppressions bool
	excludeGenerated  bool
	tests             bool
	concurrency       int
	ruleset           RuleSet
	config            Config
	logger            *log.Logger
	pathFilter        *PathExclusionFilter

	mu     sync.Mutex
	issues []*issue.Issue
	stats  *Metrics
	errors map[string][]Error
}

// NewAnalyzer builds a new analyzer.
func NewAnalyzer(conf Config, tests bool, excludeGenerated bool, trackSuppressions bool, concurrency int, logger *log.Logger) *Analyzer {
	ignoreNoSec := false
	if enabled, err := conf.IsGlobalEnabled(Nosec); err == nil {
		ignoreNoSec = enabled
	}
	showIgnored := false
	if enabled, err := conf.IsGlobalEnabled(ShowIgnored); err == nil {
		showIgnored = enabled
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[cmdguard]", log.LstdFlags)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Analyzer{
		ignoreNosec:       ignoreNoSec,
		showIgnored:       showIgnored,
		trackSuppressions: trackSuppressions,
		excludeGenerated:  excludeGenerated,
		tests:             tests,
		concurrency:       concurrency,
		ruleset:           NewRuleSet(),
		config:            conf,
		logger:            logger,
		issues:            make([]*issue.Issue, 0, 16),
		stats:             &Metrics{},
		errors:            make(map[string][]Error),
	}
}

// SetConfig updates the analyzer configuration
func (a *Analyzer) SetConfig(conf Config) {
	a.config = conf
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() Config {
	return a.config
}

// SetPathFilter installs the path based exclusions applied by Report.
func (a *Analyzer) SetPathFilter(filter *PathExclusionFilter) {
	a.pathFilter = filter
}

// LoadRules instantiates all the rules to be used when analyzing source
// packages
func (a *Analyzer) LoadRules(ruleDefinitions map[string]RuleBuilder, ruleSuppressed map[string]bool) {
	for id, def := range ruleDefinitions {
		r, nodes := def(id, a.config)
		a.ruleset.Register(r, ruleSuppressed[id], nodes...)
	}
}

// Process kicks off the analysis process for a given package
func (a *Analyzer) Process(buildTags []string, packagePaths ...string) error {
	g := errgroup.Group{}
	g.SetLimit(a.concurrency)
	for _, pkgPath := range packagePaths {
		g.Go(func() error {
			pkgs, err := a.load(pkgPath, buildTags)
			if err != nil {
				a.AppendError(pkgPath, err)
				return nil
			}
			for _, pkg := range pkgs {
				if err := a.ParseErrors(pkg); err != nil {
					return fmt.Errorf("parsing errors in pkg %q: %w", pkg.Name, err)
				}
				if pkg.Name != "" {
					a.CheckRules(pkg)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	sortErrors(a.errors)
	return nil
}

func (a *Analyzer) load(pkgPath string, buildTags []string) ([]*packages.Package, error) {
	abspath, err := GetPkgAbsPath(pkgPath)
	if err != nil {
		a.logger.Printf("Skipping: %s. Path doesn't exist.", pkgPath)
		return []*packages.Package{}, nil
	}

	a.logger.Println("Import directory:", abspath)
	ctx := build.Default
	ctx.BuildTags = append(ctx.BuildTags, buildTags...)
	basePackage, err := ctx.ImportDir(pkgPath, build.ImportComment)
	if err != nil {
		if _, noGo := err.(*build.NoGoError); noGo {
			return []*packages.Package{}, nil
		}
		return []*packages.Package{}, fmt.Errorf("importing dir %q: %w", pkgPath, err)
	}

	var packageFiles []string
	for _, filename := range basePackage.GoFiles {
		packageFiles = append(packageFiles, filepath.Join(abspath, filename))
	}
	for _, filename := range basePackage.CgoFiles {
		packageFiles = append(packageFiles, filepath.Join(abspath, filename))
	}
	if a.tests {
		testsFiles := make([]string, 0, len(basePackage.TestGoFiles)+len(basePackage.XTestGoFiles))
		testsFiles = append(testsFiles, basePackage.TestGoFiles...)
		testsFiles = append(testsFiles, basePackage.XTestGoFiles...)
		for _, filename := range testsFiles {
			packageFiles = append(packageFiles, filepath.Join(abspath, filename))
		}
	}

	conf := &packages.Config{
		Mode:       LoadMode,
		Dir:        abspath,
		BuildFlags: CLIBuildTags(buildTags),
		Tests:      a.tests,
	}
	pkgs, err := packages.Load(conf, packageFiles...)
	if err != nil {
		return []*packages.Package{}, fmt.Errorf("loading files from package %q: %w", pkgPath, err)
	}
	return pkgs, nil
}

// CheckRules runs analysis on the given package.
func (a *Analyzer) CheckRules(pkg *packages.Package) {
	a.logger.Println("Checking package:", pkg.Name)
	for _, file := range pkg.Syntax {
		fp := pkg.Fset.File(file.Pos())
		if fp == nil {
			// skip files which cannot be located
			continue
		}
		checkedFile := fp.Name()
		// Skip the no-Go file from analysis (e.g. a Cgo files is expanded in 3 different files
		// stored in the cache which do not need to by analyzed)
		if filepath.Ext(checkedFile) != ".go" {
			continue
		}
		if a.excludeGenerated && ast.IsGenerated(file) {
			a.logger.Println("Ignoring generated file:", checkedFile)
			continue
		}

		a.logger.Println("Checking file:", checkedFile)
		ctx := &Context{
			FileSet:  pkg.Fset,
			Comments: ast.NewCommentMap(pkg.Fset, file, file.Comments),
			Root:     file,
			Info:     pkg.TypesInfo,
			Pkg:      pkg.Types,
			PkgFiles: pkg.Syntax,
			Config:   a.config,
		}
		found, nosec := a.walk(ctx)

		a.mu.Lock()
		a.issues = append(a.issues, found...)
		a.stats.NumFiles++
		a.stats.NumLines += fp.LineCount()
		a.stats.NumNosec += nosec
		for _, i := range found {
			if !i.NoSec || !a.showIgnored {
				a.stats.NumFound++
			}
		}
		a.mu.Unlock()
	}
}

// walk visits every node of the context file and dispatches it to the rules
// registered for its type. It returns the issues to report and the number of
// nosec directives found.
func (a *Analyzer) walk(ctx *Context) ([]*issue.Issue, int) {
	var found []*issue.Issue
	nosec := 0
	in := inspector.New([]*ast.File{ctx.Root})
	in.WithStack(nil, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			ctx.Ignores = ctx.Ignores[:len(ctx.Ignores)-1]
			return true
		}
		ignores := a.ignore(n, ctx)
		if ignores != nil {
			nosec++
		}
		ctx.Ignores = append(ctx.Ignores, ignores)
		ctx.Stack = stack

		for _, rule := range a.ruleset.RegisteredFor(n) {
			i, err := rule.Match(n, ctx)
			if err != nil {
				file, line := GetLocation(n, ctx)
				file = filepath.Base(file)
				a.logger.Printf("Rule error: %v => %s (%s:%d)\n", reflect.TypeOf(rule), err, file, line)
			}
			if i = a.suppress(i, ctx); i != nil {
				found = append(found, i)
			}
		}
		return true
	})
	ctx.Stack = nil
	return found, nosec
}

// ignore returns the rules suppressed by a nosec directive attached to n.
func (a *Analyzer) ignore(n ast.Node, ctx *Context) map[string][]issue.SuppressionInfo {
	groups, ok := ctx.Comments[n]
	if !ok || a.ignoreNosec {
		return nil
	}

	// Checks if an alternative for #nosec is set and, if not, uses the default.
	tags := []string{"#nosec"}
	if alternative, err := a.config.GetGlobal(NoSecAlternative); err == nil && alternative != "" {
		tags = append([]string{alternative}, tags...)
	}

	for _, group := range groups {
		comment := strings.TrimSpace(group.Text())
		for _, tag := range tags {
			directive, found := findDirective(comment, tag)
			if !found {
				continue
			}
			justification := ""
			if parts := justificationMarker.Split(directive, 2); len(parts) > 1 {
				directive = parts[0]
				justification = strings.TrimSpace(strings.TrimRight(parts[1], "\n"))
			}
			suppression := issue.SuppressionInfo{
				Kind:          "inSource",
				Justification: justification,
			}
			ignores := make(map[string][]issue.SuppressionInfo)
			for _, m := range ruleIDPattern.FindAllStringSubmatch(directive, -1) {
				ignores[m[1]] = []issue.SuppressionInfo{suppression}
			}
			// If no specific rules were given, ignore everything.
			if len(ignores) == 0 {
				ignores[aliasOfAllRules] = []issue.SuppressionInfo{suppression}
			}
			return ignores
		}
	}
	return nil
}

// findDirective returns the text following tag when a line of the comment
// starts with it.
func findDirective(comment, tag string) (string, bool) {
	lines := strings.Split(comment, "\n")
	for n, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, tag) {
			rest := append([]string{strings.TrimPrefix(line, tag)}, lines[n+1:]...)
			return strings.Join(rest, "\n"), true
		}
	}
	return "", false
}

// suppress applies in-source and external suppressions to a found issue. It
// returns nil when the issue must not be reported.
func (a *Analyzer) suppress(i *issue.Issue, ctx *Context) *issue.Issue {
	if i == nil {
		return nil
	}
	suppressions, ignored := ctx.suppressions(i.RuleID)
	if a.ruleset.IsRuleSuppressed(i.RuleID) {
		ignored = true
		suppressions = append(suppressions, issue.SuppressionInfo{
			Kind:          "external",
			Justification: externalSuppressionJustification,
		})
	}
	if ignored && a.showIgnored {
		i.NoSec = true
	}
	if !ignored || a.showIgnored || a.trackSuppressions {
		if a.trackSuppressions && len(suppressions) > 0 {
			i.WithSuppressions(suppressions)
		}
		return i
	}
	return nil
}

// ParseErrors parses the errors from given package
func (a *Analyzer) ParseErrors(pkg *packages.Package) error {
	if len(pkg.Errors) == 0 {
		return nil
	}
	for _, pkgErr := range pkg.Errors {
		parts := strings.Split(pkgErr.Pos, ":")
		file := parts[0]
		var err error
		var line int
		if len(parts) > 1 {
			if line, err = strconv.Atoi(parts[1]); err != nil {
				return fmt.Errorf("parsing line: %w", err)
			}
		}
		var column int
		if len(parts) > 2 {
			if column, err = strconv.Atoi(parts[2]); err != nil {
				return fmt.Errorf("parsing column: %w", err)
			}
		}
		msg := strings.TrimSpace(pkgErr.Msg)
		a.appendError(file, *NewError(line, column, msg))
	}
	return nil
}

// AppendError appends an error to the file errors
func (a *Analyzer) AppendError(file string, err error) {
	// Do not report the error for empty packages (e.g. files excluded from build with a tag)
	if strings.Contains(err.Error(), "no buildable Go source files in") {
		return
	}
	a.appendError(file, *NewError(0, 0, err.Error()))
}

func (a *Analyzer) appendError(file string, e Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors[file] = append(a.errors[file], e)
}

// Report returns the current issues discovered and the metrics about the scan.
// Issues are ordered by file, line, column and rule id.
func (a *Analyzer) Report() ([]*issue.Issue, *Metrics, map[string][]Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	issues, excluded := a.pathFilter.FilterIssues(a.issues)
	if excluded > 0 {
		a.logger.Printf("Excluded %d issues by path rules", excluded)
	}
	issues = slices.Clone(issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issueLess(issues[i], issues[j])
	})
	stats := *a.stats
	stats.NumFound -= excluded
	return issues, &stats, a.errors
}

func issueLess(l, r *issue.Issue) bool {
	if l.File != r.File {
		return l.File < r.File
	}
	ll, lc := position(l)
	rl, rc := position(r)
	if ll != rl {
		return ll < rl
	}
	if lc != rc {
		return lc < rc
	}
	return l.RuleID < r.RuleID
}

func position(i *issue.Issue) (int, int) {
	line, _ := strconv.Atoi(strings.SplitN(i.Line, "-", 2)[0])
	col, _ := strconv.Atoi(i.Col)
	return line, col
}

// Reset clears state such as rules, issues and metrics from the configured analyzer
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issues = make([]*issue.Issue, 0, 16)
	a.stats = &Metrics{}
	a.errors = make(map[string][]Error)
	a.ruleset = NewRuleSet()
}
