package testutils

import (
	"fmt"
	"go/ast"
	"go/build"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/cmdguard/cmdguard"
)

// SampleModule is the module path of every test package. Samples import the
// stub runtimes as "sample/process" and "sample/shell".
const SampleModule = "sample"

// stubs are written next to every test package so that samples calling the
// process runtime type check without network access.
var stubs = map[string]string{
	"go.mod": "module " + SampleModule + "\n\ngo 1.25\n",
	"process/process.go": `package process

type Command struct {
	Value     string
	Arguments []string
}

type Process struct{}

func Exec(cmd Command, env map[string]string) (*Process, error) {
	return &Process{}, nil
}

func ExecX(cmd Command, env map[string]string) (*Process, error) {
	return &Process{}, nil
}
`,
	"shell/shell.go": `package shell

type Command struct {
	Value     string
	Arguments []string
}

func Exec(cmd Command, env map[string]string) error {
	return nil
}
`,
}

type buildObj struct {
	pkg    *build.Package
	config *packages.Config
	pkgs   []*packages.Package
}

// TestPackage is a mock package for testing purposes
type TestPackage struct {
	Path   string
	Files  map[string]string
	onDisk bool
	build  *buildObj
}

// NewTestPackage will create a new and empty package. Must call Close() to cleanup
// auxiliary files
func NewTestPackage() *TestPackage {
	workingDir, err := os.MkdirTemp("", "cmdguard_test")
	if err != nil {
		return nil
	}

	files := make(map[string]string)
	for name, content := range stubs {
		files[filepath.Join(workingDir, name)] = content
	}
	return &TestPackage{
		Path:   workingDir,
		Files:  files,
		onDisk: false,
		build:  nil,
	}
}

// AddFile inserts the filename and contents into the package contents
func (p *TestPackage) AddFile(filename, content string) {
	p.Files[filepath.Join(p.Path, filename)] = content
}

func (p *TestPackage) write() error {
	if p.onDisk {
		return nil
	}
	for filename, content := range p.Files {
		if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
			return err
		}
	}
	p.onDisk = true
	return nil
}

// Build ensures all files are persisted to disk and built
func (p *TestPackage) Build() error {
	if p.build != nil {
		return nil
	}
	if err := p.write(); err != nil {
		return err
	}
	basePackage, err := build.Default.ImportDir(p.Path, build.ImportComment)
	if err != nil {
		return err
	}

	var packageFiles []string
	for _, filename := range basePackage.GoFiles {
		packageFiles = append(packageFiles, filepath.Join(p.Path, filename))
	}

	conf := &packages.Config{
		Mode:  cmdguard.LoadMode,
		Dir:   p.Path,
		Tests: false,
	}
	pkgs, err := packages.Load(conf, packageFiles...)
	if err != nil {
		return err
	}
	p.build = &buildObj{
		pkg:    basePackage,
		config: conf,
		pkgs:   pkgs,
	}
	return nil
}

// CreateContext builds a context out of supplied package context
func (p *TestPackage) CreateContext(filename string) *cmdguard.Context {
	if err := p.Build(); err != nil {
		log.Fatal(err)
		return nil
	}

	for _, pkg := range p.build.pkgs {
		for _, file := range pkg.Syntax {
			pkgFile := pkg.Fset.File(file.Pos()).Name()
			strip := fmt.Sprintf("%s%c", p.Path, os.PathSeparator)
			pkgFile = strings.TrimPrefix(pkgFile, strip)
			if pkgFile == filename {
				return &cmdguard.Context{
					FileSet:  pkg.Fset,
					Comments: ast.NewCommentMap(pkg.Fset, file, file.Comments),
					Root:     file,
					Config:   cmdguard.NewConfig(),
					Info:     pkg.TypesInfo,
					Pkg:      pkg.Types,
					PkgFiles: pkg.Syntax,
				}
			}
		}
	}
	return nil
}

// Close will delete the package and all files in that directory
func (p *TestPackage) Close() {
	if p.onDisk {
		err := os.RemoveAll(p.Path)
		if err != nil {
			log.Fatal(err)
		}
	}
}

// Pkgs returns the current built packages
func (p *TestPackage) Pkgs() []*packages.Package {
	if p.build != nil {
		return p.build.pkgs
	}
	return []*packages.Package{}
}

// PrintErrors prints to os.Stderr the accumulated errors of built packages
func (p *TestPackage) PrintErrors() int {
	return packages.PrintErrors(p.Pkgs())
}
