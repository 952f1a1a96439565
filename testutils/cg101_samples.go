package testutils

import "github.com/cmdguard/cmdguard"

var (
	// SampleCodeCG101 - Command injection through process arguments
	SampleCodeCG101 = []CodeSample{
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func run(p string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	a := []string{p}
	process.Exec(process.Command{Value: "/bin/ls", Arguments: a}, nil)
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	var a = []string{"-la", p}
	process.Exec(process.Command{Value: "/bin/ls", Arguments: a}, nil)
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p []string) {
	var args []string
	args = p
	process.Exec(process.Command{Value: "/bin/ls", Arguments: args}, nil)
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(args []string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: args}, nil)
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{"-la"}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import (
	"strings"

	"sample/process"
)

func Run(p string) {
	p = strings.TrimSpace(p)
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import (
	"slices"

	"sample/process"
)

var allowed = []string{"-l", "-a"}

func Run(p string) {
	if !slices.Contains(allowed, p) {
		return
	}
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import (
	"slices"
	"strings"

	"sample/process"
)

var allowed = []string{"-l", "-a"}

func Run(p string) {
	if !slices.ContainsFunc(allowed, func(s string) bool { return strings.EqualFold(s, p) }) {
		return
	}
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import (
	"strings"

	"sample/process"
)

func Run(p string) {
	p = strings.TrimSpace(p)
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 1, cmdguard.Config{"CG101": map[string]interface{}{"sanitization": "disabled"}}},
		{[]string{`
package sample

import "sample/shell"

func Run(p string) {
	shell.Exec(shell.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import sh "sample/shell"

func Run(p string) {
	sh.Exec(sh.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 1, cmdguard.Config{"CG101": map[string]interface{}{"alias": "sh"}}},
		{[]string{`
package sample

import "sample/process"

type Runner struct {
	args []string
}

func (r *Runner) Start(p string) {
	process.Exec((process.Command{Value: "/bin/ls", Arguments: []string{"-la", p}}), nil)
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

type Runner struct {
	args []string
}

func (r *Runner) Start(p string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: r.args}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	process.Exec(process.Command{Value: "/bin/sh", Arguments: append([]string{"-c"}, p)}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	go func() {
		process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
	}()
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	if p != "" {
		a := []string{p}
		process.Exec(process.Command{Value: "/bin/ls", Arguments: a}, nil)
	}
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p, q string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p, q}}, nil)
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{"-la"}}, nil)
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{q}}, nil)
}
`}, 2, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil) // #nosec CG101 -- validated by the caller
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil) // #nosec CG102
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`, `
package sample

import "sample/process"

func list(p string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import Process "sample/process"

func Run(p string) {
	Process.Exec(Process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

type command struct {
	Value     string
	Arguments []string
}

type runtime struct {
	exec func(command, map[string]string) error
}

var process = runtime{exec: func(command, map[string]string) error { return nil }}

func Run(p string) {
	process.exec(command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func Run(p string) {
	process.ExecX(process.Command{Value: "/bin/ls", Arguments: []string{p}}, nil)
}
`}, 0, cmdguard.NewConfig()},
	}
)
