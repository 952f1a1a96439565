package testutils

import "github.com/cmdguard/cmdguard"

var (
	// SampleCodeCG102 - Process launched with a partial path
	SampleCodeCG102 = []CodeSample{
		{[]string{`
package sample

import "sample/process"

func List() {
	process.Exec(process.Command{Value: "ls", Arguments: []string{"-la"}}, nil)
}
`}, 1, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func List() {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{"-la"}}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/process"

func List(bin string) {
	process.Exec(process.Command{Value: bin}, nil)
}
`}, 0, cmdguard.NewConfig()},
		{[]string{`
package sample

import "sample/shell"

func List() {
	shell.Exec(shell.Command{Value: "ls"}, nil)
}
`}, 0, cmdguard.NewConfig()},
	}
)
