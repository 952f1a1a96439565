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

// Package process spawns external processes. It is the runtime whose calls
// the CG101 rule watches: every value in Command.Arguments reaches the
// spawned program unchanged.
package process

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"sync"
)

// Stream selects one of the output streams of a process.
type Stream int

const (
	// Stdout is the standard output of the process
	Stdout Stream = iota + 1
	// Stderr is the standard error of the process
	Stderr
)

// Command describes the program to run.
type Command struct {
	// Value is the path or name of the executable
	Value string
	// Arguments are passed to the executable as its argument vector
	Arguments []string
}

// Process is a started child process.
type Process struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer

	once     sync.Once
	exitCode int
	waitErr  error
}

// Exec starts cmd. Entries of env override the variables inherited from
// the current process.
func Exec(cmd Command, env map[string]string) (*Process, error) {
	p := &Process{cmd: exec.Command(cmd.Value, cmd.Arguments...)}
	p.cmd.Stdout = &p.stdout
	p.cmd.Stderr = &p.stderr
	if len(env) > 0 {
		environ := os.Environ()
		for k, v := range env {
			environ = append(environ, k+"="+v)
		}
		p.cmd.Env = environ
	}
	if err := p.cmd.Start(); err != nil {
		return nil, &ExecError{Op: "start process", Err: err}
	}
	return p, nil
}

// WaitForExit waits for the process to exit and returns its exit code. A
// non zero exit code is not an error. A process killed by a signal exits
// with -1.
func (p *Process) WaitForExit() (int, error) {
	p.once.Do(func() {
		err := p.cmd.Wait()
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			p.exitCode = p.cmd.ProcessState.ExitCode()
		case errors.As(err, &exitErr):
			p.exitCode = exitErr.ExitCode()
		default:
			p.exitCode = -1
			p.waitErr = &ExecError{Op: "wait for process to exit", Err: err}
		}
	})
	return p.exitCode, p.waitErr
}

// Output waits for the process to exit and returns everything it wrote to
// stream. Any value other than Stderr selects Stdout.
func (p *Process) Output(stream Stream) ([]byte, error) {
	if _, err := p.WaitForExit(); err != nil {
		return nil, err
	}
	if stream == Stderr {
		return p.stderr.Bytes(), nil
	}
	return p.stdout.Bytes(), nil
}

// Exit kills the process.
func (p *Process) Exit() error {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return &ExecError{Op: "kill process", Err: err}
	}
	return nil
}

// Pid returns the operating system identifier of the process.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}
