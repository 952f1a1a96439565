package a

import "process"

func Run(input string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{input}}, nil) // want `CG101: \[CWE-78\] Potential command injection in function 'Run': unsanitized input is passed to process\.Exec \(Severity: HIGH, Confidence: MEDIUM\)`
}

func RunArgs(args []string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: args}, nil) // want `CG101`
}

func run(input string) {
	process.Exec(process.Command{Value: "/bin/ls", Arguments: []string{input}}, nil)
}

func List() {
	process.Exec(process.Command{Value: "ls", Arguments: []string{"-l"}}, nil) // want `CG102: \[CWE-426\] Subprocess launching with partial path\. \(Severity: LOW, Confidence: HIGH\)`
}
