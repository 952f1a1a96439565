package testutils

import "github.com/cmdguard/cmdguard"

// CodeSample encapsulates a snippet of source code that compiles, and how many errors should be detected
type CodeSample struct {
	Code   []string
	Errors int
	Config cmdguard.Config
}
