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

// Package vflag holds command line flag types with validated values.
package vflag

import (
	"errors"
	"strings"
)

// ValidatedFlag is a string flag which cannot hold another flag
type ValidatedFlag struct {
	Value string
}

func (f *ValidatedFlag) String() string {
	return f.Value
}

// Set rejects values starting with '-', which are flags swallowed by a
// missing value.
func (f *ValidatedFlag) Set(value string) error {
	if strings.HasPrefix(strings.TrimSpace(value), "-") {
		return errors.New("value cannot start with '-'")
	}
	f.Value = value
	return nil
}
