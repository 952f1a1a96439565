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

package process

import (
	"os"
	"strings"
)

// GetEnv returns the value of the environment variable name, or an empty
// string when it is not set.
func GetEnv(name string) string {
	return os.Getenv(name)
}

// SetEnv sets the environment variable name of the current process.
func SetEnv(name, value string) error {
	return os.Setenv(name, value)
}

// UnsetEnv removes the environment variable name of the current process.
func UnsetEnv(name string) error {
	return os.Unsetenv(name)
}

// ListEnv returns the environment of the current process.
func ListEnv() map[string]string {
	environ := os.Environ()
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		// Windows keeps per drive directories in variables starting with '='
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}
