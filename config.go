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

package cmdguard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	// Globals are applicable to all rules and used for general
	// configuration settings for cmdguard.
	Globals = "global"
	// ExcludeRulesKey is the top level configuration key holding
	// path based rule exclusions.
	ExcludeRulesKey = "exclude-rules"
)

// GlobalOption defines the name of the global options
type GlobalOption string

const (
	// Nosec global option for #nosec directive
	Nosec GlobalOption = "nosec"
	// ShowIgnored defines whether nosec issues are counted as finding or not
	ShowIgnored GlobalOption = "show-ignored"
	// NoSecAlternative global option alternative for #nosec directive
	NoSecAlternative GlobalOption = "#nosec"
)

// Config is used to provide configuration and customization to each of the rules.
type Config map[string]interface{}

// NewConfig initializes a new configuration instance. The configuration data then
// needs to be loaded via c.ReadFrom(strings.NewReader("config data"))
// or from a *os.File.
func NewConfig() Config {
	cfg := make(Config)
	cfg[Globals] = make(map[GlobalOption]string)
	return cfg
}

func (c Config) keyToGlobalOptions(key string) GlobalOption {
	return GlobalOption(key)
}

func (c Config) convertGlobals() {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[string]interface{}); ok {
			validGlobals := map[GlobalOption]string{}
			for k, v := range settings {
				validGlobals[c.keyToGlobalOptions(k)] = fmt.Sprintf("%v", v)
			}
			c[Globals] = validGlobals
		}
	}
	if _, ok := c[Globals]; !ok {
		c[Globals] = make(map[GlobalOption]string)
	}
}

// ReadFrom implements the io.ReaderFrom interface. This
// should be used with io.Reader to load configuration from
// file or from string etc. JSON is tried first, YAML second.
func (c Config) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return 0, errors.New("empty configuration")
	}
	if err = json.Unmarshal(data, &c); err != nil {
		// Nested YAML mappings must decode as map[string]interface{}.
		var settings map[string]interface{}
		if yerr := yaml.Unmarshal(data, &settings); yerr != nil {
			return int64(len(data)), fmt.Errorf("parsing configuration: %w", err)
		}
		for k, v := range settings {
			c[k] = v
		}
	}
	c.convertGlobals()
	return int64(len(data)), nil
}

// WriteTo implements the io.WriteTo interface. This should
// be used to save or print out the configuration information.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return int64(len(data)), err
	}
	return io.Copy(w, bytes.NewReader(data))
}

// Get returns the configuration section for the supplied key
func (c Config) Get(section string) (interface{}, error) {
	settings, found := c[section]
	if !found {
		return nil, fmt.Errorf("Section %s not in configuration", section)
	}
	return settings, nil
}

// Set section in the configuration
func (c Config) Set(section string, value interface{}) {
	c[section] = value
}

// GetGlobal returns value associated with global configuration option
func (c Config) GetGlobal(option GlobalOption) (string, error) {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[GlobalOption]string); ok {
			if value, ok := settings[option]; ok {
				return value, nil
			}
			return "", fmt.Errorf("global setting for %s not found", option)
		}
	}
	return "", errors.New("no global config options found")
}

// SetGlobal associates a value with a global configuration option
func (c Config) SetGlobal(option GlobalOption, value string) {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[GlobalOption]string); ok {
			settings[option] = value
		}
	}
}

// IsGlobalEnabled checks if a global option is enabled
func (c Config) IsGlobalEnabled(option GlobalOption) (bool, error) {
	value, err := c.GetGlobal(option)
	if err != nil {
		return false, err
	}
	return (value == "true" || value == "enabled"), nil
}

// GetExcludeRules decodes the path based exclusions of the configuration.
func (c Config) GetExcludeRules() ([]PathExcludeRule, error) {
	section, found := c[ExcludeRulesKey]
	if !found {
		return nil, nil
	}
	raw, err := json.Marshal(section)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ExcludeRulesKey, err)
	}
	var rules []PathExcludeRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ExcludeRulesKey, err)
	}
	return rules, nil
}

// RuleSettings returns the settings section of a rule as a string map. Values
// that are not strings are ignored.
func (c Config) RuleSettings(ruleID string) map[string]string {
	settings := map[string]string{}
	section, found := c[ruleID]
	if !found {
		return settings
	}
	switch values := section.(type) {
	case map[string]string:
		for k, v := range values {
			settings[k] = v
		}
	case map[string]interface{}:
		for k, v := range values {
			if s, ok := v.(string); ok {
				settings[k] = s
			}
		}
	}
	return settings
}

// RuleList returns a list valued setting of a rule, accepting both
// []string and decoded []interface{} values.
func (c Config) RuleList(ruleID, key string) ([]string, bool) {
	section, found := c[ruleID]
	if !found {
		return nil, false
	}
	var value interface{}
	switch values := section.(type) {
	case map[string]interface{}:
		value, found = values[key]
	case map[string][]string:
		value, found = values[key]
	default:
		return nil, false
	}
	if !found {
		return nil, false
	}
	switch list := value.(type) {
	case []string:
		return list, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}
