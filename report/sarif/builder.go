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

package sarif

import (
	"github.com/google/uuid"

	"github.com/cmdguard/cmdguard/cwe"
)

// NewReport creates a SARIF 2.1.0 log holding runs
func NewReport(runs ...*Run) *Report {
	return &Report{Version: Version, Schema: Schema, Runs: runs}
}

// NewRun creates a run of driver. The CWE taxonomy is attached only when
// taxa is not empty.
func NewRun(driver *ToolComponent, results []*Result, taxa []*ReportingDescriptor) *Run {
	run := &Run{Tool: &Tool{Driver: driver}, Results: results}
	if len(taxa) > 0 {
		run.Taxonomies = []*ToolComponent{newCWETaxonomy(taxa)}
	}
	return run
}

func newCWETaxonomy(taxa []*ReportingDescriptor) *ToolComponent {
	taxonomy := &ToolComponent{
		Name:             cwe.Acronym,
		GUID:             uuid3(cwe.Acronym),
		Version:          cwe.Version,
		InformationURI:   cwe.InformationURI,
		DownloadURI:      cwe.DownloadURI,
		Organization:     cwe.Organization,
		ReleaseDateUtc:   cwe.ReleaseDateUtc,
		ShortDescription: newText(cwe.Description),
		Language:         "en",
		IsComprehensive:  true,
		Taxa:             taxa,
	}
	taxonomy.MinimumRequiredLocalizedDataSemanticVersion = cwe.Version
	return taxonomy
}

// NewResult creates a result of rule ruleID found at location
func NewResult(ruleID string, ruleIndex int, level Level, message string, location *Location, suppressions []*Suppression) *Result {
	return &Result{
		RuleID:       ruleID,
		RuleIndex:    ruleIndex,
		Level:        level,
		Message:      &Message{Text: message},
		Locations:    []*Location{location},
		Suppressions: suppressions,
	}
}

// NewLocation points at region of the artifact uri
func NewLocation(uri string, region *Region) *Location {
	return &Location{
		PhysicalLocation: &PhysicalLocation{
			ArtifactLocation: &ArtifactLocation{URI: uri},
			Region:           region,
		},
	}
}

func newText(text string) *MultiformatMessageString {
	return &MultiformatMessageString{Text: text}
}

func newComponentReference(name string) *ToolComponentReference {
	return &ToolComponentReference{Name: name, GUID: uuid3(name)}
}

// uuid3 derives a stable GUID from value
func uuid3(value string) string {
	return uuid.NewMD5(uuid.Nil, []byte(value)).String()
}
