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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cmdguard/cmdguard"
	"github.com/cmdguard/cmdguard/cwe"
	"github.com/cmdguard/cmdguard/issue"
)

// GenerateReport converts a cmdguard report into a SARIF report
func GenerateReport(rootPaths []string, data *cmdguard.ReportInfo) (*Report, error) {
	rulesByID := make(map[string]*ReportingDescriptor)
	taxaByID := make(map[string]*ReportingDescriptor)

	for _, i := range data.Issues {
		if _, ok := rulesByID[i.RuleID]; !ok {
			rulesByID[i.RuleID] = parseSarifRule(i)
		}
		if i.Cwe == nil {
			continue
		}
		if _, ok := taxaByID[i.Cwe.ID]; !ok {
			if weakness := cwe.Get(i.Cwe.ID); weakness != nil {
				taxaByID[i.Cwe.ID] = parseSarifTaxon(weakness)
			}
		}
	}

	rules := sortedDescriptors(rulesByID)
	ruleIndex := make(map[string]int, len(rules))
	for idx, r := range rules {
		ruleIndex[r.ID] = idx
	}

	results := []*Result{}
	for _, i := range data.Issues {
		location, err := parseSarifLocation(i, rootPaths)
		if err != nil {
			return nil, err
		}
		results = append(results, NewResult(i.RuleID, ruleIndex[i.RuleID], getSarifLevel(i.Severity),
			i.What, location, buildSarifSuppressions(i.Suppressions)))
	}

	run := NewRun(buildSarifDriver(rules, data.Version), results, sortedDescriptors(taxaByID))
	return NewReport(run), nil
}

func sortedDescriptors(byID map[string]*ReportingDescriptor) []*ReportingDescriptor {
	descriptors := make([]*ReportingDescriptor, 0, len(byID))
	for _, d := range byID {
		descriptors = append(descriptors, d)
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].ID < descriptors[j].ID })
	return descriptors
}

// parseSarifRule return SARIF rule field struct
func parseSarifRule(i *issue.Issue) *ReportingDescriptor {
	name := i.RuleID
	if weakness := issue.GetCweByRule(i.RuleID); weakness != nil {
		name = weakness.Name
	}
	r := &ReportingDescriptor{
		ID:               i.RuleID,
		Name:             name,
		ShortDescription: newText(i.What),
		FullDescription:  newText(i.What),
		Help: newText(fmt.Sprintf("%s\nSeverity: %s\nConfidence: %s\n",
			i.What, i.Severity, i.Confidence)),
		Properties: &PropertyBag{
			"tags":      []string{"security", i.Severity.String()},
			"precision": strings.ToLower(i.Confidence.String()),
		},
		DefaultConfiguration: &ReportingConfiguration{
			Level: getSarifLevel(i.Severity),
		},
	}
	if i.Cwe != nil {
		r.Relationships = []*ReportingDescriptorRelationship{
			buildSarifReportingDescriptorRelationship(i.Cwe),
		}
	}
	return r
}

func buildSarifReportingDescriptorRelationship(weakness *cwe.Weakness) *ReportingDescriptorRelationship {
	return &ReportingDescriptorRelationship{
		Target: &ReportingDescriptorReference{
			ID:            weakness.ID,
			GUID:          uuid3(weakness.SprintID()),
			ToolComponent: newComponentReference(cwe.Acronym),
		},
		Kinds: []string{"superset"},
	}
}

func parseSarifTaxon(weakness *cwe.Weakness) *ReportingDescriptor {
	return &ReportingDescriptor{
		ID:               weakness.ID,
		GUID:             uuid3(weakness.SprintID()),
		HelpURI:          weakness.SprintURL(),
		FullDescription:  newText(weakness.Description),
		ShortDescription: newText(weakness.Name),
	}
}

func parseSemanticVersion(version string) string {
	if version == "" {
		return "devel"
	}
	return strings.TrimPrefix(version, "v")
}

func buildSarifDriver(rules []*ReportingDescriptor, version string) *ToolComponent {
	return &ToolComponent{
		Name:                "cmdguard",
		GUID:                uuid3("cmdguard"),
		Version:             version,
		SemanticVersion:     parseSemanticVersion(version),
		InformationURI:      "https://github.com/cmdguard/cmdguard/",
		SupportedTaxonomies: []*ToolComponentReference{newComponentReference(cwe.Acronym)},
		Rules:               rules,
	}
}

// parseSarifLocation return SARIF location struct
func parseSarifLocation(i *issue.Issue, rootPaths []string) (*Location, error) {
	region, err := parseSarifRegion(i)
	if err != nil {
		return nil, err
	}
	return NewLocation(parseSarifArtifactPath(i, rootPaths), region), nil
}

// parseSarifArtifactPath makes the file path relative to the longest
// matching root path.
func parseSarifArtifactPath(i *issue.Issue, rootPaths []string) string {
	filePath := i.File
	matched := ""
	for _, rootPath := range rootPaths {
		prefix := strings.TrimSuffix(rootPath, "/") + "/"
		if strings.HasPrefix(i.File, prefix) && len(prefix) > len(matched) {
			matched = prefix
			filePath = strings.TrimPrefix(i.File, prefix)
		}
	}
	return filePath
}

func parseSarifRegion(i *issue.Issue) (*Region, error) {
	lines := strings.Split(i.Line, "-")
	startLine, err := strconv.Atoi(lines[0])
	if err != nil {
		return nil, err
	}
	endLine := startLine
	if len(lines) > 1 {
		endLine, err = strconv.Atoi(lines[1])
		if err != nil {
			return nil, err
		}
	}
	col, err := strconv.Atoi(i.Col)
	if err != nil {
		return nil, err
	}
	var code strings.Builder
	line := startLine
	for _, codeLine := range strings.Split(i.Code, "\n") {
		lineStart := fmt.Sprintf("%d:", line)
		if !strings.HasPrefix(codeLine, lineStart) {
			continue
		}
		code.WriteString(strings.TrimSpace(strings.TrimPrefix(codeLine, lineStart)))
		if endLine > startLine {
			code.WriteString("\n")
		}
		line++
		if line > endLine {
			break
		}
	}
	return &Region{
		StartLine:      startLine,
		EndLine:        endLine,
		StartColumn:    col,
		EndColumn:      col,
		SourceLanguage: "go",
		Snippet:        &ArtifactContent{Text: code.String()},
	}, nil
}

func getSarifLevel(s issue.Score) Level {
	switch s {
	case issue.High, issue.Medium:
		return Error
	case issue.Low:
		return Warning
	default:
		return Note
	}
}

func buildSarifSuppressions(suppressions []issue.SuppressionInfo) []*Suppression {
	var sarifSuppressionList []*Suppression
	for _, s := range suppressions {
		sarifSuppressionList = append(sarifSuppressionList, &Suppression{Kind: s.Kind, Justification: s.Justification})
	}
	return sarifSuppressionList
}
