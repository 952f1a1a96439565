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

// Report is the top level SARIF log file
type Report struct {
	Schema  string `json:"$schema,omitempty"`
	Version string `json:"version"`
	Runs    []*Run `json:"runs"`
}

// Run describes a single invocation of the analysis tool
type Run struct {
	Tool       *Tool            `json:"tool"`
	Taxonomies []*ToolComponent `json:"taxonomies,omitempty"`
	Results    []*Result        `json:"results"`
}

// Tool describes the analysis tool that produced the run
type Tool struct {
	Driver *ToolComponent `json:"driver"`
}

// ToolComponent is a component of the tool, such as its driver or a taxonomy
type ToolComponent struct {
	Name                                        string                    `json:"name"`
	GUID                                        string                    `json:"guid,omitempty"`
	Version                                     string                    `json:"version,omitempty"`
	SemanticVersion                             string                    `json:"semanticVersion,omitempty"`
	InformationURI                              string                    `json:"informationUri,omitempty"`
	DownloadURI                                 string                    `json:"downloadUri,omitempty"`
	Organization                                string                    `json:"organization,omitempty"`
	ReleaseDateUtc                              string                    `json:"releaseDateUtc,omitempty"`
	ShortDescription                            *MultiformatMessageString `json:"shortDescription,omitempty"`
	Language                                    string                    `json:"language,omitempty"`
	IsComprehensive                             bool                      `json:"isComprehensive,omitempty"`
	MinimumRequiredLocalizedDataSemanticVersion string                    `json:"minimumRequiredLocalizedDataSemanticVersion,omitempty"`
	SupportedTaxonomies                         []*ToolComponentReference `json:"supportedTaxonomies,omitempty"`
	Rules                                       []*ReportingDescriptor    `json:"rules,omitempty"`
	Taxa                                        []*ReportingDescriptor    `json:"taxa,omitempty"`
}

// ToolComponentReference identifies a tool component by name
type ToolComponentReference struct {
	Name string `json:"name"`
	GUID string `json:"guid,omitempty"`
}

// ReportingDescriptor describes a rule or a taxon
type ReportingDescriptor struct {
	ID                   string                             `json:"id"`
	GUID                 string                             `json:"guid,omitempty"`
	Name                 string                             `json:"name,omitempty"`
	ShortDescription     *MultiformatMessageString          `json:"shortDescription,omitempty"`
	FullDescription      *MultiformatMessageString          `json:"fullDescription,omitempty"`
	Help                 *MultiformatMessageString          `json:"help,omitempty"`
	HelpURI              string                             `json:"helpUri,omitempty"`
	Properties           *PropertyBag                       `json:"properties,omitempty"`
	DefaultConfiguration *ReportingConfiguration            `json:"defaultConfiguration,omitempty"`
	Relationships        []*ReportingDescriptorRelationship `json:"relationships,omitempty"`
}

// ReportingConfiguration holds the default settings of a rule
type ReportingConfiguration struct {
	Level Level `json:"level,omitempty"`
}

// ReportingDescriptorRelationship links a rule to a taxon
type ReportingDescriptorRelationship struct {
	Target *ReportingDescriptorReference `json:"target"`
	Kinds  []string                      `json:"kinds,omitempty"`
}

// ReportingDescriptorReference points at a descriptor of a tool component
type ReportingDescriptorReference struct {
	ID            string                  `json:"id,omitempty"`
	GUID          string                  `json:"guid,omitempty"`
	ToolComponent *ToolComponentReference `json:"toolComponent,omitempty"`
}

// PropertyBag holds free form properties
type PropertyBag map[string]interface{}

// MultiformatMessageString is a plain text message
type MultiformatMessageString struct {
	Text string `json:"text"`
}

// Message is the message of a result
type Message struct {
	Text string `json:"text"`
}

// Result is a single finding
type Result struct {
	RuleID       string         `json:"ruleId"`
	RuleIndex    int            `json:"ruleIndex"`
	Level        Level          `json:"level,omitempty"`
	Message      *Message       `json:"message"`
	Locations    []*Location    `json:"locations,omitempty"`
	Suppressions []*Suppression `json:"suppressions,omitempty"`
}

// Suppression records how a result was suppressed
type Suppression struct {
	Kind          string `json:"kind"`
	Justification string `json:"justification,omitempty"`
}

// Location is where a result was found
type Location struct {
	PhysicalLocation *PhysicalLocation `json:"physicalLocation,omitempty"`
}

// PhysicalLocation is a region of an artifact
type PhysicalLocation struct {
	ArtifactLocation *ArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *Region           `json:"region,omitempty"`
}

// ArtifactLocation is the location of a file
type ArtifactLocation struct {
	URI string `json:"uri,omitempty"`
}

// Region is a span of lines and columns in an artifact
type Region struct {
	StartLine      int              `json:"startLine,omitempty"`
	EndLine        int              `json:"endLine,omitempty"`
	StartColumn    int              `json:"startColumn,omitempty"`
	EndColumn      int              `json:"endColumn,omitempty"`
	SourceLanguage string           `json:"sourceLanguage,omitempty"`
	Snippet        *ArtifactContent `json:"snippet,omitempty"`
}

// ArtifactContent is the text of a region
type ArtifactContent struct {
	Text string `json:"text,omitempty"`
}
