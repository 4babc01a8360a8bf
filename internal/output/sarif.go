package output

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"

	"plum/internal/lint"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
)

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool               `json:"tool"`
	AutomationDetails *SARIFAutomationDetails `json:"automationDetails,omitempty"`
	Results           []SARIFResult           `json:"results"`
	Invocations       []SARIFInvocation       `json:"invocations,omitempty"`
}

// SARIFAutomationDetails identifies the run.
type SARIFAutomationDetails struct {
	GUID string `json:"guid,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
	Properties           map[string]any          `json:"properties,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID       string            `json:"ruleId"`
	RuleIndex    int               `json:"ruleIndex"`
	Level        string            `json:"level,omitempty"`
	Message      SARIFMessage      `json:"message"`
	Locations    []SARIFLocation   `json:"locations,omitempty"`
	Fingerprints map[string]string `json:"fingerprints,omitempty"`
	Properties   map[string]any    `json:"properties,omitempty"`
}

// SARIFMessage contains text.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI       string `json:"uri,omitempty"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion identifies a line. Lint diagnostics carry no columns.
type SARIFRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// SARIFInvocation describes a single invocation of the tool.
type SARIFInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	Machine             string `json:"machine,omitempty"`
}

// RuleInfo describes a rule of the run for the SARIF driver.
type RuleInfo struct {
	ID          string
	Description string
	Severity    lint.Severity
}

// NewSARIF converts a report. Rules lists the checks of the run; rule ids
// seen only in diagnostics are appended after them.
func NewSARIF(r *Report, rules []RuleInfo) *SARIFReport {
	ruleIndex := make(map[string]int)
	var sarifRules []SARIFRule
	addRule := func(info RuleInfo) {
		if _, ok := ruleIndex[info.ID]; ok {
			return
		}
		ruleIndex[info.ID] = len(sarifRules)
		rule := SARIFRule{
			ID: info.ID,
			DefaultConfiguration: &SARIFRuleConfiguration{
				Level: sarifLevel(info.Severity),
			},
			Properties: map[string]any{"severity": info.Severity.String()},
		}
		if info.Description != "" {
			rule.ShortDescription = &SARIFMessage{Text: info.Description}
		}
		sarifRules = append(sarifRules, rule)
	}
	for _, info := range rules {
		addRule(info)
	}

	results := make([]SARIFResult, 0)
	for _, f := range r.Files {
		for _, e := range f.Diagnostics {
			addRule(RuleInfo{ID: e.Rule, Severity: e.Severity})
			results = append(results, SARIFResult{
				RuleID:    e.Rule,
				RuleIndex: ruleIndex[e.Rule],
				Level:     sarifLevel(e.Severity),
				Message:   SARIFMessage{Text: e.Message},
				Locations: []SARIFLocation{{
					PhysicalLocation: &SARIFPhysicalLocation{
						ArtifactLocation: &SARIFArtifactLocation{URI: f.File, URIBaseID: "%SRCROOT%"},
						Region:           &SARIFRegion{StartLine: e.Line},
					},
				}},
				Fingerprints: map[string]string{"plum/v1": fingerprint(f.File, e)},
				Properties:   map[string]any{"severity": e.Severity.String()},
			})
		}
	}

	return &SARIFReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{Driver: SARIFDriver{
				Name:            "plum",
				Version:         r.Version,
				SemanticVersion: r.Version,
				Rules:           sarifRules,
			}},
			AutomationDetails: &SARIFAutomationDetails{GUID: r.RunID},
			Results:           results,
			Invocations: []SARIFInvocation{{
				ExecutionSuccessful: len(r.Errors) == 0,
				Machine:             runtime.GOOS + "/" + runtime.GOARCH,
			}},
		}},
	}
}

// WriteSARIF renders the report as an indented SARIF log.
func WriteSARIF(w io.Writer, r *Report, rules []RuleInfo) error {
	if err := WriteJSON(w, NewSARIF(r, rules)); err != nil {
		return fmt.Errorf("failed to marshal SARIF: %w", err)
	}
	return nil
}

// sarifLevel maps FATAL and MAJOR to error, MINOR to warning and the rest
// to note.
func sarifLevel(s lint.Severity) string {
	switch s.Level {
	case lint.LevelFatal, lint.LevelMajor:
		return "error"
	case lint.LevelMinor:
		return "warning"
	default:
		return "note"
	}
}

// fingerprint is stable across runs for the same file, line and rule.
func fingerprint(file string, e Entry) string {
	data := fmt.Sprintf("%s:%d:%s", file, e.Line, e.Rule)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:16]
}
