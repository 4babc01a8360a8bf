// Package output groups lint diagnostics per file and renders them.
//
// Four formats are supported:
//
//   - human: the colored listing and severity report of the terminal
//   - json: an indented Report document
//   - yaml: the same document in YAML
//   - sarif: a SARIF 2.1.0 log for code scanning tools
//
// Files are listed in path order and diagnostics by line, then rule id,
// so two runs over the same tree render byte-identical documents apart
// from the run id.
package output
