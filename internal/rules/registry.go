// Package rules implements the Epitech coding style checks on top of the
// lint engine.
package rules

import (
	"fmt"
	"sort"

	perrors "plum/internal/errors"
	"plum/internal/lint"
)

// All returns a fresh instance of every built-in rule with default
// settings, in catalog order.
func All() []lint.Rule {
	return []lint.Rule{
		finalNewline{},
		&nestingDepth{maxDepth: 2},
		ternaryUse{},
		gotoUse{},
		functionName{},
		&lineWidth{maxColumns: 80},
		&bodyLength{maxLines: 20},
		&argumentCount{maxArguments: 4},
		emptyParameters{},
		structByValue{},
		functionComment{},
		nestedFunction{},
		fileHeader{},
		includeTarget{},
		carriageReturn{},
		trailingSpace{},
		inlineAssembly{},
		headerSeparation{},
		macroShape{},
		oneStatement{},
		indentation{},
		spacing{},
		bracePlacement{},
		declarationZone{},
		blankLines{},
		&functionCount{maxFunctions: 10, maxNonStatic: 5},
		fileName{},
		naming{},
		pointerStar{},
	}
}

// Options adjusts the rule set of a run.
type Options struct {
	// Only keeps the listed rule ids. Empty keeps all.
	Only []string

	// Disabled removes rules after Only is applied.
	Disabled []string

	// Severities overrides the default severity per rule id. Unknown
	// severity names become special severities.
	Severities map[string]string

	// Settings are passed to configurable rules per rule id.
	Settings map[string]map[string]any
}

// IDs lists the built-in rule ids in catalog order.
func IDs() []string {
	rules := All()
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID()
	}
	return ids
}

// Build creates the checks of a run. Unknown rule ids and invalid
// settings are reported as ProfileInvalid errors.
func Build(opts Options) ([]lint.Check, error) {
	known := make(map[string]bool)
	for _, id := range IDs() {
		known[id] = true
	}
	for _, id := range referencedIDs(opts) {
		if !known[id] {
			return nil, perrors.Newf(perrors.ProfileInvalid, "unknown rule %q", id)
		}
	}

	only := toSet(opts.Only)
	disabled := toSet(opts.Disabled)

	var checks []lint.Check
	for _, r := range All() {
		id := r.ID()
		if len(only) > 0 && !only[id] {
			continue
		}
		if disabled[id] {
			continue
		}

		entry, ok := Lookup(id)
		if !ok {
			return nil, perrors.Newf(perrors.InternalError, "rule %s has no catalog entry", id)
		}
		kinds, err := lint.ParseKinds(entry.Kinds)
		if err != nil {
			return nil, perrors.New(perrors.InternalError, "rule catalog", err)
		}

		severity := lint.ParseSeverity(entry.Severity)
		if s, ok := opts.Severities[id]; ok {
			severity = lint.ParseSeverity(s)
		}

		if settings, ok := opts.Settings[id]; ok {
			c, ok := r.(lint.Configurable)
			if !ok {
				return nil, perrors.Newf(perrors.ProfileInvalid, "rule %s has no settings", id)
			}
			if err := c.ApplySettings(settings); err != nil {
				return nil, perrors.New(perrors.ProfileInvalid, fmt.Sprintf("rule %s", id), err)
			}
		}

		checks = append(checks, lint.Check{
			Rule:        r,
			Severity:    severity,
			Kinds:       kinds,
			Description: entry.Description,
		})
	}
	return checks, nil
}

func referencedIDs(opts Options) []string {
	ids := append([]string{}, opts.Only...)
	ids = append(ids, opts.Disabled...)
	for id := range opts.Severities {
		ids = append(ids, id)
	}
	for id := range opts.Settings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
