package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	perrors "plum/internal/errors"
	"plum/internal/lint"
	"plum/internal/paths"
	"plum/internal/rules"
)

// Profile adjusts the built-in rules: it may disable them, change their
// severity or their settings, and disable rules for matching paths.
type Profile struct {
	Rules     map[string]RuleProfile `toml:"rules"`
	Overrides []Override             `toml:"overrides"`
}

// RuleProfile is the profile entry of one rule id
type RuleProfile struct {
	// Enabled defaults to true when omitted
	Enabled *bool `toml:"enabled,omitempty"`

	// Severity is any text; names other than FATAL, MAJOR, MINOR and INFO
	// produce special diagnostics
	Severity string `toml:"severity,omitempty"`

	Settings map[string]any `toml:"settings,omitempty"`
}

// Override disables rules for the files whose root-relative path matches
// one of Paths.
type Override struct {
	Paths   []string `toml:"paths"`
	Disable []string `toml:"disable"`

	matchers []glob.Glob
}

// LoadProfile decodes the profile at path. A missing file is an empty
// profile.
func LoadProfile(path string) (*Profile, error) {
	var p Profile
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Profile{}, nil
		}
		return nil, perrors.New(perrors.ProfileInvalid, "cannot parse "+path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, perrors.Newf(perrors.ProfileInvalid, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) compile() error {
	known := rules.IDs()
	for i := range p.Overrides {
		o := &p.Overrides[i]
		o.matchers = o.matchers[:0]
		for _, pattern := range o.Paths {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return perrors.New(perrors.ProfileInvalid, fmt.Sprintf("override path %q", pattern), err)
			}
			o.matchers = append(o.matchers, g)
		}
		for _, id := range o.Disable {
			if !slices.Contains(known, id) {
				return perrors.Newf(perrors.ProfileInvalid, "override disables unknown rule %q", id)
			}
		}
	}
	return nil
}

// Options converts the profile into rule set options. only restricts the
// run to the listed ids when not empty.
func (p *Profile) Options(only []string) rules.Options {
	opts := rules.Options{
		Only:       only,
		Severities: map[string]string{},
		Settings:   map[string]map[string]any{},
	}
	for id, r := range p.Rules {
		if r.Enabled != nil && !*r.Enabled {
			opts.Disabled = append(opts.Disabled, id)
		}
		if r.Severity != "" {
			opts.Severities[id] = r.Severity
		}
		if len(r.Settings) > 0 {
			opts.Settings[id] = r.Settings
		}
	}
	slices.Sort(opts.Disabled)
	return opts
}

// Skip returns the predicate of the runner: it reports whether the rule id
// is disabled for path by an override. Paths are matched relative to root.
func (p *Profile) Skip(root string) func(path, id string) bool {
	if len(p.Overrides) == 0 {
		return nil
	}
	return func(path, id string) bool {
		rel := relative(path, root)
		for _, o := range p.Overrides {
			if !slices.Contains(o.Disable, id) {
				continue
			}
			for _, g := range o.matchers {
				if g.Match(rel) {
					return true
				}
			}
		}
		return false
	}
}

func relative(path, root string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return paths.NormalizePath(path)
	}
	rel, err := paths.CanonicalizePath(abs, root)
	if err != nil {
		return paths.NormalizePath(path)
	}
	return rel
}

// DefaultProfile lists every built-in rule enabled with its default
// severity and settings.
func DefaultProfile() *Profile {
	p := &Profile{Rules: map[string]RuleProfile{}}
	enabled := true
	for _, r := range rules.All() {
		entry, _ := rules.Lookup(r.ID())
		rp := RuleProfile{Enabled: &enabled, Severity: entry.Severity}
		if c, ok := r.(lint.Configurable); ok {
			rp.Settings = c.DefaultSettings()
		}
		p.Rules[r.ID()] = rp
	}
	p.Overrides = []Override{}
	return p
}

// Encode writes the profile as TOML.
func (p *Profile) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(p)
}

// SaveProfile writes p to path, creating parent directories.
func SaveProfile(p *Profile, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
