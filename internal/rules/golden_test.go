package rules

import (
	"context"
	"testing"

	"plum/internal/discovery"
	"plum/internal/lexer"
	"plum/internal/lint"
	"plum/internal/slogutil"
	"plum/internal/testutil"
)

func TestGoldenFixtures(t *testing.T) {
	tests := []struct {
		fixture string
		only    []string
	}{
		{"basic", []string{"C-A3", "C-C3", "C-F3", "C-G6", "C-G7", "C-G10"}},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			fixture := testutil.LoadFixture(t, tt.fixture)
			logger := slogutil.NewDiscardLogger()

			files, err := discovery.Discover(context.Background(), discovery.Options{
				Root:        fixture.Root,
				IgnoredDirs: discovery.DefaultIgnoredDirs,
				Logger:      logger,
			}, nil)
			if err != nil {
				t.Fatal(err)
			}

			checks, err := Build(Options{Only: tt.only})
			if err != nil {
				t.Fatal(err)
			}
			runner := &lint.Runner{Checks: checks, Host: lexer.NewHost(logger), Logger: logger}
			res, err := runner.Run(context.Background(), files)
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Errors) > 0 {
				t.Fatalf("run errors: %v", res.Errors)
			}

			testutil.CompareGolden(t, fixture, "diagnostics", testutil.FormatDiagnostics(fixture.Root, res.Diagnostics))
		})
	}
}
