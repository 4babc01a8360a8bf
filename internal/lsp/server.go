// Package lsp serves lint diagnostics of open buffers over the Language
// Server Protocol.
package lsp

import (
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"plum/internal/lexer"
	"plum/internal/lint"
)

const lsName = "plum"

// Server lints buffers on open, change and save and publishes the
// diagnostics.
type Server struct {
	runner  *lint.Runner
	logger  *slog.Logger
	version string

	handler protocol.Handler
	server  *server.Server

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string
}

// NewServer creates a server running the checks of runner. The runner's
// cache is not used, buffers are always linted fresh.
func NewServer(runner *lint.Runner, version string, logger *slog.Logger) *Server {
	s := &Server{
		runner:  runner,
		logger:  logger,
		version: version,
		docs:    make(map[protocol.DocumentUri]string),
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

// RunStdio serves on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	s.logger.Info("Language server starting", "version", s.version, "checks", len(s.runner.Checks))
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.update(ctx, params.TextDocument.URI, whole.Text)
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}
	s.mu.Lock()
	text, ok := s.docs[params.TextDocument.URI]
	s.mu.Unlock()
	if ok {
		s.update(ctx, params.TextDocument.URI, text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	publish(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
	publish(ctx, uri, s.Lint(uriToPath(uri), text))
}

// Lint runs the checks on an in-memory buffer. Files that are neither C
// nor Makefiles, and buffers that fail to tokenize, yield no diagnostics.
func (s *Server) Lint(path, text string) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	if lint.KindOf(path) == 0 {
		return out
	}
	src, err := lexer.NewSource(path, []byte(text))
	if err != nil {
		s.logger.Warn("Cannot tokenize buffer", "file", path, "error", err.Error())
		return out
	}
	diags, errs := s.runner.LintSource(src)
	for _, err := range errs {
		s.logger.Warn("Check failed on buffer", "file", path, "error", err.Error())
	}
	lines := src.Lines()
	for _, d := range diags {
		out = append(out, toProtocol(d, lines))
	}
	return out
}

func publish(ctx *glsp.Context, uri protocol.DocumentUri, diags []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// toProtocol spans the whole reported line. Diagnostics past the last
// line, such as a missing final newline, point at the end of the buffer.
func toProtocol(d lint.Diagnostic, lines []string) protocol.Diagnostic {
	line := d.Line - 1
	if line >= len(lines) {
		line = len(lines) - 1
	}
	var width int
	if line < 0 {
		line = 0
	} else {
		width = len([]rune(strings.TrimRight(lines[line], "\r\n")))
	}

	severity := severityOf(d.Severity)
	source := lsName
	message := d.Message
	if d.Severity.IsSpecial() && d.Severity.Text != "" {
		message = d.Severity.Text + ": " + message
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line)},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(width)},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.RuleID},
		Source:   &source,
		Message:  message,
	}
}

func severityOf(s lint.Severity) protocol.DiagnosticSeverity {
	switch s.Level {
	case lint.LevelFatal, lint.LevelMajor:
		return protocol.DiagnosticSeverityError
	case lint.LevelMinor:
		return protocol.DiagnosticSeverityWarning
	case lint.LevelInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}

func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		if parsed, err := url.Parse(uri); err == nil {
			return filepath.Clean(parsed.Path)
		}
	}
	return uri
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
