// Package lsp serves Blade diagnostics and document formatting over the
// Language Server Protocol.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/bladefmt/blade/parser"
	"github.com/dhamidi/bladefmt/config"
	"github.com/dhamidi/bladefmt/format"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "bladefmt"

const publishDiagnostics = "textDocument/publishDiagnostics"

type Option func(*Server)

// WithOptions sets the formatting options used when a request does not
// override them.
func WithOptions(opts format.Options) Option {
	return func(s *Server) {
		s.opts = opts
	}
}

// WithConfigDiscovery makes the server load .bladefmt.yaml from the
// workspace root on initialize.
func WithConfigDiscovery() Option {
	return func(s *Server) {
		s.discover = true
	}
}

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	log     commonlog.Logger

	mu       sync.RWMutex
	docs     map[string]string
	opts     format.Options
	discover bool
}

func NewServer(version string, options ...Option) *Server {
	s := &Server{
		version: version,
		docs:    make(map[string]string),
		log:     commonlog.GetLogger("bladefmt.lsp"),
	}
	for _, opt := range options {
		opt(s)
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentDidSave:    s.textDocumentDidSave,
		TextDocumentFormatting: s.textDocumentFormatting,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := ""
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	if s.discover && rootDir != "" {
		s.loadConfig(rootDir)
	}

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentFormattingProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) loadConfig(rootDir string) {
	cfg, err := config.Discover(rootDir)
	if err != nil {
		s.log.Warningf("loading config from %s: %s", rootDir, err)
		return
	}
	opts, err := cfg.FormatOptions()
	if err != nil {
		s.log.Warningf("loading directives for %s: %s", cfg.Path(), err)
		return
	}
	if cfg.Path() != "" {
		s.log.Infof("using config %s", cfg.Path())
	}
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
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
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	s.log.Debugf("closed %s", uri)
	ctx.Notify(publishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := params.TextDocument.URI
	text, ok := s.document(uri)
	if !ok {
		return nil, nil
	}

	opts := s.formatOptions(uri, params.Options)
	formatted, diags := format.Source([]byte(text), opts)
	if len(diags) > 0 {
		s.log.Debugf("formatting %s with %d diagnostics", uri, len(diags))
	}
	if string(formatted) == text {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{},
			End:   positionAt(text, len(text)),
		},
		NewText: string(formatted),
	}}, nil
}

// formatOptions applies the editor's tabSize and insertSpaces to the
// server's defaults. Clients send them as JSON numbers and booleans, some
// as strings.
func (s *Server) formatOptions(uri string, requested protocol.FormattingOptions) format.Options {
	s.mu.RLock()
	opts := s.opts
	s.mu.RUnlock()

	opts.File = uri
	if path, err := uriToPath(uri); err == nil {
		opts.File = path
	}
	if v, ok := requested["tabSize"]; ok {
		if size, err := cast.ToIntE(v); err == nil && size > 0 {
			opts.IndentSize = size
		}
	}
	if v, ok := requested["insertSpaces"]; ok {
		if spaces, err := cast.ToBoolE(v); err == nil {
			opts.Tabs = !spaces
		}
	}
	return opts
}

func (s *Server) document(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *Server) update(ctx *glsp.Context, uri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	opts := s.opts
	s.mu.Unlock()

	file := uri
	if path, err := uriToPath(uri); err == nil {
		file = path
	}
	_, diags := parser.Parse([]byte(text), parser.WithFile(file), parser.WithDirectives(opts.Directives))
	s.log.Debugf("parsed %s: %d diagnostics", uri, len(diags))

	ctx.Notify(publishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(text, diags),
	})
}

func toProtocolDiagnostics(text string, diags []parser.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diags))
	source := lsName
	for _, d := range diags {
		severity := toProtocolSeverity(d.Kind)
		start, end := d.Span.Start.Offset, d.Span.End.Offset
		if end <= start {
			end = start + 1
		}
		result = append(result, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionAt(text, start),
				End:   positionAt(text, end),
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Kind.String()},
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

func toProtocolSeverity(kind parser.DiagnosticKind) protocol.DiagnosticSeverity {
	if kind.IsError() {
		return protocol.DiagnosticSeverityError
	}
	return protocol.DiagnosticSeverityWarning
}

// positionAt converts a byte offset into a zero-based line and UTF-16
// character position. Offsets past the end clamp to the end of text.
func positionAt(text string, offset int) protocol.Position {
	if offset > len(text) {
		offset = len(text)
	}
	var line, char protocol.UInteger
	for _, r := range text[:offset] {
		switch {
		case r == '\n':
			line++
			char = 0
		case r >= 0x10000:
			char += 2
		default:
			char++
		}
	}
	return protocol.Position{Line: line, Character: char}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
