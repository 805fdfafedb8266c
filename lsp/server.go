// Package lsp implements a Language Server Protocol server for MSD
// simfiles. It publishes parse diagnostics as documents change and
// serves one document symbol per parameter.
package lsp

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/msdtool/msd"
)

const lsName = "msdtool"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	log     commonlog.Logger

	// Open documents by URI, full content. The protocol handlers run
	// sequentially, so no locking is needed.
	docs map[string]string
}

func NewServer(version string) *Server {
	commonlog.Configure(1, nil)

	s := &Server{
		version: version,
		log:     commonlog.GetLogger(lsName),
		docs:    map[string]string{},
	}

	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentDidSave:        s.textDocumentDidSave,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
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
	capabilities.DocumentSymbolProvider = true

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
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.log.Debugf("open %s", uri)
	s.docs[uri] = params.TextDocument.Text
	s.publishDiagnostics(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.docs[uri] = textChange.Text
		}
	}
	s.publishDiagnostics(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		s.docs[uri] = *params.Text
	}
	s.publishDiagnostics(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	delete(s.docs, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	text, ok := s.docs[params.TextDocument.URI]
	if !ok {
		return nil, nil
	}

	parameters, _ := analyze(params.TextDocument.URI, text)

	var symbols []protocol.DocumentSymbol
	for _, p := range parameters {
		key, _ := p.Key()
		if key == "" {
			key = "(empty key)"
		}
		r := rangeAt(p.Pos)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           key,
			Kind:           protocol.SymbolKindProperty,
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text := s.docs[uri]
	_, perr := analyze(uri, text)

	// Always publish, so a fixed document clears its squiggles.
	diagnostics := []protocol.Diagnostic{}
	if perr != nil {
		severity := protocol.DiagnosticSeverityError
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeAt(perr.Pos),
			Severity: &severity,
			Source:   &source,
			Message:  perr.Message,
		})
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// analyze parses the whole document in strict mode, returning the
// parameters before the first structural problem and that problem,
// if any. I/O errors cannot happen on an in-memory document.
func analyze(uri, text string) ([]msd.Parameter, *msd.ParseError) {
	name := uriToPath(uri)
	parameters, err := msd.Parse(strings.NewReader(text), msd.WithFile(name))
	var perr *msd.ParseError
	if errors.As(err, &perr) {
		return parameters, perr
	}
	return parameters, nil
}

// rangeAt converts a one-based parser position to a single-character
// LSP range.
func rangeAt(pos msd.Position) protocol.Range {
	line := uint32(0)
	if pos.Line > 0 {
		line = uint32(pos.Line - 1)
	}
	col := uint32(0)
	if pos.Column > 0 {
		col = uint32(pos.Column - 1)
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: col},
		End:   protocol.Position{Line: line, Character: col + 1},
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

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
