// Package lsp serves Lua syntax diagnostics, document symbols and
// formatting over the Language Server Protocol.
package lsp

import (
	"bytes"
	"errors"
	"strings"
	"sync"

	"github.com/dhamidi/luast/format"
	"github.com/dhamidi/luast/lua/parser"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "luast"

type document struct {
	text  string
	chunk *parser.Chunk
	err   error
}

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	opts    []parser.Option
	log     commonlog.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

// NewServer creates a server that parses every document with opts.
func NewServer(version string, opts ...parser.Option) *Server {
	ls := &Server{
		version: version,
		opts:    opts,
		log:     commonlog.GetLogger("luast.lsp"),
		docs:    make(map[protocol.DocumentUri]*document),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFormatting:     ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

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
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Info("client initialized")
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.log.Infof("open %s", params.TextDocument.URI)
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.log.Debugf("change %s", params.TextDocument.URI)
		ls.update(ctx, params.TextDocument.URI, textChange.Text)
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.log.Infof("close %s", params.TextDocument.URI)
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil || doc.chunk == nil {
		return nil, nil
	}
	return DocumentSymbols(doc.chunk), nil
}

// textDocumentFormatting offers no edit for a document with comments,
// since the printer would delete them.
func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil || doc.chunk == nil {
		return nil, nil
	}
	if format.HasComments(doc.text) {
		ls.log.Infof("not formatting %s: it has comments", params.TextDocument.URI)
		return nil, nil
	}

	var buf bytes.Buffer
	if err := format.NewLuaPrinter(&buf).Print(doc.chunk); err != nil {
		return nil, err
	}
	if buf.String() == doc.text {
		return nil, nil
	}
	return []protocol.TextEdit{{
		Range:   wholeDocument(doc.text),
		NewText: buf.String(),
	}}, nil
}

// update reparses the document and publishes its diagnostics.
func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	chunk, err := parser.ParseString(text, append([]parser.Option{parser.WithFile(uriToPath(uri))}, ls.opts...)...)
	if err != nil {
		ls.log.Debugf("%s: %s", uri, err)
	}

	ls.mu.Lock()
	ls.docs[uri] = &document{text: text, chunk: chunk, err: err}
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: Diagnostics(err),
	})
}

func (ls *Server) document(uri protocol.DocumentUri) *document {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.docs[uri]
}

// Diagnostics converts a parse error into at most one diagnostic. The
// result is never nil so that it encodes as an empty JSON array.
func Diagnostics(err error) []protocol.Diagnostic {
	if err == nil {
		return []protocol.Diagnostic{}
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName
	diag := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}

	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		start := toPosition(syntaxErr.Line, syntaxErr.Column)
		end := start
		end.Character++
		diag.Range = protocol.Range{Start: start, End: end}
		diag.Message = syntaxErr.Message
	}
	return []protocol.Diagnostic{diag}
}

// DocumentSymbols lists the functions of chunk and its top-level locals.
func DocumentSymbols(chunk *parser.Chunk) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	add := func(name string, kind protocol.SymbolKind, detail string, n parser.Node) {
		pos := toPosition(n.Pos().Line, n.Pos().Column)
		rng := protocol.Range{Start: pos, End: pos}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           name,
			Detail:         &detail,
			Kind:           kind,
			Range:          rng,
			SelectionRange: rng,
		})
	}

	parser.Walk(chunk, func(n parser.Node) bool {
		switch n := n.(type) {
		case *parser.LocalFunction:
			add(n.Name.Name, protocol.SymbolKindFunction, "local function", n)
		case *parser.FunctionDeclaration:
			kind := protocol.SymbolKindFunction
			if n.IsMethod {
				kind = protocol.SymbolKindMethod
			}
			add(functionName(n.Name), kind, "function", n)
		case *parser.Local:
			if n.Parent() == parser.Node(chunk.Body) {
				for _, name := range n.Names {
					add(name.Name, protocol.SymbolKindVariable, "local", name)
				}
			}
		}
		return true
	})
	return symbols
}

func functionName(expr parser.Expression) string {
	switch e := expr.(type) {
	case *parser.Identifier:
		return e.Name
	case *parser.Member:
		return functionName(e.Base) + e.Indexer + e.Field.Name
	}
	return "?"
}

// toPosition converts a 1-based line and column to a protocol position.
func toPosition(line, column int) protocol.Position {
	if line > 0 {
		line--
	}
	if column > 0 {
		column--
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(column)}
}

func wholeDocument(text string) protocol.Range {
	lines := strings.Count(text, "\n")
	last := text[strings.LastIndex(text, "\n")+1:]
	return protocol.Range{
		Start: protocol.Position{},
		End:   protocol.Position{Line: protocol.UInteger(lines), Character: protocol.UInteger(len(last))},
	}
}

func uriToPath(uri protocol.DocumentUri) string {
	return strings.TrimPrefix(uri, "file://")
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
