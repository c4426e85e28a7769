package lsp

import (
	"errors"
	"testing"

	"github.com/dhamidi/luast/lua/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func recordingContext(out *[]notification) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			*out = append(*out, notification{method: method, params: params.(protocol.PublishDiagnosticsParams)})
		},
	}
}

func TestDiagnostics(t *testing.T) {
	if got := Diagnostics(nil); got == nil || len(got) != 0 {
		t.Errorf("Diagnostics(nil) = %#v, want empty non-nil slice", got)
	}

	_, err := parser.ParseString("local x = 1\nx = * 2")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	diags := Diagnostics(err)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Range.Start.Line != 1 || d.Range.Start.Character != 4 {
		t.Errorf("start = %+v, want line 1 character 4", d.Range.Start)
	}
	if d.Range.End.Character != d.Range.Start.Character+1 {
		t.Errorf("end = %+v", d.Range.End)
	}
	if d.Message != "unexpected symbol near '*'" {
		t.Errorf("message = %q", d.Message)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v", d.Severity)
	}

	other := Diagnostics(errors.New("read source: boom"))
	if len(other) != 1 || other[0].Message != "read source: boom" {
		t.Errorf("non-syntax error diagnostics = %+v", other)
	}
	if other[0].Range.Start != (protocol.Position{}) {
		t.Errorf("non-syntax error range = %+v", other[0].Range)
	}
}

func TestDocumentSymbols(t *testing.T) {
	src := `local count = 0
local function helper() local inner = 1 end
function M.run(a) end
function M:stop() end
`
	chunk, err := parser.ParseString(src)
	if err != nil {
		t.Fatal(err)
	}

	symbols := DocumentSymbols(chunk)
	want := []struct {
		name string
		kind protocol.SymbolKind
	}{
		{"count", protocol.SymbolKindVariable},
		{"helper", protocol.SymbolKindFunction},
		{"M.run", protocol.SymbolKindFunction},
		{"M:stop", protocol.SymbolKindMethod},
	}
	if len(symbols) != len(want) {
		t.Fatalf("got %d symbols, want %d: %+v", len(symbols), len(want), symbols)
	}
	for i, w := range want {
		if symbols[i].Name != w.name || symbols[i].Kind != w.kind {
			t.Errorf("symbol %d = %s (%d), want %s (%d)", i, symbols[i].Name, symbols[i].Kind, w.name, w.kind)
		}
	}
	if pos := symbols[0].Range.Start; pos.Line != 0 || pos.Character != 6 {
		t.Errorf("count position = %+v, want 0:6", pos)
	}
	if pos := symbols[2].Range.Start; pos.Line != 2 {
		t.Errorf("M.run line = %d, want 2", pos.Line)
	}
}

func TestWholeDocument(t *testing.T) {
	tests := []struct {
		text string
		line uint32
		char uint32
	}{
		{"", 0, 0},
		{"x = 1", 0, 5},
		{"x = 1\n", 1, 0},
		{"a()\nb()", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r := wholeDocument(tt.text)
			if r.Start != (protocol.Position{}) {
				t.Errorf("start = %+v", r.Start)
			}
			if r.End.Line != tt.line || r.End.Character != tt.char {
				t.Errorf("end = %+v, want %d:%d", r.End, tt.line, tt.char)
			}
		})
	}
}

func TestDocumentLifecycle(t *testing.T) {
	ls := NewServer("test")
	var sent []notification
	ctx := recordingContext(&sent)
	uri := "file:///tmp/a.lua"

	err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "local x = "},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0].method != protocol.ServerTextDocumentPublishDiagnostics {
		t.Fatalf("notifications after open = %+v", sent)
	}
	if len(sent[0].params.Diagnostics) != 1 {
		t.Errorf("open of broken source published %d diagnostics, want 1", len(sent[0].params.Diagnostics))
	}

	err = ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "local   x=1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 2 || len(sent[1].params.Diagnostics) != 0 {
		t.Fatalf("change should clear diagnostics: %+v", sent)
	}

	symbols, err := ls.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	if list, ok := symbols.([]protocol.DocumentSymbol); !ok || len(list) != 1 || list[0].Name != "x" {
		t.Errorf("symbols = %+v", symbols)
	}

	edits, err := ls.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(edits) != 1 || edits[0].NewText != "local x = 1\n" {
		t.Fatalf("edits = %+v", edits)
	}
	if end := edits[0].Range.End; end.Line != 0 || end.Character != 11 {
		t.Errorf("edit end = %+v", end)
	}

	err = ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	if ls.document(uri) != nil {
		t.Error("document still tracked after close")
	}
	if last := sent[len(sent)-1]; last.params.Diagnostics == nil || len(last.params.Diagnostics) != 0 {
		t.Errorf("close should publish an empty diagnostic list: %+v", last)
	}
}

func TestFormattingUnchangedDocument(t *testing.T) {
	ls := NewServer("test")
	var sent []notification
	ctx := recordingContext(&sent)
	uri := "file:///tmp/b.lua"

	ls.update(ctx, uri, "return 1\n")
	edits, err := ls.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(edits) != 0 {
		t.Errorf("formatted document produced edits: %+v", edits)
	}
}

func TestFormattingKeepsCommentedDocument(t *testing.T) {
	ls := NewServer("test")
	var sent []notification
	ctx := recordingContext(&sent)
	uri := "file:///tmp/c.lua"

	ls.update(ctx, uri, "local   x=1 -- why x\n")
	edits, err := ls.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(edits) != 0 {
		t.Errorf("formatting a commented document produced edits: %+v", edits)
	}
}
