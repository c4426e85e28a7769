package parser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func mustParse(t *testing.T, src string, opts ...Option) *Chunk {
	t.Helper()
	chunk, err := ParseString(src, opts...)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}
	return chunk
}

func mustFail(t *testing.T, src string, opts ...Option) *SyntaxError {
	t.Helper()
	chunk, err := ParseString(src, opts...)
	if err == nil {
		t.Fatalf("ParseString(%q) succeeded: %s", src, Dump(chunk))
	}
	if chunk != nil {
		t.Errorf("ParseString(%q) returned a chunk alongside its error", src)
	}
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("ParseString(%q): got %T %v, want *SyntaxError", src, err, err)
	}
	return syntaxErr
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input string
		dump  string
	}{
		{"", "(chunk (block))"},
		{"local x, y = 1, 2", "(chunk (block (local (x y) (1 2))))"},
		{"local x, y = 1", "(chunk (block (local (x y) (1))))"},
		{"local x", "(chunk (block (local (x))))"},
		{"local function f(a, b) end", "(chunk (block (local-function f (a b) (block))))"},
		{"local function f() return end", "(chunk (block (local-function f () (block (return)))))"},
		{"local function f(...) end", "(chunk (block (local-function f (...) (block))))"},
		{"local function f(a, ...) end", "(chunk (block (local-function f (a ...) (block))))"},
		{"do break end", "(chunk (block (do (block (break)))))"},
		{"do end do end", "(chunk (block (do (block)) (do (block))))"},
		{"while x do continue end", "(chunk (block (while x (block (continue)))))"},
		{"repeat x = x + 1 until x > 10", "(chunk (block (repeat (block (= (x) ((+ x 1)))) (> x 10))))"},
		{"if a then b() end", "(chunk (block (if (clause a (block (call b))))))"},
		{
			"if a then b() elseif c then d() else e() end",
			"(chunk (block (if (clause a (block (call b))) (clause c (block (call d))) (else (block (call e))))))",
		},
		{"for i = 1, 10 do end", "(chunk (block (for i 1 10 (block))))"},
		{"for i = 1, 10, 2 do end", "(chunk (block (for i 1 10 2 (block))))"},
		{"for k, v in pairs(t) do end", "(chunk (block (for-in (k v) ((call pairs t)) (block))))"},
		{"function f() end", "(chunk (block (function f () (block))))"},
		{"function a.b:c(x) return x end", "(chunk (block (function (: (. a b) c) (x) (block (return x)))))"},
		{"goto done ::done::", "(chunk (block (goto done) (label done)))"},
		{"a, b.c, d[1] = 1, 2, 3", "(chunk (block (= (a (. b c) ([] d 1)) (1 2 3))))"},
		{`print("hi");;`, `(chunk (block (call print "hi")))`},
		{"obj:method(1)", "(chunk (block (call (: obj method) 1)))"},
		{"return 1, 2", "(chunk (block (return 1 2)))"},
		{"return;", "(chunk (block (return)))"},
		{"do return end", "(chunk (block (do (block (return)))))"},
		{"(f)()", "(chunk (block (call f)))"},
		{"(f())()", "(chunk (block (call (paren (call f)))))"},
		{"(a).b = 1", "(chunk (block (= ((. a b)) (1))))"},
		{"return (f()), f(), (...), ...", "(chunk (block (return (paren (call f)) (call f) (paren ...) ...)))"},
		{"local a, b = ((g()))", "(chunk (block (local (a b) ((paren (call g))))))"},
		{"local t = {1, x = 2, [3] = 4;}", "(chunk (block (local (t) ((table 1 (= x 2) ([]= 3 4))))))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			chunk := mustParse(t, tt.input)
			if got := Dump(chunk); got != tt.dump {
				t.Errorf("got  %s\nwant %s", got, tt.dump)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		line    int
	}{
		{"local", "<name> expected near <eof>", 1},
		{"local a,", "<name> expected near <eof>", 1},
		{"local 1", "<name> expected near '1'", 1},
		{"x = 1,", "unexpected symbol near <eof>", 1},
		{"local x = * 2", "unexpected symbol near '*'", 1},
		{"do x = 1", "'end' expected (to close 'do' at line 1) near <eof>", 1},
		{"do\n  local x = 1\n", "'end' expected (to close 'do' at line 1) near <eof>", 3},
		{"\n\nwhile true do\n", "'end' expected (to close 'while' at line 3) near <eof>", 4},
		{"if x then", "'end' expected (to close 'if' at line 1) near <eof>", 1},
		{"if x y", "'then' expected near 'y'", 1},
		{"repeat x()", "'until' expected (to close 'repeat' at line 1) near <eof>", 1},
		{"for i do end", "'=' or 'in' expected near 'do'", 1},
		{"local x = 1 )", "'<eof>' expected near ')'", 1},
		{"f() = 1", "syntax error near '='", 1},
		{"(a) = 1", "syntax error near '='", 1},
		{"a, (b) = 1, 2", "syntax error near '='", 1},
		{"(f())", "syntax error near <eof>", 1},
		{"(a)", "syntax error near <eof>", 1},
		{"a:b = 1", "function arguments expected near '='", 1},
		{"x", "'=' expected near <eof>", 1},
		{"x = (1", "')' expected near <eof>", 1},
		{"x = a[1", "']' expected near <eof>", 1},
		{"local function f(a,) end", "<name> expected near ')'", 1},
		{"x = {1, 2", "'}' expected (to close '{' at line 1) near <eof>", 1},
		{"::a", "'::' expected near <eof>", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := mustFail(t, tt.input)
			if err.Message != tt.message {
				t.Errorf("message = %q, want %q", err.Message, tt.message)
			}
			if err.Line != tt.line {
				t.Errorf("line = %d, want %d", err.Line, tt.line)
			}
		})
	}
}

func TestSyntaxErrorFormat(t *testing.T) {
	_, err := ParseString("local x = * 2")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got, want := err.Error(), "(1,11): unexpected symbol near '*'"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSyntaxErrorFile(t *testing.T) {
	err := mustFail(t, "local", WithFile("init.lua"))
	if err.File != "init.lua" {
		t.Errorf("file = %q, want init.lua", err.File)
	}
}

func TestLexicalErrorIsSyntaxError(t *testing.T) {
	err := mustFail(t, "x = 1 @")
	if err.Line != 1 {
		t.Errorf("line = %d, want 1", err.Line)
	}
}

func TestBlockStopsBeforeEnd(t *testing.T) {
	p := New(ScanString("x = 1 end", ""))
	var block *Block
	err := catchFault(func() {
		block = p.parseBlock(nil)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(block.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(block.Statements))
	}
	if kind := p.peek(); kind != TokenEnd {
		t.Errorf("next token = %v, want end", kind)
	}
}

func TestLocalNamesAreLocal(t *testing.T) {
	chunk := mustParse(t, "local x, y = 1, 2")
	local, ok := chunk.Body.Statements[0].(*Local)
	if !ok {
		t.Fatalf("statement is %T, want *Local", chunk.Body.Statements[0])
	}
	if len(local.Names) != 2 || local.Names[0].Name != "x" || local.Names[1].Name != "y" {
		t.Fatalf("names = %v", local.Names)
	}
	for _, name := range local.Names {
		if !name.IsLocal {
			t.Errorf("%s is not marked local", name.Name)
		}
	}

	chunk = mustParse(t, "x = 1")
	assign := chunk.Body.Statements[0].(*Assignment)
	if assign.Targets[0].(*Identifier).IsLocal {
		t.Error("global assignment target marked local")
	}
}

func TestNameList(t *testing.T) {
	p := New(ScanString("a, b, c", ""))
	var names []*Identifier
	if err := catchFault(func() { names = p.parseNameList(nil) }); err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 {
		t.Fatalf("got %d names, want 3", len(names))
	}
	for i, want := range []string{"a", "b", "c"} {
		if names[i].Name != want {
			t.Errorf("name %d = %q, want %q", i, names[i].Name, want)
		}
	}

	p = New(ScanString("a,", ""))
	err := catchFault(func() { p.parseNameList(nil) })
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("trailing comma: got %v, want SyntaxError", err)
	}
}

func TestParentLinks(t *testing.T) {
	src := `
local t = {1, x = f(2), [k] = function(a, ...) return a.b[c]:d "s" end}
for i = 1, #t do
  if t[i] and not done then
    t[i] = -t[i] ^ 2 .. ""
  elseif x then goto skip
  else break end
end
::skip::
function m.n:o(p) repeat p = p - 1 until p < 0 end
for k, v in next, t do print(k, v) end
`
	chunk := mustParse(t, src)
	if chunk.Parent() != nil {
		t.Error("chunk has a parent")
	}
	count := 0
	Walk(chunk, func(n Node) bool {
		count++
		for _, child := range Children(n) {
			if child.Parent() != n {
				t.Errorf("%s at %s: parent is %v, want %s", child.Kind(), child.Pos(), child.Parent(), n.Kind())
			}
		}
		return true
	})
	if count < 50 {
		t.Errorf("walked %d nodes, expected the whole tree", count)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	chunk := mustParse(t, "do local x = 1 end local y = 2")
	var kinds []NodeKind
	Walk(chunk, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindDo
	})
	for _, kind := range kinds {
		if kind == KindIdentifier {
			return
		}
	}
	t.Errorf("walk never reached y: %v", kinds)
}

func TestMaxDepth(t *testing.T) {
	nested := "x = " + strings.Repeat("(", 60) + "1" + strings.Repeat(")", 60)
	mustParse(t, nested)

	err := mustFail(t, nested, WithMaxDepth(20))
	if !strings.HasPrefix(err.Message, "chunk has too many syntax levels") {
		t.Errorf("message = %q", err.Message)
	}

	blocks := strings.Repeat("do ", 30) + strings.Repeat("end ", 30)
	err = mustFail(t, blocks, WithMaxDepth(10))
	if !strings.HasPrefix(err.Message, "chunk has too many syntax levels") {
		t.Errorf("message = %q", err.Message)
	}
}

func TestParseReaders(t *testing.T) {
	src := "local x = 1\nreturn x\n"
	want := "(chunk (block (local (x) (1)) (return x)))"

	chunk, err := ParseReader(iotest.OneByteReader(strings.NewReader(src)))
	if err != nil {
		t.Fatal(err)
	}
	if got := Dump(chunk); got != want {
		t.Errorf("ParseReader: got %s, want %s", got, want)
	}

	chunk, err = ParseRuneReader(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if got := Dump(chunk); got != want {
		t.Errorf("ParseRuneReader: got %s, want %s", got, want)
	}
}

func TestParseReaderError(t *testing.T) {
	_, err := ParseReader(iotest.ErrReader(errors.New("disk gone")))
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Errorf("got %v, want wrapped read error", err)
	}
}

func TestChunkName(t *testing.T) {
	chunk := mustParse(t, "", WithFile("main.lua"))
	if chunk.Name != "main.lua" {
		t.Errorf("name = %q, want main.lua", chunk.Name)
	}
	chunk = mustParse(t, "")
	if chunk.Name != "<input>" {
		t.Errorf("name = %q, want <input>", chunk.Name)
	}
}

func TestParsersAreIndependent(t *testing.T) {
	done := make(chan string, 4)
	for i := 0; i < 4; i++ {
		go func() {
			chunk, err := ParseString("local a = 1 + 2 * 3")
			if err != nil {
				done <- err.Error()
				return
			}
			done <- Dump(chunk)
		}()
	}
	for i := 0; i < 4; i++ {
		if got := <-done; got != "(chunk (block (local (a) ((+ 1 (* 2 3))))))" {
			t.Errorf("concurrent parse: got %s", got)
		}
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"if x then", true},
		{"local t = {1, 2,", true},
		{"f(", true},
		{"x = * 2", false},
		{"end", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseString(tt.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := IsIncomplete(err); got != tt.want {
				t.Errorf("IsIncomplete(%v) = %v, want %v", err, got, tt.want)
			}
		})
	}
	if IsIncomplete(nil) {
		t.Error("IsIncomplete(nil) = true")
	}
}
