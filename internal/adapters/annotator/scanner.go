package annotator

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxLexErrors bounds how many recoverable lexer errors a file may produce.
// JSX text routinely trips the lexer, so a handful of errors is expected.
const maxLexErrors = 256

// statement is a static import, re-export or require call found in source.
type statement struct {
	specifier string
	// endLine is the zero based line the statement ends on.
	endLine int
	// comment is the text of the first comment trailing the statement on endLine, without delimiters.
	comment string
	// commentStart is the byte offset of the trailing comment, or -1 when there is none.
	commentStart int
	// commentEnd is the byte offset just past a trailing block comment.
	commentEnd int
	block      bool
}

type token struct {
	tt   js.TokenType
	data []byte
	// start is the byte offset of the token in the source.
	start int
}

// scanner walks the token stream of one source file.
type scanner struct {
	source     string
	lineStarts []int
	statements []statement

	// recent holds the last significant tokens, newest last.
	recent []token

	inImport bool
	inExport bool
	// open maps a line to statements on that line still waiting for a trailing comment.
	open map[int][]int
}

func scan(source string) ([]statement, error) {
	s := &scanner{
		source:     source,
		lineStarts: lineStarts(source),
		open:       make(map[int][]int),
	}

	input := parse.NewInputString(source)
	lexer := js.NewLexer(input)
	errCount := 0

	for {
		tt, data := lexer.Next()
		if (tt == js.DivToken || tt == js.DivEqToken) && !s.endsExpression() {
			tt, data = lexer.RegExp()
		}

		if tt == js.ErrorToken {
			if errors.Is(lexer.Err(), io.EOF) {
				break
			}
			errCount++
			if errCount > maxLexErrors {
				return nil, zerr.With(zerr.Wrap(domain.ErrAnnotateFailed, lexer.Err().Error()), "errors", errCount)
			}
			s.reset()
			continue
		}

		start := input.Offset() - len(data)
		s.handle(token{tt: tt, data: data, start: start})
	}

	return s.statements, nil
}

func (s *scanner) handle(tok token) {
	switch tok.tt {
	case js.WhitespaceToken:
		return
	case js.LineTerminatorToken, js.CommentLineTerminatorToken:
		s.closeLinesBefore(s.lineOf(tok.start + len(tok.data)))
		return
	case js.CommentToken:
		s.attachComment(tok)
		return
	}

	switch {
	case tok.tt == js.ImportToken:
		s.inImport = true
	case tok.tt == js.ExportToken:
		s.inExport = true
	case tok.tt == js.SemicolonToken:
		s.inImport, s.inExport = false, false
	case s.inExport && s.previousIs(js.ExportToken) && tok.tt != js.OpenBraceToken && tok.tt != js.MulToken:
		// export default, export const and friends never carry a source.
		s.inExport = false
	case s.inImport && s.previousIs(js.ImportToken) && (tok.tt == js.OpenParenToken || tok.tt == js.DotToken):
		// Dynamic import or import.meta.
		s.inImport = false
	case tok.tt == js.StringToken && (s.inImport || s.inExport):
		if s.previousIs(js.ImportToken) || s.previousIs(js.FromToken) {
			s.record(unquote(tok.data), tok)
			s.inImport, s.inExport = false, false
		}
	case tok.tt == js.CloseParenToken:
		s.matchRequire(tok)
	}

	s.push(tok)
}

// matchRequire recognizes require("x") with exactly one literal argument.
func (s *scanner) matchRequire(closeParen token) {
	n := len(s.recent)
	if n < 3 {
		return
	}
	callee, open, arg := s.recent[n-3], s.recent[n-2], s.recent[n-1]
	if callee.tt != js.IdentifierToken || string(callee.data) != "require" || open.tt != js.OpenParenToken {
		return
	}
	if n >= 4 {
		if before := s.recent[n-4]; before.tt == js.DotToken || before.tt == js.OptChainToken {
			return
		}
	}

	switch arg.tt {
	case js.StringToken:
		s.record(unquote(arg.data), closeParen)
	case js.TemplateToken:
		s.record(string(arg.data[1:len(arg.data)-1]), closeParen)
	}
}

func (s *scanner) record(specifier string, end token) {
	if specifier == "" || strings.Contains(specifier, "\n") ||
		strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		return
	}
	line := s.lineOf(end.start + len(end.data) - 1)
	s.statements = append(s.statements, statement{
		specifier:    specifier,
		endLine:      line,
		commentStart: -1,
	})
	s.open[line] = append(s.open[line], len(s.statements)-1)
}

func (s *scanner) attachComment(tok token) {
	text := string(tok.data)
	block := strings.HasPrefix(text, "/*")
	switch {
	case block && strings.HasSuffix(text, "*/") && len(text) >= 4 && !strings.Contains(text, "\n"):
		text = text[2 : len(text)-2]
	case strings.HasPrefix(text, "//"):
		text, block = text[2:], false
	default:
		return
	}

	line := s.lineOf(tok.start)
	for _, idx := range s.open[line] {
		st := &s.statements[idx]
		if st.commentStart < 0 {
			st.comment = strings.TrimSpace(text)
			st.commentStart = tok.start
			st.commentEnd = tok.start + len(tok.data)
			st.block = block
		}
	}
	delete(s.open, line)
}

func (s *scanner) closeLinesBefore(line int) {
	for l := range s.open {
		if l < line {
			delete(s.open, l)
		}
	}
}

func (s *scanner) push(tok token) {
	const keep = 4
	if len(s.recent) == keep {
		copy(s.recent, s.recent[1:])
		s.recent = s.recent[:keep-1]
	}
	s.recent = append(s.recent, tok)
}

func (s *scanner) reset() {
	s.recent = s.recent[:0]
	s.inImport, s.inExport = false, false
}

func (s *scanner) previousIs(tt js.TokenType) bool {
	return len(s.recent) > 0 && s.recent[len(s.recent)-1].tt == tt
}

// endsExpression reports whether a slash after the previous token is a division.
func (s *scanner) endsExpression() bool {
	if len(s.recent) == 0 {
		return false
	}
	prev := s.recent[len(s.recent)-1].tt
	if js.IsIdentifier(prev) || js.IsNumeric(prev) {
		return true
	}
	switch prev {
	case js.StringToken, js.TemplateToken, js.TemplateEndToken, js.RegExpToken,
		js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken,
		js.ThisToken, js.SuperToken, js.TrueToken, js.FalseToken, js.NullToken,
		js.IncrToken, js.DecrToken:
		return true
	}
	return false
}

func (s *scanner) lineOf(offset int) int {
	return sort.SearchInts(s.lineStarts, offset+1) - 1
}

func lineStarts(source string) []int {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func unquote(data []byte) string {
	if len(data) < 2 {
		return ""
	}
	inner := string(data[1 : len(data)-1])
	if !strings.Contains(inner, `\`) {
		return inner
	}
	return strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\\`, `\`).Replace(inner)
}
