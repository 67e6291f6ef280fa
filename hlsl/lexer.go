// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Lexer tokenizes preprocessed HLSL source code.
//
// The input is expected to have gone through the C preprocessor already.
// Only the residue the preprocessor leaves behind is understood: #line
// markers, #pragma lines and #if 0 blocks.
type Lexer struct {
	source    string
	filename  string
	pos       int
	line      int
	lineStart int
	start     int

	trie     *tokenTrie
	tokens   []Token
	messages *CompilerMessages
}

// Lex tokenizes source. On failure the error is recorded in messages and
// false is returned.
func Lex(source, filename string, messages *CompilerMessages) ([]Token, bool) {
	return NewLexer(source, filename, messages).Tokenize()
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source, filename string, messages *CompilerMessages) *Lexer {
	// Estimate ~1 token per 5 characters of source.
	estTokens := len(source) / 5
	if estTokens < 16 {
		estTokens = 16
	}
	if messages == nil {
		messages = &CompilerMessages{}
	}
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		trie:     keywordTrie(),
		tokens:   make([]Token, 0, estTokens),
		messages: messages,
	}
}

// Tokenize returns all tokens from the source followed by a TokenEOF.
func (l *Lexer) Tokenize() ([]Token, bool) {
	for !l.isAtEnd() {
		l.start = l.pos
		if !l.scanToken() {
			return nil, false
		}
	}

	l.start = l.pos
	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Pos: l.position()})
	return l.tokens, true
}

func (l *Lexer) scanToken() bool {
	c := l.peek()
	switch {
	case c == '\n':
		l.pos++
		l.newLine()
	case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
		l.pos++
	case c == '/' && l.peekAt(1) == '/':
		for !l.isAtEnd() && l.peek() != '\n' {
			l.pos++
		}
	case c == '/' && l.peekAt(1) == '*':
		return l.blockComment()
	case c == '#' && l.atLineStart():
		return l.directive()
	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		return l.number()
	case isIdentifierStart(c):
		l.identifier()
	case c == '"':
		return l.stringLiteral()
	default:
		kind, n, ok := l.trie.match(l.source[l.pos:], false)
		if !ok {
			l.messages.SourceError(l.position(), fmt.Sprintf("Unknown token '%c'", c))
			return false
		}
		l.pos += n
		l.addToken(kind)
	}
	return true
}

func (l *Lexer) blockComment() bool {
	startPos := l.position()
	l.pos += 2
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.pos += 2
			return true
		}
		l.pos++
		if l.source[l.pos-1] == '\n' {
			l.newLine()
		}
	}
	l.messages.SourceError(startPos, "Unterminated comment")
	return false
}

// directive handles a preprocessor line starting at the current '#'.
func (l *Lexer) directive() bool {
	dirPos := l.position()
	end := strings.IndexByte(l.source[l.pos:], '\n')
	if end < 0 {
		end = len(l.source)
	} else {
		end += l.pos
	}
	raw := strings.TrimRight(l.source[l.pos:end], "\r \t")
	body := strings.TrimSpace(raw[1:])
	name, rest, _ := strings.Cut(body, " ")
	rest = strings.TrimSpace(rest)

	switch {
	case name == "line" || (name != "" && isDigit(name[0])):
		if name != "line" {
			rest = body
		}
		l.skipToLineEnd(end)
		l.lineDirective(dirPos, rest)
	case name == "pragma":
		l.pos = end
		l.addTokenText(TokenPragma, raw, dirPos)
	case name == "if" && rest == "0":
		return l.skipDisabledBlock(dirPos)
	default:
		l.messages.SourceWarning(dirPos, fmt.Sprintf("Unhandled preprocessor directive '#%s'", name))
		l.pos = end
	}
	return true
}

// lineDirective applies `#line N "file"`. The line after the directive
// becomes line N.
func (l *Lexer) lineDirective(pos Position, args string) {
	numText, fileText, _ := strings.Cut(args, " ")
	n, err := strconv.Atoi(numText)
	if err != nil || n < 0 {
		l.messages.SourceWarning(pos, "Malformed #line directive")
		l.line++
		return
	}
	fileText = strings.TrimSpace(fileText)
	if len(fileText) >= 2 && fileText[0] == '"' && fileText[len(fileText)-1] == '"' {
		l.filename = fileText[1 : len(fileText)-1]
	}
	l.line = n
}

// skipToLineEnd moves past the directive line without counting it.
func (l *Lexer) skipToLineEnd(end int) {
	l.pos = end
	if !l.isAtEnd() {
		l.pos++
		l.lineStart = l.pos
	}
}

// skipDisabledBlock skips an #if 0 block including nested conditionals.
func (l *Lexer) skipDisabledBlock(pos Position) bool {
	depth := 0
	for !l.isAtEnd() {
		lineEnd := strings.IndexByte(l.source[l.pos:], '\n')
		if lineEnd < 0 {
			lineEnd = len(l.source)
		} else {
			lineEnd += l.pos
		}
		text := strings.TrimSpace(l.source[l.pos:lineEnd])
		if strings.HasPrefix(text, "#") {
			word, _, _ := strings.Cut(strings.TrimSpace(text[1:]), " ")
			switch word {
			case "if", "ifdef", "ifndef":
				depth++
			case "endif":
				depth--
			}
		}
		l.pos = lineEnd
		if !l.isAtEnd() {
			l.pos++
			l.newLine()
		}
		if depth == 0 {
			return true
		}
	}
	l.messages.SourceWarning(pos, "Unterminated '#if 0' block")
	return true
}

// number scans an integer or floating point literal. A '.' followed by a
// swizzle letter ends the number so that 1.xx lexes as 1 . xx.
func (l *Lexer) number() bool {
	src := l.source
	i := l.pos

	if src[i] == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		i += 2
		digitsStart := i
		for i < len(src) && isHexDigit(src[i]) {
			i++
		}
		digits := src[digitsStart:i]
		if i < len(src) && (src[i] == 'u' || src[i] == 'U') {
			i++
		}
		if digits == "" {
			return l.numberError(i)
		}
		value, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return l.numberError(i)
		}
		return l.finishNumber(i, TokenUintConstant, uint32(value), 0)
	}

	isFloat := false
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' && !(i+1 < len(src) && isSwizzle(src[i+1])) {
		isFloat = true
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			isFloat = true
			i = j
		}
	}
	digitsEnd := i

	if i < len(src) && (src[i] == 'f' || src[i] == 'F' || src[i] == 'h' || src[i] == 'H') {
		isFloat = true
		i++
	} else if !isFloat && i < len(src) && (src[i] == 'u' || src[i] == 'U') {
		i++
	}

	text := src[l.pos:digitsEnd]
	if isFloat {
		value, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return l.numberError(i)
		}
		return l.finishNumber(i, TokenFloatConstant, 0, float32(value))
	}

	base := 10
	if len(text) > 1 && text[0] == '0' {
		base = 8
	}
	value, err := strconv.ParseUint(text, base, 32)
	if err != nil {
		return l.numberError(i)
	}
	return l.finishNumber(i, TokenUintConstant, uint32(value), 0)
}

func (l *Lexer) finishNumber(end int, kind TokenKind, u uint32, f float32) bool {
	if end < len(l.source) && isIdentifierChar(l.source[end]) {
		return l.numberError(end + 1)
	}
	l.pos = end
	l.addToken(kind)
	tok := &l.tokens[len(l.tokens)-1]
	tok.UintValue = u
	tok.FloatValue = f
	if kind == TokenUintConstant {
		tok.FloatValue = float32(u)
	}
	return true
}

func (l *Lexer) numberError(end int) bool {
	l.messages.SourceError(l.position(), fmt.Sprintf("Invalid numeric literal '%s'", l.source[l.pos:end]))
	return false
}

func (l *Lexer) identifier() {
	end := l.pos
	for end < len(l.source) && isIdentifierChar(l.source[end]) {
		end++
	}
	text := l.source[l.pos:end]

	switch text {
	case "true", "false":
		l.pos = end
		l.addToken(TokenBoolConstant)
		l.tokens[len(l.tokens)-1].BoolValue = text == "true"
		return
	}

	kind, n, ok := l.trie.match(l.source[l.pos:], true)
	l.pos = end
	if ok && n == len(text) {
		l.addToken(kind)
		return
	}
	l.addToken(TokenIdentifier)
}

func (l *Lexer) stringLiteral() bool {
	startPos := l.position()
	i := l.pos + 1
	for i < len(l.source) {
		switch l.source[i] {
		case '\\':
			i += 2
			continue
		case '\n':
			i = len(l.source)
			continue
		case '"':
			l.pos = i + 1
			l.addTokenText(TokenStringConstant, l.source[l.start+1:i], startPos)
			return true
		}
		i++
	}
	l.messages.SourceError(startPos, "Unterminated string literal")
	return false
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Pos:    l.positionAt(l.start),
	})
}

func (l *Lexer) addTokenText(kind TokenKind, text string, pos Position) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: text,
		Pos:    pos,
	})
}

func (l *Lexer) newLine() {
	l.line++
	l.lineStart = l.pos
}

// atLineStart reports whether only blanks precede the cursor on this line.
func (l *Lexer) atLineStart() bool {
	for i := l.pos - 1; i >= l.lineStart; i-- {
		if c := l.source[i]; c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}

func (l *Lexer) position() Position {
	return l.positionAt(l.pos)
}

func (l *Lexer) positionAt(offset int) Position {
	return Position{File: l.filename, Line: l.line, Column: offset - l.lineStart + 1}
}

func (l *Lexer) peek() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.source) {
		return 0
	}
	return l.source[l.pos+n]
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentifierStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentifierChar(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}

func isSwizzle(c byte) bool {
	switch c {
	case 'r', 'g', 'b', 'a', 'x', 'y', 'z', 'w':
		return true
	}
	return false
}
