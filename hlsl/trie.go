// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"sync"
)

// trieNode is one character step of the keyword/operator table.
type trieNode struct {
	children map[byte]*trieNode
	kind     TokenKind
	terminal bool
}

// tokenTrie is the immutable lookup table shared by every lexer. It is built
// once on first use and never modified afterwards.
type tokenTrie struct {
	root trieNode
}

var (
	trieOnce   sync.Once
	sharedTrie *tokenTrie
)

// keywordTrie returns the shared token table.
func keywordTrie() *tokenTrie {
	trieOnce.Do(func() {
		sharedTrie = buildTokenTrie()
	})
	return sharedTrie
}

func buildTokenTrie() *tokenTrie {
	t := &tokenTrie{}
	for kind, spelling := range tokenSpellings {
		t.insert(spelling, kind)
	}
	for _, scalar := range basicTypeScalars {
		t.insert(scalar, TokenBasicType)
		for rows := 1; rows <= 4; rows++ {
			t.insert(fmt.Sprintf("%s%d", scalar, rows), TokenBasicType)
			for cols := 1; cols <= 4; cols++ {
				t.insert(fmt.Sprintf("%s%dx%d", scalar, rows, cols), TokenBasicType)
			}
		}
	}
	return t
}

func (t *tokenTrie) insert(text string, kind TokenKind) {
	n := &t.root
	for i := 0; i < len(text); i++ {
		c := text[i]
		if n.children == nil {
			n.children = make(map[byte]*trieNode)
		}
		next, ok := n.children[c]
		if !ok {
			next = &trieNode{}
			n.children[c] = next
		}
		n = next
	}
	if n.terminal && n.kind != kind {
		panic(fmt.Sprintf("hlsl: token %q registered twice", text))
	}
	n.terminal = true
	n.kind = kind
}

// match walks src one character at a time and returns the longest
// registered token that prefixes it. In greedy mode a match only counts when
// it ends at an identifier boundary, so a keyword never splits a longer
// identifier.
func (t *tokenTrie) match(src string, greedy bool) (TokenKind, int, bool) {
	var (
		bestKind TokenKind
		bestLen  int
		found    bool
	)
	n := &t.root
	for i := 0; i < len(src); i++ {
		next, ok := n.children[src[i]]
		if !ok {
			break
		}
		n = next
		if !n.terminal {
			continue
		}
		if greedy && i+1 < len(src) && isIdentifierChar(src[i+1]) {
			continue
		}
		bestKind, bestLen, found = n.kind, i+1, true
	}
	return bestKind, bestLen, found
}

// lookup returns the token registered for exactly text.
func (t *tokenTrie) lookup(text string) (TokenKind, bool) {
	kind, n, ok := t.match(text, true)
	if !ok || n != len(text) {
		return TokenEOF, false
	}
	return kind, true
}

// IsKeyword reports whether name is lexed as a keyword or a built-in type
// rather than an identifier.
func IsKeyword(name string) bool {
	switch name {
	case "true", "false":
		return true
	}
	_, ok := keywordTrie().lookup(name)
	return ok
}
