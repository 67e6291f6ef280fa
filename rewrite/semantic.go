// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"strconv"
	"strings"
)

const centroidSuffix = "_centroid"

// semanticSet answers whether a semantic was requested by the caller.
type semanticSet struct {
	used       map[string]struct{}
	exceptions []string
}

func newSemanticSet(used, exceptions []string) *semanticSet {
	s := &semanticSet{used: make(map[string]struct{}, len(used))}
	for _, u := range used {
		s.used[normalizeSemantic(u)] = struct{}{}
	}
	for _, e := range exceptions {
		if e != "" {
			s.exceptions = append(s.exceptions, strings.ToLower(e))
		}
	}
	return s
}

// contains reports whether semantic is used. Matching ignores case and a
// trailing "_centroid", and treats an index-less semantic as index 0
// (SV_Target is SV_Target0). A semantic containing any exception substring
// is always used.
func (s *semanticSet) contains(semantic string) bool {
	if _, ok := s.used[normalizeSemantic(semantic)]; ok {
		return true
	}
	lower := strings.ToLower(semantic)
	for _, e := range s.exceptions {
		if strings.Contains(lower, e) {
			return true
		}
	}
	return false
}

func normalizeSemantic(semantic string) string {
	s := strings.ToLower(semantic)
	s = strings.TrimSuffix(s, centroidSuffix)
	if _, _, hasIndex := splitSemantic(s); !hasIndex {
		s += "0"
	}
	return s
}

// splitSemantic separates the trailing index of a semantic: TEXCOORD3 is
// ("TEXCOORD", 3, true), COLOR is ("COLOR", 0, false).
func splitSemantic(semantic string) (prefix string, index int, hasIndex bool) {
	end := len(semantic)
	for end > 0 && semantic[end-1] >= '0' && semantic[end-1] <= '9' {
		end--
	}
	if end == len(semantic) {
		return semantic, 0, false
	}
	n, err := strconv.Atoi(semantic[end:])
	if err != nil {
		return semantic, 0, false
	}
	return semantic[:end], n, true
}

// arraySemantics returns the semantic of each element of an array
// annotated with semantic. Element i of COLOR is COLOR, COLOR1, ...;
// element i of TEXCOORD2 is TEXCOORD2, TEXCOORD3, .... It fails when no
// prefix can be derived.
func arraySemantics(semantic string, size int) ([]string, bool) {
	prefix, base, hasIndex := splitSemantic(semantic)
	if prefix == "" {
		return nil, false
	}
	out := make([]string, size)
	for i := range out {
		if i == 0 && !hasIndex {
			out[i] = semantic
			continue
		}
		out[i] = prefix + strconv.Itoa(base+i)
	}
	return out, true
}
