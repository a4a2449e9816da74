// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package naming

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonIdentASCII    = regexp.MustCompile(`[^A-Za-z_0-9]`)
	repeatedUnder    = regexp.MustCompile(`__+`)
	lowerUpper       = regexp.MustCompile(`([a-z])([A-Z])`)
	underscoreLetter = regexp.MustCompile(`_([a-zA-Z])`)
)

// RawID turns an arbitrary label into a valid script identifier without
// changing its case. Invalid characters become underscores, runs of
// underscores collapse, trailing underscores are dropped and reserved
// words get a trailing underscore.
func RawID(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	if isASCII(s) {
		s = nonIdentASCII.ReplaceAllString(s, "_")
		if s != "" && s[0] >= '0' && s[0] <= '9' {
			s = "_" + s
		}
	} else {
		var b strings.Builder
		for _, r := range s {
			if isIdentContinue(r) {
				b.WriteRune(r)
			} else {
				b.WriteByte('_')
			}
		}
		s = b.String()
		if first := []rune(s); len(first) > 0 && !isIdentStart(first[0]) {
			s = "_" + s
		}
	}

	s = repeatedUnder.ReplaceAllString(s, "_")
	s = strings.TrimRight(s, "_")
	if s == "" {
		return "_"
	}
	if IsKeyword(s) {
		s += "_"
	}
	return s
}

// ToSnake splits camelCase humps with underscores and lowercases.
func ToSnake(id string) string {
	return strings.ToLower(lowerUpper.ReplaceAllString(id, "${1}_${2}"))
}

// ToCamel capitalizes the identifier and folds `_x` into `X`. An all
// uppercase identifier is lowercased first, so "VAE" becomes "Vae".
func ToCamel(id string) string {
	if id == "" {
		return id
	}
	if isUpper(id) {
		id = strings.ToLower(id)
	}
	runes := []rune(id)
	runes[0] = unicode.ToUpper(runes[0])
	id = string(runes)
	return underscoreLetter.ReplaceAllStringFunc(id, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// VarID derives a snake_case variable identifier from a label.
func VarID(label string) string {
	return ToSnake(RawID(label))
}

// ClassID derives a CamelCase callable identifier from an operation type.
func ClassID(opType string) string {
	return ToCamel(RawID(opType))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// isUpper reports whether s has at least one cased letter and no
// lowercase or titlecase ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc) ||
		unicode.Is(unicode.Other_ID_Continue, r)
}
