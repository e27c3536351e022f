// Package test provides random input generators for the ops package's
// lexer benchmarks.
package test

import (
	"fmt"
	"math/rand"
	"strings"
)

// validTokens is a semicolon-separated pool of lexically valid ops tokens:
// identifiers, literals, keywords, operators and delimiters.
const validTokens = "x;y;z;count;total;if;else;while;read;print;" +
	"+;-;*;/;<;>;=;<=;>=;==;<>;(;);{;};;;123;321;0;3.14;2.5;1000000"

// GetRandomTokens returns size whitespace-separated tokens drawn from the
// ops lexical token pool, used to benchmark the lexer on lexically valid
// but not necessarily syntactically valid input.
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

// GetRandomTokensWithSep is GetRandomTokens with a caller-chosen separator.
func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// GetRandomProgram returns a syntactically valid ops program of roughly
// size statements: a mix of assignments, prints, reads and an if wrapping
// a few of the statements, so the lexer benchmarks see control-flow
// syntax as well as straight-line code. It never emits a while loop.
func GetRandomProgram(size int) string {
	names := []string{"a", "b", "c", "x", "y", "total", "count"}
	randomName := func() string { return names[rand.Intn(len(names))] }

	var b strings.Builder
	for i := 0; i < size; i++ {
		switch rand.Intn(4) {
		case 0:
			fmt.Fprintf(&b, "%s = %d + %s;\n", randomName(), rand.Intn(1000), randomName())
		case 1:
			fmt.Fprintf(&b, "print(%s);\n", randomName())
		case 2:
			fmt.Fprintf(&b, "read(%s);\n", randomName())
		case 3:
			fmt.Fprintf(&b, "if (%s < %d) { %s = %s + 1; };\n", randomName(), rand.Intn(100), randomName(), randomName())
		}
	}
	return b.String()
}
