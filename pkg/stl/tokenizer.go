package stl

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// tokenizer splits its input into whitespace-separated tokens while keeping
// track of line numbers, so that headers can be read to end of line.
type tokenizer struct {
	sc     *bufio.Scanner
	line   int
	fields []string
	pos    int
	tok    string
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &tokenizer{sc: sc}
}

// next advances to the next token. At end of input it returns false and
// the current token becomes empty.
func (t *tokenizer) next() bool {
	for t.pos >= len(t.fields) {
		if !t.sc.Scan() {
			t.tok = ""
			return false
		}
		t.line++
		t.fields = strings.Fields(t.sc.Text())
		t.pos = 0
	}
	t.tok = t.fields[t.pos]
	t.pos++
	return true
}

// expecting advances and reports whether the new token equals word.
func (t *tokenizer) expecting(word string) bool {
	return t.next() && t.tok == word
}

// is reports whether the current token equals word.
func (t *tokenizer) is(word string) bool {
	return t.tok == word
}

// restOfLine consumes the remaining tokens on the current line up to, but
// not including, the first of stop, and returns them joined by single spaces.
func (t *tokenizer) restOfLine(stop ...string) string {
	end := t.pos
	for end < len(t.fields) && !slices.Contains(stop, t.fields[end]) {
		end++
	}
	s := strings.Join(t.fields[t.pos:end], " ")
	t.pos = end
	return s
}

// vec3 reads three floating point tokens.
func (t *tokenizer) vec3() ([3]float32, error) {
	var v [3]float32
	for i := range v {
		if !t.next() {
			return v, fmt.Errorf("expected number, got end of input")
		}
		f, err := strconv.ParseFloat(t.tok, 32)
		if err != nil {
			return v, fmt.Errorf("expected number, got %q", t.tok)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func (t *tokenizer) err() error {
	return t.sc.Err()
}
