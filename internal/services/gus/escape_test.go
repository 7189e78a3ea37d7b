package gus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeSOQL_SingleQuote(t *testing.T) {
	assert.Equal(t, "O''Brien", EscapeSOQL("O'Brien"))
}

func TestEscapeSOQL_NoQuotes(t *testing.T) {
	assert.Equal(t, "plain value", EscapeSOQL("plain value"))
}

func TestEscapeSOQL_MultipleQuotes(t *testing.T) {
	assert.Equal(t, "''a''''b''", EscapeSOQL("'a''b'"))
}

func TestEscapeSOSL_ReservedCharacters(t *testing.T) {
	assert.Equal(t, `C\+\+ \(beta\)`, EscapeSOSL("C++ (beta)"))
}

func TestEscapeSOSL_FullReservedSet(t *testing.T) {
	input := `?&|!{}[]()^~:\"'+-=`
	expected := `\?\&\|\!\{\}\[\]\(\)\^\~\:\\\"\'\+\-\=`
	assert.Equal(t, expected, EscapeSOSL(input))
}

func TestEscapeSOSL_WildcardUntouched(t *testing.T) {
	// Callers append * intentionally for prefix search; it must survive.
	assert.Equal(t, `term*`, EscapeSOSL("term*"))
	assert.Equal(t, `a\+b*`, EscapeSOSL("a+b*"))
}

func TestEscapeSOSL_PlainTextUnchanged(t *testing.T) {
	assert.Equal(t, "hello world 42", EscapeSOSL("hello world 42"))
}
