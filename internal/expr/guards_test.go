package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dummymodule/internal/fault"
)

func TestTokenize(t *testing.T) {
	got, err := Tokenize(" 12 *input+ 007")
	require.NoError(t, err)

	want := []Token{
		{Kind: TokenNumber, Text: "12", Pos: 1},
		{Kind: TokenStar, Text: "*", Pos: 4},
		{Kind: TokenInput, Text: "input", Pos: 5},
		{Kind: TokenPlus, Text: "+", Pos: 10},
		{Kind: TokenNumber, Text: "007", Pos: 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_OffsetsAreBytes(t *testing.T) {
	// U+3000 IDEOGRAPHIC SPACE is three bytes wide.
	got, err := Tokenize("1　+2")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 4, got[1].Pos)
	assert.Equal(t, 5, got[2].Pos)
}

func TestTokenize_RejectsUnknownWords(t *testing.T) {
	for _, s := range []string{"inp", "inputs", "INPUT", "2#"} {
		_, err := Tokenize(s)
		assert.ErrorIs(t, err, &fault.Error{Kind: fault.KindValue, Reason: ReasonStructure}, s)
	}
}

func TestCheckType(t *testing.T) {
	s := "1+1"
	got, err := CheckType(&s)
	require.NoError(t, err)
	assert.Equal(t, "1+1", got)

	_, err = CheckType(nil)
	assert.Equal(t, fault.KindType, fault.KindOf(err))
}

func TestCheckLength(t *testing.T) {
	assert.Error(t, CheckLength("", 5))
	assert.NoError(t, CheckLength("12345", 5))
	assert.Error(t, CheckLength("123456", 5))
	// Counted in characters, not bytes.
	assert.NoError(t, CheckLength("1　　　+", 5))
}

func TestCheckCharset(t *testing.T) {
	assert.NoError(t, CheckCharset("0123456789 +*\t\ninput"))
	assert.NoError(t, CheckCharset("tupni"))
	assert.Error(t, CheckCharset("1.0"))
	assert.Error(t, CheckCharset("a"))
	assert.Error(t, CheckCharset("1,2"))
}

func TestCheckStructure(t *testing.T) {
	num := Token{Kind: TokenNumber, Text: "1"}
	in := Token{Kind: TokenInput, Text: InputKeyword}
	plus := Token{Kind: TokenPlus, Text: "+"}
	star := Token{Kind: TokenStar, Text: "*"}

	assert.NoError(t, CheckStructure([]Token{num}))
	assert.NoError(t, CheckStructure([]Token{in, star, num, plus, in}))

	assert.Error(t, CheckStructure(nil))
	assert.Error(t, CheckStructure([]Token{plus, num}))
	assert.Error(t, CheckStructure([]Token{num, plus}))
	assert.Error(t, CheckStructure([]Token{num, num}))
	assert.Error(t, CheckStructure([]Token{num, star, star, num}))
}

func TestSplit(t *testing.T) {
	tokens, err := Tokenize("1*2+3")
	require.NoError(t, err)

	terms := Split(tokens)
	require.Len(t, terms, 2)
	require.Len(t, terms[0], 2)
	require.Len(t, terms[1], 1)
	assert.Equal(t, "2", terms[0][1][0].Text)
	assert.Equal(t, "3", terms[1][0][0].Text)
}

func TestCheckFactors_ReportsEmptyFactors(t *testing.T) {
	// Split keeps empty groups even for token streams that skipped
	// CheckStructure, so the factor guard stands on its own.
	for _, s := range []string{"2**3", "+2", "2+", "2++3"} {
		tokens, err := Tokenize(s)
		require.NoError(t, err, s)
		err = CheckFactors(Split(tokens), 128)
		assert.ErrorIs(t, err, &fault.Error{Kind: fault.KindValue, Reason: ReasonEmptyFactor}, s)
	}
}

func TestCheckTermCount(t *testing.T) {
	terms := make([]Term, 3)
	assert.NoError(t, CheckTermCount(terms, 3))
	assert.Error(t, CheckTermCount(terms, 2))
}

func TestCheckLiterals(t *testing.T) {
	ok := []Term{{{Token{Kind: TokenNumber, Text: "000001"}}, {Token{Kind: TokenInput, Text: InputKeyword}}}}
	assert.NoError(t, CheckLiterals(ok, 6))

	long := []Term{{{Token{Kind: TokenNumber, Text: "0000001"}}}}
	assert.ErrorIs(t, CheckLiterals(long, 6), &fault.Error{Kind: fault.KindValue, Reason: ReasonLiteralLength})

	bad := []Term{{{Token{Kind: TokenNumber, Text: "1a"}}}}
	assert.ErrorIs(t, CheckLiterals(bad, 6), &fault.Error{Kind: fault.KindValue, Reason: ReasonNonDigit})
}

func TestCheckInputValue(t *testing.T) {
	assert.NoError(t, CheckInputValue("42", 6))
	assert.NoError(t, CheckInputValue("000000", 6))
	assert.Error(t, CheckInputValue("-42", 6))
	assert.Error(t, CheckInputValue("1000000", 6))
	assert.Error(t, CheckInputValue("", 6))
}
