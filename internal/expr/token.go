package expr

import (
	"fmt"
	"unicode"
)

// InputKeyword is the only identifier the grammar accepts.
const InputKeyword = "input"

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokenNumber TokenKind = iota // run of ASCII digits
	TokenInput                   // the literal "input"
	TokenPlus                    // '+'
	TokenStar                    // '*'
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenInput:
		return "input"
	case TokenPlus:
		return "'+'"
	case TokenStar:
		return "'*'"
	default:
		return "unknown"
	}
}

// Token is one lexical unit and its byte offset in the expression.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// IsOperand reports whether the token can stand as a factor.
func (t Token) IsOperand() bool {
	return t.Kind == TokenNumber || t.Kind == TokenInput
}

// Tokenize splits expr into tokens, dropping whitespace. A run of letters must
// spell exactly "input"; any other rune is a structural error.
func Tokenize(expr string) ([]Token, error) {
	var tokens []Token
	var runes []rune
	var offsets []int
	for pos, r := range expr {
		runes = append(runes, r)
		offsets = append(offsets, pos)
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+':
			tokens = append(tokens, Token{Kind: TokenPlus, Text: "+", Pos: offsets[i]})
			i++
		case r == '*':
			tokens = append(tokens, Token{Kind: TokenStar, Text: "*", Pos: offsets[i]})
			i++
		case isASCIIDigit(r):
			j := i
			for j < len(runes) && isASCIIDigit(runes[j]) {
				j++
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Text: string(runes[i:j]), Pos: offsets[i]})
			i = j
		case isASCIILetter(r):
			j := i
			for j < len(runes) && isASCIILetter(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if word != InputKeyword {
				return nil, structureError(offsets[i], fmt.Sprintf("unknown identifier %q", word))
			}
			tokens = append(tokens, Token{Kind: TokenInput, Text: word, Pos: offsets[i]})
			i = j
		default:
			return nil, structureError(offsets[i], fmt.Sprintf("unexpected %q", r))
		}
	}
	return tokens, nil
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
