package expr

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"dummymodule/internal/fault"
)

// Reasons reported by the guards. They are stable and appear on stderr.
const (
	ReasonType          = "expression must be a string"
	ReasonLength        = "invalid length"
	ReasonCharacters    = "illegal characters"
	ReasonStructure     = "invalid structure"
	ReasonTerms         = "too many additive terms"
	ReasonFactors       = "too many multiplicative factors"
	ReasonEmptyFactor   = "empty factor"
	ReasonNonDigit      = "non-digit in number"
	ReasonLiteralLength = "number literal too long"
	ReasonInputValue    = "invalid input value"
)

// Factor is the run of tokens between two '*' (or term boundaries).
// A well-formed factor holds exactly one operand.
type Factor []Token

// Term is an additive term: the factors between two '+'.
type Term []Factor

// CheckType rejects an expression that is not a string. A flag given without
// an argument arrives here as nil.
func CheckType(expr *string) (string, error) {
	if expr == nil {
		return "", fault.TypeError(ReasonType)
	}
	return *expr, nil
}

// CheckLength requires 1..maxLen characters.
func CheckLength(expr string, maxLen int) error {
	n := utf8.RuneCountInString(expr)
	if n == 0 || n > maxLen {
		return fault.ValueError(ReasonLength, fmt.Sprintf("%d characters, limit %d", n, maxLen))
	}
	return nil
}

// CheckCharset allows ASCII digits, '+', '*', whitespace and the letters of
// "input".
func CheckCharset(expr string) error {
	for pos, r := range expr {
		if isASCIIDigit(r) || r == '+' || r == '*' || unicode.IsSpace(r) || isKeywordLetter(r) {
			continue
		}
		return fault.ValueError(ReasonCharacters, fmt.Sprintf("%q at offset %d", r, pos))
	}
	return nil
}

func isKeywordLetter(r rune) bool {
	switch r {
	case 'i', 'n', 'p', 'u', 't':
		return true
	}
	return false
}

// CheckStructure requires operand (operator operand)* with nothing left over.
func CheckStructure(tokens []Token) error {
	if len(tokens) == 0 {
		return structureError(0, "no operands")
	}
	for i, tok := range tokens {
		wantOperand := i%2 == 0
		if wantOperand != tok.IsOperand() {
			if wantOperand {
				return structureError(tok.Pos, fmt.Sprintf("expected operand, found %s", tok.Kind))
			}
			return structureError(tok.Pos, fmt.Sprintf("expected operator, found %s", tok.Kind))
		}
	}
	if last := tokens[len(tokens)-1]; !last.IsOperand() {
		return structureError(last.Pos, fmt.Sprintf("dangling %s", last.Kind))
	}
	return nil
}

func structureError(pos int, detail string) error {
	return fault.ValueError(ReasonStructure, fmt.Sprintf("offset %d: %s", pos, detail))
}

// Split groups tokens into additive terms and multiplicative factors. Empty
// groups are kept so CheckFactors can report them.
func Split(tokens []Token) []Term {
	terms := []Term{}
	term := Term{}
	factor := Factor{}
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenPlus:
			term = append(term, factor)
			terms = append(terms, term)
			term, factor = Term{}, Factor{}
		case TokenStar:
			term = append(term, factor)
			factor = Factor{}
		default:
			factor = append(factor, tok)
		}
	}
	term = append(term, factor)
	return append(terms, term)
}

// CheckTermCount caps the number of additive terms.
func CheckTermCount(terms []Term, maxTerms int) error {
	if len(terms) > maxTerms {
		return fault.ValueError(ReasonTerms, fmt.Sprintf("%d terms, limit %d", len(terms), maxTerms))
	}
	return nil
}

// CheckFactors caps the factors per term and rejects empty factors.
func CheckFactors(terms []Term, maxFactors int) error {
	for ti, term := range terms {
		if len(term) == 0 {
			return fault.ValueError(ReasonEmptyFactor, fmt.Sprintf("term %d", ti+1))
		}
		for _, f := range term {
			if len(f) != 1 {
				return fault.ValueError(ReasonEmptyFactor, fmt.Sprintf("term %d", ti+1))
			}
		}
		if len(term) > maxFactors {
			return fault.ValueError(ReasonFactors, fmt.Sprintf("term %d has %d factors, limit %d", ti+1, len(term), maxFactors))
		}
	}
	return nil
}

// CheckLiterals requires every number to be ASCII digits of at most maxDigits.
// Leading zeros count towards the limit but not the magnitude.
func CheckLiterals(terms []Term, maxDigits int) error {
	for _, term := range terms {
		for _, f := range term {
			for _, tok := range f {
				switch tok.Kind {
				case TokenInput:
					continue
				case TokenNumber:
					if err := checkDigits(tok.Text, maxDigits, ReasonNonDigit, ReasonLiteralLength); err != nil {
						return err
					}
				default:
					return structureError(tok.Pos, fmt.Sprintf("operator %s inside factor", tok.Kind))
				}
			}
		}
	}
	return nil
}

// CheckInputValue applies the literal rules to the value substituted for
// "input".
func CheckInputValue(value string, maxDigits int) error {
	return checkDigits(value, maxDigits, ReasonInputValue, ReasonInputValue)
}

func checkDigits(s string, maxDigits int, nonDigit, tooLong string) error {
	if s == "" {
		return fault.ValueError(nonDigit, "empty literal")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fault.ValueError(nonDigit, fmt.Sprintf("%q", s))
		}
	}
	if len(s) > maxDigits {
		return fault.ValueError(tooLong, fmt.Sprintf("%d digits, limit %d", len(s), maxDigits))
	}
	return nil
}
