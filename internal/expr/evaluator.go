// Package expr evaluates the harness's guarded arithmetic grammar:
//
//	expression := term ('+' term)*
//	term       := factor ('*' factor)*
//	factor     := digits | "input"
//
// Expressions come from untrusted flags, so evaluation runs a fixed chain of
// guards (type, length, charset, structure, term count, factor count, literal
// size, input value) and stops at the first violation. Arithmetic is done in
// math/big and cannot overflow.
package expr

import (
	"math/big"

	"go.uber.org/zap"
)

// Limits bounds the size of an accepted expression.
type Limits struct {
	MaxLen             int // total characters
	MaxTerms           int // additive terms
	MaxFactors         int // factors per additive term
	MaxDigitsPerNumber int // digits per literal, including leading zeros
}

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxLen:             512,
		MaxTerms:           128,
		MaxFactors:         128,
		MaxDigitsPerNumber: 6,
	}
}

// Evaluator validates and evaluates expressions under fixed limits.
type Evaluator struct {
	limits Limits
	logger *zap.Logger
}

// New creates an Evaluator. A nil logger is replaced by a no-op logger.
func New(limits Limits, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{limits: limits, logger: logger}
}

// Limits returns the evaluator's limits.
func (e *Evaluator) Limits() Limits {
	return e.limits
}

// Evaluate runs every guard over expr and returns its value. input is the
// value substituted for each "input" factor; it is validated only when the
// expression uses it.
func (e *Evaluator) Evaluate(expr *string, input string) (*big.Int, error) {
	s, err := CheckType(expr)
	if err != nil {
		return nil, err
	}
	terms, err := e.Parse(s)
	if err != nil {
		e.logger.Debug("expression rejected", zap.String("expr", s), zap.Error(err))
		return nil, err
	}
	total, err := e.fold(terms, input)
	if err != nil {
		e.logger.Debug("input substitution rejected", zap.String("input", input), zap.Error(err))
		return nil, err
	}
	e.logger.Debug("expression evaluated",
		zap.String("expr", s),
		zap.Int("terms", len(terms)),
		zap.String("result", total.String()),
	)
	return total, nil
}

// EvaluateString is Evaluate for a plain string.
func (e *Evaluator) EvaluateString(expr, input string) (*big.Int, error) {
	return e.Evaluate(&expr, input)
}

// Parse runs the string-level and token-level guards and returns the
// expression grouped into terms and factors.
func (e *Evaluator) Parse(expr string) ([]Term, error) {
	if err := CheckLength(expr, e.limits.MaxLen); err != nil {
		return nil, err
	}
	if err := CheckCharset(expr); err != nil {
		return nil, err
	}
	tokens, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}
	if err := CheckStructure(tokens); err != nil {
		return nil, err
	}
	terms := Split(tokens)
	if err := CheckTermCount(terms, e.limits.MaxTerms); err != nil {
		return nil, err
	}
	if err := CheckFactors(terms, e.limits.MaxFactors); err != nil {
		return nil, err
	}
	if err := CheckLiterals(terms, e.limits.MaxDigitsPerNumber); err != nil {
		return nil, err
	}
	return terms, nil
}

// fold multiplies the factors of each term (seed 1) and sums the products
// (seed 0).
func (e *Evaluator) fold(terms []Term, input string) (*big.Int, error) {
	var inputValue *big.Int
	total := new(big.Int)
	for _, term := range terms {
		prod := big.NewInt(1)
		for _, f := range term {
			tok := f[0]
			var v *big.Int
			if tok.Kind == TokenInput {
				if inputValue == nil {
					if err := CheckInputValue(input, e.limits.MaxDigitsPerNumber); err != nil {
						return nil, err
					}
					inputValue, _ = new(big.Int).SetString(input, 10)
				}
				v = inputValue
			} else {
				v, _ = new(big.Int).SetString(tok.Text, 10)
			}
			prod.Mul(prod, v)
		}
		total.Add(total, prod)
	}
	return total, nil
}

// Evaluate evaluates expr with DefaultLimits.
func Evaluate(expr, input string) (*big.Int, error) {
	return New(DefaultLimits(), nil).EvaluateString(expr, input)
}
