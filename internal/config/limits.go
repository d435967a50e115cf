package config

import (
	"fmt"

	"dummymodule/internal/expr"
)

// LimitsConfig bounds the expressions accepted by --evaluate.
type LimitsConfig struct {
	MaxLen             int `yaml:"max_len" json:"max_len"`                             // Total characters
	MaxTerms           int `yaml:"max_terms" json:"max_terms"`                         // Additive terms
	MaxFactors         int `yaml:"max_factors" json:"max_factors"`                     // Factors per additive term
	MaxDigitsPerNumber int `yaml:"max_digits_per_number" json:"max_digits_per_number"` // Digits per literal
}

// ValidateLimits checks that every limit is positive.
func (c *Config) ValidateLimits() error {
	if c.Limits.MaxLen < 1 {
		return fmt.Errorf("max_len must be >= 1")
	}
	if c.Limits.MaxTerms < 1 {
		return fmt.Errorf("max_terms must be >= 1")
	}
	if c.Limits.MaxFactors < 1 {
		return fmt.Errorf("max_factors must be >= 1")
	}
	if c.Limits.MaxDigitsPerNumber < 1 {
		return fmt.Errorf("max_digits_per_number must be >= 1")
	}
	return nil
}

// EvaluatorLimits returns the limits in the evaluator's form.
func (c *Config) EvaluatorLimits() expr.Limits {
	return expr.Limits{
		MaxLen:             c.Limits.MaxLen,
		MaxTerms:           c.Limits.MaxTerms,
		MaxFactors:         c.Limits.MaxFactors,
		MaxDigitsPerNumber: c.Limits.MaxDigitsPerNumber,
	}
}
