// Package input resolves the value of the grammar's "input" variable. A stage
// names another flag with --input; that flag's value is the path of a JSON
// artifact written by an upstream stage, and its "result" field becomes the
// input value.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"dummymodule/internal/fault"
	"dummymodule/internal/flagmap"
)

// Default is the input value when --input is not supplied.
const Default = "1"

// Flag is the flag naming the referenced flag.
const Flag = "input"

// ResultField is the field read from the upstream artifact.
const ResultField = "result"

// Reasons reported by the resolver.
const (
	ReasonFlagName     = "input flag requires the name of another flag"
	ReasonMissingFlag  = "required flag for referenced input not supplied"
	ReasonNotFound     = "file not found"
	ReasonUnreadable   = "cannot read file"
	ReasonInvalidJSON  = "invalid JSON"
	ReasonMissingField = "missing result field"
	ReasonNotInteger   = "result not an integer"
)

// Resolver reads upstream artifacts.
type Resolver struct {
	readFile func(string) ([]byte, error)
	logger   *zap.Logger
}

// NewResolver creates a Resolver reading from the local filesystem.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{readFile: os.ReadFile, logger: logger}
}

// Resolve returns the canonical decimal string to substitute for "input".
func (r *Resolver) Resolve(flags *flagmap.Map) (string, error) {
	ref := flags.Lookup(Flag)
	if !ref.Present() {
		return Default, nil
	}
	name, ok := ref.Get()
	if !ok {
		return "", fault.ConfigurationError(ReasonFlagName, "--"+Flag)
	}

	path, ok := flags.Lookup(name).Get()
	if !ok {
		return "", fault.ConfigurationError(ReasonMissingFlag, "--"+name)
	}

	value, err := r.ReadResult(path)
	if err != nil {
		return "", err
	}
	r.logger.Debug("input resolved",
		zap.String("flag", name),
		zap.String("path", path),
		zap.String("value", value),
	)
	return value, nil
}

// ReadResult reads the artifact at path and returns its result field as a
// canonical integer string.
func (r *Resolver) ReadResult(path string) (string, error) {
	data, err := r.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fault.InputError(ReasonNotFound, path, nil)
		}
		return "", fault.InputError(ReasonUnreadable, path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return "", fault.InputError(ReasonInvalidJSON, path, err)
	}
	if err := dec.Decode(new(interface{})); err != io.EOF {
		return "", fault.InputError(ReasonInvalidJSON, path, errors.New("trailing data after document"))
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		return "", fault.InputError(ReasonMissingField, path, nil)
	}
	raw, ok := obj[ResultField]
	if !ok {
		return "", fault.InputError(ReasonMissingField, path, nil)
	}

	n, err := ParseInteger(raw)
	if err != nil {
		return "", fault.InputError(ReasonNotInteger, fmt.Sprintf("%s: %s", path, describe(raw)), nil)
	}
	return n.String(), nil
}

// maxExponent bounds the decimal exponent of exponent-form numbers ("1e400")
// to the float64 range.
const maxExponent = 308

// ParseInteger converts a decoded JSON value to an integer. Integral numbers
// and strings holding a signed base-10 integer are accepted. Numbers are
// parsed exactly, so a fraction is never rounded away.
func ParseInteger(v interface{}) (*big.Int, error) {
	switch t := v.(type) {
	case json.Number:
		s := t.String()
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return n, nil
		}
		if err := checkExponent(s); err != nil {
			return nil, err
		}
		r, ok := new(big.Rat).SetString(s)
		if !ok || !r.IsInt() {
			return nil, fmt.Errorf("not integral: %s", s)
		}
		return new(big.Int).Set(r.Num()), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, errors.New("empty string")
		}
		digits, err := stripUnderscores(s)
		if err != nil {
			return nil, fmt.Errorf("not a base-10 integer: %q", t)
		}
		n, ok := new(big.Int).SetString(digits, 10)
		if !ok {
			return nil, fmt.Errorf("not a base-10 integer: %q", t)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported JSON type %T", v)
	}
}

// checkExponent rejects numbers whose exponent part is outside
// [-maxExponent, maxExponent].
func checkExponent(s string) error {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return nil
	}
	exp, err := strconv.Atoi(s[i+1:])
	if err != nil || exp > maxExponent || exp < -maxExponent {
		return fmt.Errorf("exponent out of range: %s", s)
	}
	return nil
}

// stripUnderscores removes digit-group separators ("1_000"). An underscore
// must sit between two digits.
func stripUnderscores(s string) (string, error) {
	if !strings.Contains(s, "_") {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			sb.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", errors.New("misplaced underscore")
		}
	}
	return sb.String(), nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func describe(v interface{}) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
