package dispatch

import (
	"dummymodule/internal/flagmap"
	"dummymodule/internal/input"
)

// Recognised flag names.
const (
	FlagFail      = "fail"
	FlagEvaluate  = "evaluate"
	FlagInput     = input.Flag
	FlagOutputDir = "output_dir"
	FlagName      = "name"
	FlagOutput    = "output"
	FlagOK        = "ok"
)

// DefaultOutputDir is used when --output_dir is not supplied with a value.
const DefaultOutputDir = "."

// Request is the typed view of the flags the pipeline acts on. Each field
// keeps the flag's tri-state; flags outside this set stay in Flags.
type Request struct {
	Fail      flagmap.Value
	Evaluate  flagmap.Value
	Input     flagmap.Value
	OutputDir flagmap.Value
	Name      flagmap.Value
	Output    flagmap.Value
	OK        flagmap.Value

	// Flags is the full map, used for cli.txt and --input references.
	Flags *flagmap.Map
}

// NewRequest builds a Request from a parsed flag map.
func NewRequest(flags *flagmap.Map) Request {
	if flags == nil {
		flags = flagmap.New()
	}
	return Request{
		Fail:      flags.Lookup(FlagFail),
		Evaluate:  flags.Lookup(FlagEvaluate),
		Input:     flags.Lookup(FlagInput),
		OutputDir: flags.Lookup(FlagOutputDir),
		Name:      flags.Lookup(FlagName),
		Output:    flags.Lookup(FlagOutput),
		OK:        flags.Lookup(FlagOK),
		Flags:     flags,
	}
}

// Dir returns the output directory. A bare --output_dir counts as not
// supplied.
func (r Request) Dir() string {
	return r.OutputDir.Or(DefaultOutputDir)
}
