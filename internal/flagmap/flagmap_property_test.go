package flagmap

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Every supplied name appears exactly once, in order of first appearance, and
// carries the value of its last occurrence.
func TestProperty_LastOccurrenceWinsFirstPositionKept(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	names := gen.OneConstOf("a", "b", "c", "evaluate", "output")
	values := gen.OneConstOf("", "1", "x y", "-5")

	properties.Property("parse matches a naive reference model", prop.ForAll(
		func(picks []string, vals []string) bool {
			var argv []string
			type want struct {
				value Value
			}
			order := []string{}
			model := map[string]want{}
			for i, name := range picks {
				argv = append(argv, Prefix+name)
				v := Bare()
				// Alternate bare and valued occurrences.
				if i%2 == 0 && i < len(vals) {
					argv = append(argv, vals[i])
					v = Of(vals[i])
				}
				if _, seen := model[name]; !seen {
					order = append(order, name)
				}
				model[name] = want{value: v}
			}

			m := Parse(argv)
			if m.Len() != len(order) {
				t.Logf("len %d, want %d", m.Len(), len(order))
				return false
			}
			for i, e := range m.Entries() {
				if e.Name != order[i] {
					t.Logf("entry %d is %q, want %q", i, e.Name, order[i])
					return false
				}
				if e.Value != model[e.Name].value {
					t.Logf("value of %q is %+v, want %+v", e.Name, e.Value, model[e.Name].value)
					return false
				}
			}
			return true
		},
		gen.SliceOf(names, reflect.TypeOf("")),
		gen.SliceOf(values, reflect.TypeOf("")),
	))

	properties.TestingRun(t)
}
