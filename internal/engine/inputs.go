package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/unicode/norm"

	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// Inputs maps symbols to caller-supplied values. A nil value marks the
// symbol as absent, the same as leaving it out.
type Inputs map[symbol.Symbol]*float64

// Value returns a pointer to v, for building Inputs literals.
func Value(v float64) *float64 {
	return &v
}

// FromValues converts a dense value map into Inputs.
func FromValues(values Values) Inputs {
	in := make(Inputs, len(values))
	for s, v := range values {
		in[s] = Value(v)
	}
	return in
}

// Validate checks that every key is a non-empty symbol and every present
// value is finite. A nil Inputs is a valid empty mapping.
func (in Inputs) Validate() error {
	var merr *multierror.Error
	for _, s := range sortedKeys(in) {
		v := in[s]
		if strings.TrimSpace(string(s)) == "" {
			merr = multierror.Append(merr, &InvalidArgumentError{Reason: "empty symbol"})
			continue
		}
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			merr = multierror.Append(merr, &InvalidArgumentError{Symbol: s, Reason: fmt.Sprintf("value %v is not finite", *v)})
		}
	}
	return wrapEntries(merr)
}

// Present returns the symbols that carry a value.
func (in Inputs) Present() symbol.Set {
	set := symbol.NewSet()
	for s, v := range in {
		if v != nil {
			set.Add(s)
		}
	}
	return set
}

// Values returns the present entries as a dense map.
func (in Inputs) Values() Values {
	out := make(Values, len(in))
	for s, v := range in {
		if v != nil {
			out[s] = *v
		}
	}
	return out
}

// DecodeInputs converts a loosely typed document (decoded JSON, YAML or
// CUE) into Inputs. Keys are trimmed and NFC-normalized so that visually
// identical symbols compare equal. Null values are absent. Every malformed
// entry is reported, aggregated under one InvalidArgumentError.
func DecodeInputs(raw any) (Inputs, error) {
	switch m := raw.(type) {
	case nil:
		return Inputs{}, nil
	case Inputs:
		return m, m.Validate()
	case map[symbol.Symbol]float64:
		in := FromValues(m)
		return in, in.Validate()
	case map[string]float64:
		entries := make(map[string]any, len(m))
		for k, v := range m {
			entries[k] = v
		}
		return decodeEntries(entries)
	case map[string]any:
		return decodeEntries(m)
	case map[any]any:
		entries := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, &InvalidArgumentError{Reason: fmt.Sprintf("symbol key %v is %T, not a string", k, k)}
			}
			entries[ks] = v
		}
		return decodeEntries(entries)
	default:
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("expected a mapping of symbol to number, got %T", raw)}
	}
}

func decodeEntries(entries map[string]any) (Inputs, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	in := make(Inputs, len(entries))
	origin := make(map[symbol.Symbol]string, len(entries))
	var merr *multierror.Error
	for _, k := range keys {
		s := symbol.Symbol(norm.NFC.String(strings.TrimSpace(k)))
		if s == "" {
			merr = multierror.Append(merr, &InvalidArgumentError{Reason: fmt.Sprintf("empty symbol %q", k)})
			continue
		}
		if prev, dup := origin[s]; dup {
			merr = multierror.Append(merr, &InvalidArgumentError{Symbol: s, Reason: fmt.Sprintf("keys %q and %q name the same symbol", prev, k)})
			continue
		}
		origin[s] = k

		v, err := toFloat(entries[k])
		if err != nil {
			merr = multierror.Append(merr, &InvalidArgumentError{Symbol: s, Reason: err.Error()})
			continue
		}
		in[s] = v
	}
	if err := wrapEntries(merr); err != nil {
		return nil, err
	}
	return in, in.Validate()
}

func toFloat(raw any) (*float64, error) {
	var v float64
	switch n := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("value %q is not a number", n.String())
		}
		v = f
	case *float64:
		if n == nil {
			return nil, nil
		}
		v = *n
	default:
		return nil, fmt.Errorf("value %v is %T, not a number", raw, raw)
	}
	return &v, nil
}

func wrapEntries(merr *multierror.Error) error {
	if merr == nil {
		return nil
	}
	if len(merr.Errors) == 1 {
		return merr.Errors[0]
	}
	merr.ErrorFormat = listFormat
	return &InvalidArgumentError{Reason: fmt.Sprintf("%d malformed entries", len(merr.Errors)), Err: merr}
}

func listFormat(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

func sortedKeys(in Inputs) []symbol.Symbol {
	keys := make([]symbol.Symbol, 0, len(in))
	for s := range in {
		keys = append(keys, s)
	}
	return symbol.Sort(keys)
}
