package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// LoadError represents an input document that could not be read.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadInputs reads an input document. The decoder follows the file
// extension: .yaml/.yml, .json or .cue. "-" reads YAML (or JSON) from stdin.
// The result is left loosely typed for engine.DecodeInputs to validate.
func LoadInputs(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("input file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case path == "-" || ext == ".yaml" || ext == ".yml":
		return decodeYAML(path, data)
	case ext == ".json":
		return decodeJSON(path, data)
	case ext == ".cue":
		return decodeCUE(path, data)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported input file type %q (want .yaml, .yml, .json or .cue)", ext)}
	}
}

func decodeYAML(path string, data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	return doc, nil
}

func decodeJSON(path string, data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	return doc, nil
}

// decodeCUE evaluates a CUE file. A top-level struct becomes a symbol
// mapping: numbers are read as float64, null as absent, anything else is
// passed through for the engine to reject.
func decodeCUE(path string, data []byte) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("building %s: %v", path, err)}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("validating %s: %v", path, err)}
	}
	if v.Kind() != cue.StructKind {
		return v.Kind().String(), nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("iterating %s: %v", path, err)}
	}
	doc := make(map[string]any)
	for iter.Next() {
		field := iter.Value()
		switch field.Kind() {
		case cue.NullKind:
			doc[iter.Label()] = nil
		case cue.IntKind, cue.FloatKind, cue.NumberKind:
			f, err := field.Float64()
			if err != nil {
				return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("%s: field %s: %v", path, iter.Label(), err)}
			}
			doc[iter.Label()] = f
		default:
			doc[iter.Label()] = field.Kind().String()
		}
	}
	return doc, nil
}

// ParseAssignments turns SYMBOL=VALUE arguments into a document. Values that
// are not numbers are kept as strings so the engine reports them together
// with any other malformed entry. "null" marks a symbol absent.
func ParseAssignments(args []string) (map[string]any, error) {
	doc := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected SYMBOL=VALUE, got %q", arg)
		}
		value = strings.TrimSpace(value)
		if value == "null" {
			doc[key] = nil
			continue
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			doc[key] = f
			continue
		}
		doc[key] = value
	}
	return doc, nil
}

// mergeDocuments overlays assignments on a file document. A file document
// that is not a mapping is returned unchanged when there is nothing to
// overlay, so the engine can reject it.
func mergeDocuments(file any, assignments map[string]any) any {
	if len(assignments) == 0 {
		return file
	}
	merged := make(map[string]any)
	switch m := file.(type) {
	case nil:
	case map[string]any:
		for k, v := range m {
			merged[k] = v
		}
	default:
		return file
	}
	for k, v := range assignments {
		merged[k] = v
	}
	return merged
}
