// Package arrayfile loads the initial array of a segment tree from JSON
// documents and command-line lists.
package arrayfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// MaxElements bounds the array length accepted from any input.
const MaxElements = 4096

// StdinPath selects standard input in LoadFile.
const StdinPath = "-"

// Sentinel errors.
var (
	// ErrInvalidDocument indicates a JSON document that does not match the schema.
	ErrInvalidDocument = errors.New("invalid array document")
	// ErrInvalidNumber indicates a list element that is not a 64-bit integer.
	ErrInvalidNumber = errors.New("invalid integer")
	// ErrTooManyElements indicates an array longer than MaxElements.
	ErrTooManyElements = errors.New("too many elements")
)

//go:embed schema.json
var schemaJSON []byte

// Input is a decoded array document.
type Input struct {
	Array []int64 `json:"array"`
	// Function is the aggregate function named by the document, if any.
	Function string `json:"function,omitempty"`
}

// Schema returns the JSON schema documents are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Load reads, validates and decodes a JSON array document.
func Load(r io.Reader) (Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("read array document: %w", err)
	}

	return Decode(data)
}

// LoadFile loads path, or stdin when path is StdinPath.
func LoadFile(path string, stdin io.Reader) (Input, error) {
	if path == StdinPath {
		return Load(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open array file: %w", err)
	}
	defer f.Close()

	in, err := Load(f)
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", path, err)
	}

	return in, nil
}

// Decode validates data against the schema and decodes it.
func Decode(data []byte) (Input, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Input{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if !result.Valid() {
		return Input{}, fmt.Errorf("%w: %s", ErrInvalidDocument, describe(result.Errors()))
	}

	trimmed := bytes.TrimSpace(data)

	var in Input

	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &in.Array)
	} else {
		err = json.Unmarshal(trimmed, &in)
	}

	if err != nil {
		return Input{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if in.Array == nil {
		in.Array = []int64{}
	}

	return in, nil
}

// ParseList parses a list such as "1,3,-2", "1 3 -2" or "[1, 3, -2]".
// An empty list yields an empty array.
func ParseList(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	return ParseValues(fields)
}

// ParseValues parses one integer per element.
func ParseValues(fields []string) ([]int64, error) {
	if len(fields) > MaxElements {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyElements, len(fields), MaxElements)
	}

	values := make([]int64, 0, len(fields))

	for _, field := range fields {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, field)
		}

		values = append(values, v)
	}

	return values, nil
}

func describe(errs []gojsonschema.ResultError) string {
	parts := make([]string, 0, len(errs))

	for _, e := range errs {
		parts = append(parts, e.Field()+": "+e.Description())
	}

	return strings.Join(parts, "; ")
}
