// Package main generates JSON schemas for the segviz export formats and MCP
// tool payloads.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/Sumatoshi-tech/segviz/pkg/mcp"
	"github.com/Sumatoshi-tech/segviz/pkg/scene"
)

const (
	schemaDirPerm  = 0o750
	schemaFilePerm = 0o600
	draftURI       = "https://json-schema.org/draft-07/schema#"
)

// generator builds the schema of one exported type.
type generator struct {
	title       string
	description string
	build       func() (*jsonschema.Schema, error)
}

func generators() map[string]generator {
	return map[string]generator{
		"scene": {
			title:       "segviz Scene",
			description: "Laid-out segment tree written by render --format json and segtree_scene",
			build:       func() (*jsonschema.Schema, error) { return jsonschema.For[scene.Scene](nil) },
		},
		"query_result": {
			title:       "segtree_query Result",
			description: "Payload of the segtree_query MCP tool",
			build:       func() (*jsonschema.Schema, error) { return jsonschema.For[mcp.QueryResult](nil) },
		},
		"array_result": {
			title:       "segtree Array Result",
			description: "Payload of the MCP tools that change the array",
			build:       func() (*jsonschema.Schema, error) { return jsonschema.For[mcp.ArrayResult](nil) },
		},
		"function_info": {
			title:       "segtree_function Entry",
			description: "One entry of the segtree_function MCP tool payload",
			build:       func() (*jsonschema.Schema, error) { return jsonschema.For[mcp.FunctionInfo](nil) },
		},
	}
}

func main() {
	outputDir := flag.String("o", "docs/schemas", "Output directory for schemas")
	flag.Parse()

	names, err := generate(*outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, name := range names {
		fmt.Fprintf(os.Stdout, "Generated schema for %s\n", name)
	}
}

// generate writes one <name>.json per generator into dir and returns the
// names in sorted order.
func generate(dir string) ([]string, error) {
	err := os.MkdirAll(dir, schemaDirPerm)
	if err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	gens := generators()

	names := make([]string, 0, len(gens))
	for name := range gens {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		gen := gens[name]

		schema, buildErr := gen.build()
		if buildErr != nil {
			return nil, fmt.Errorf("build schema for %s: %w", name, buildErr)
		}

		schema.Schema = draftURI
		schema.Title = gen.title
		schema.Description = gen.description

		writeErr := writeSchema(filepath.Join(dir, name+".json"), schema)
		if writeErr != nil {
			return nil, fmt.Errorf("write schema for %s: %w", name, writeErr)
		}
	}

	return names, nil
}

func writeSchema(path string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), schemaFilePerm)
}
