//go:build ignore

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

func main() {
	if err := os.MkdirAll("schemas", 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}

	for _, id := range schema.IDs {
		doc, _ := schema.Document(id)
		write(id+".json", []byte(doc))
	}

	data, err := schema.GenerateResultJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating validation result schema: %v\n", err)
		os.Exit(1)
	}
	write("validation-result.json", data)

	data, err = diagnose.GenerateResultJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating debug result schema: %v\n", err)
		os.Exit(1)
	}
	write("debug-result.json", data)
}

func write(name string, data []byte) {
	path := filepath.Join("schemas", name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote", path)
}
