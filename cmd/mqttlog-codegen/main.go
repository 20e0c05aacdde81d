// Command mqttlog-codegen generates the reason code tables of pkg/packet
// from reasoncodes.yaml.
//
// Usage:
//
//	mqttlog-codegen -input reasoncodes.yaml -output reason_code_gen.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

func main() {
	input := flag.String("input", "", "Path to the reason code YAML table")
	output := flag.String("output", "", "Path of the generated Go file")
	pkg := flag.String("package", "packet", "Package name of the generated file")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: mqttlog-codegen -input <yaml> -output <file.go> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*input, *output, *pkg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output, pkg string) error {
	table, err := LoadTable(input)
	if err != nil {
		return fmt.Errorf("loading reason codes: %w", err)
	}

	code, err := Generate(table, pkg, filepath.Base(input))
	if err != nil {
		return fmt.Errorf("generating reason codes: %w", err)
	}

	if err := writeFormatted(output, code); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(output), err)
	}
	fmt.Printf("  generated %s\n", output)
	return nil
}

// writeFormatted runs goimports over the generated code before writing it.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so the generator output can be inspected
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
