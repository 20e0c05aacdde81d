package main

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// RawTable is the reason code table loaded from YAML.
type RawTable struct {
	Codes []RawCode            `yaml:"codes"`
	Kinds map[string][]RawCode `yaml:"kinds"`
}

// RawCode is a single reason code entry.
type RawCode struct {
	Value int    `yaml:"value"`
	Name  string `yaml:"name"`
	Const string `yaml:"const"`
}

var identPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// LoadTable reads and parses a reason code table from a file.
func LoadTable(path string) (*RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseTable(data)
}

// ParseTable parses and validates a reason code table from YAML bytes.
func ParseTable(data []byte) (*RawTable, error) {
	var table RawTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing reason codes: %w", err)
	}
	if len(table.Codes) == 0 {
		return nil, fmt.Errorf("reason code table has no codes")
	}

	consts := make(map[string]bool)
	values := make(map[int]string)
	check := func(c RawCode) error {
		if c.Value < 0 || c.Value > 0xFF {
			return fmt.Errorf("%s: value 0x%X out of range", c.Name, c.Value)
		}
		if c.Name == "" {
			return fmt.Errorf("value 0x%02X: missing name", c.Value)
		}
		if !identPattern.MatchString(c.Const) {
			return fmt.Errorf("%s: invalid const name %q", c.Name, c.Const)
		}
		if consts[c.Const] {
			return fmt.Errorf("%s: duplicate const %s", c.Name, c.Const)
		}
		consts[c.Const] = true
		return nil
	}

	for _, c := range table.Codes {
		if err := check(c); err != nil {
			return nil, err
		}
		if prev, ok := values[c.Value]; ok {
			return nil, fmt.Errorf("%s: value 0x%02X already used by %s", c.Name, c.Value, prev)
		}
		values[c.Value] = c.Name
	}
	for kind, codes := range table.Kinds {
		if !identPattern.MatchString(kind) {
			return nil, fmt.Errorf("invalid kind name %q", kind)
		}
		for _, c := range codes {
			if err := check(c); err != nil {
				return nil, fmt.Errorf("%s: %w", kind, err)
			}
		}
	}
	return &table, nil
}
