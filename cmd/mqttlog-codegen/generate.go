package main

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// kindData is the template view of one per-kind override block.
type kindData struct {
	Kind  string
	Codes []RawCode
}

type fileData struct {
	Source  string
	Package string
	Consts  []RawCode
	Codes   []RawCode
	Kinds   []kindData
}

var funcMap = template.FuncMap{
	"hexByte": func(v int) string { return fmt.Sprintf("0x%02X", v) },
	"quote":   func(s string) string { return fmt.Sprintf("%q", s) },
}

const fileTmpl = `// Code generated by mqttlog-codegen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

// Reason codes.
const (
{{- range .Consts}}
	{{.Const}} ReasonCode = {{hexByte .Value}}
{{- end}}
)

// reasonCodeNames maps reason codes to their kind-independent names.
var reasonCodeNames = map[ReasonCode]string{
{{- range .Codes}}
	{{.Const}}: {{quote .Name}},
{{- end}}
}

// reasonCodeKindNames holds per-kind name overrides.
var reasonCodeKindNames = map[Kind]map[ReasonCode]string{
{{- range .Kinds}}
	{{.Kind}}: {
{{- range .Codes}}
		{{.Const}}: {{quote .Name}},
{{- end}}
	},
{{- end}}
}
`

var tmpl = template.Must(template.New("reasoncodes").Funcs(funcMap).Parse(fileTmpl))

// Generate renders the Go source for a reason code table.
// Kind override blocks are emitted in sorted order so output is stable.
func Generate(table *RawTable, pkg, source string) (string, error) {
	data := fileData{
		Source:  source,
		Package: pkg,
		Codes:   table.Codes,
	}
	data.Consts = append(data.Consts, table.Codes...)

	kinds := make([]string, 0, len(table.Kinds))
	for k := range table.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		data.Kinds = append(data.Kinds, kindData{Kind: k, Codes: table.Kinds[k]})
		data.Consts = append(data.Consts, table.Kinds[k]...)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return b.String(), nil
}
