// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of the documentation map.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/rbdoc/internal/index"
	"github.com/phobologic/rbdoc/internal/record"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a documentation map into TOON format.
func Encode(m *index.Map) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("repo: %s", encodeValue(m.RepoName)))

	namespaces := m.Namespaces()

	var nsRows [][]string
	for _, ns := range namespaces {
		nsRows = append(nsRows, []string{
			ns.FullName(),
			string(ns.Kind),
			ns.Superclass,
			ns.Path(),
		})
	}
	parts = append(parts, formatTabular("namespaces", []string{"name", "kind", "superclass", "path"}, nsRows))

	var methodRows [][]string
	var aliasRows [][]string
	for _, ns := range namespaces {
		for _, meth := range ns.Methods {
			methodRows = append(methodRows, methodRow(ns, meth))
			for _, a := range meth.Aliases {
				aliasRows = append(aliasRows, []string{meth.FullName(), a.FullName()})
			}
		}
	}
	parts = append(parts, formatTabular("methods",
		[]string{"container", "name", "type", "visibility", "signature", "fragment", "file", "line"}, methodRows))

	if len(aliasRows) > 0 {
		parts = append(parts, formatTabular("aliases", []string{"method", "alias"}, aliasRows))
	}

	return strings.Join(parts, "\n")
}

func methodRow(ns *index.Namespace, m *record.Method) []string {
	name, singleton := m.DisplayName()
	typ := "instance"
	if singleton {
		typ = "class"
	}

	signature := name + m.ParamSeq()
	if m.CallSeq != "" {
		signature = strings.SplitN(m.CallSeq, "\n", 2)[0]
	}

	var file string
	var line int
	if m.Text != nil {
		file = m.Text.File()
		line = m.Text.Line()
	}

	return []string{
		ns.FullName(),
		name,
		typ,
		string(m.Visibility),
		signature,
		m.FragmentID(),
		file,
		fmt.Sprintf("%d", line),
	}
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
