// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Separators inside a cell: results of several publications or entries are
// joined with " | ", values of one publication or entry with " ; ".
const (
	sepOuter = " | "
	sepInner = " ; "
)

// Escape quotes a field that starts with a double quote or contains a tab,
// doubling the quotes inside. Other values are returned unchanged.
func Escape(value string) string {
	if value != "" && (value[0] == '"' || strings.ContainsRune(value, '\t')) {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// tsv writes tab separated rows and keeps the first write error.
type tsv struct {
	w   *bufio.Writer
	err error
}

func newTSV(w io.Writer) *tsv {
	return &tsv{w: bufio.NewWriter(w)}
}

// row writes escaped fields followed by a newline.
func (t *tsv) row(fields []string) {
	for i, f := range fields {
		t.write(Escape(f))
		if i < len(fields)-1 {
			t.write("\t")
		}
	}
	t.write("\n")
}

// header writes the column names, then a row of documentation links when
// docsBase is set.
func (t *tsv) header(columns []string, docsBase string) {
	t.write(strings.Join(columns, "\t") + "\n")
	if docsBase == "" {
		return
	}
	docs := make([]string, len(columns))
	for i, c := range columns {
		docs[i] = docsBase + strings.ReplaceAll(c, "_", "-")
	}
	t.write(strings.Join(docs, "\t") + "\n")
}

func (t *tsv) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.WriteString(s)
}

func (t *tsv) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}

// formatFloat renders a score with at least one decimal, e.g. "1000.0" or
// "1012.5".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// join maps values with fn and joins the results with sep.
func join[T any](values []T, sep string, fn func(T) string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fn(v)
	}
	return strings.Join(parts, sep)
}

func stringer[T interface{ String() string }](v T) string {
	return v.String()
}

// escapeNewlines writes line breaks as the two characters \n.
func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

var controlEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)
