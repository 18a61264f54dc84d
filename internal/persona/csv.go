package persona

import (
	"io"
	"strings"
)

// CSVFilename is the suggested download name for WriteCSV output.
const CSVFilename = "snufulufugus_personas.csv"

var csvHeader = []string{
	"id", "name", "team", "occupation", "backstory",
	"region", "userAgent", "resolution", "language", "timezone",
}

func csvRow(p Persona) []string {
	return []string{
		p.ID, p.Name, p.Team, p.Occupation, p.Backstory,
		p.Region, p.UserAgent, p.Resolution, p.Language, p.Timezone,
	}
}

// escapeCSVField quotes a field only when it contains a comma, a quote or a
// newline. encoding/csv also quotes fields with leading spaces, which would
// change the exported bytes.
func escapeCSVField(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

func joinCSV(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = escapeCSVField(f)
	}
	return strings.Join(escaped, ",")
}

// WriteCSV writes the header row followed by one row per persona. Rows are
// separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, personas []Persona) error {
	rows := make([]string, 0, len(personas)+1)
	rows = append(rows, joinCSV(csvHeader))
	for _, p := range personas {
		rows = append(rows, joinCSV(csvRow(p)))
	}
	_, err := io.WriteString(w, strings.Join(rows, "\n"))
	return err
}
