// internal/app/system/csvutil/words.go
package csvutil

import (
	"encoding/csv"
	"html/template"
	"io"
	"strings"
)

// MaxRows bounds a single vocabulary CSV upload.
const MaxRows = 5000

// WordCSVRow is the normalized row produced by PreScanWordsCSV.
type WordCSVRow struct {
	Term        string
	Translation string
	Notes       string
}

// PreScanWordsCSV reads all rows from r, skips a header if present,
// validates each row, and either returns normalized rows OR a formatted
// HTML error message (template.HTML) describing the first few bad lines.
// It never writes to a DB; it's safe to call before any mutations.
func PreScanWordsCSV(r io.Reader) (rows []WordCSVRow, htmlErr template.HTML, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Pull first row to check header
	first, ferr := reader.Read()
	if ferr == io.EOF {
		first = nil
	} else if ferr != nil {
		return nil, template.HTML(template.HTMLEscapeString(ferr.Error())), nil
	}
	var raw [][]string
	if len(first) >= 2 &&
		(strings.EqualFold(strings.TrimSpace(first[0]), "term") ||
			strings.EqualFold(strings.TrimSpace(first[0]), "word")) &&
		strings.EqualFold(strings.TrimSpace(first[1]), "translation") {
		// header detected → skip
	} else if first != nil {
		raw = append(raw, first)
	}
	for {
		rec, e := reader.Read()
		if e == io.EOF {
			break
		}
		if e != nil || len(rec) == 0 {
			continue
		}
		raw = append(raw, rec)
		if len(raw) > MaxRows {
			return nil, "Upload rejected: too many rows.", nil
		}
	}

	type rowErr struct{ Term, Translation, Reason string }
	var errs []rowErr
	normalize := func(rec []string) WordCSVRow {
		var t, tr, n string
		if len(rec) > 0 {
			t = strings.TrimSpace(rec[0])
		}
		if len(rec) > 1 {
			tr = strings.TrimSpace(rec[1])
		}
		if len(rec) > 2 {
			n = strings.TrimSpace(rec[2])
		}
		return WordCSVRow{Term: t, Translation: tr, Notes: n}
	}

	for _, rec := range raw {
		row := normalize(rec)
		if row.Term == "" && row.Translation == "" && row.Notes == "" {
			continue
		}
		if row.Term == "" {
			errs = append(errs, rowErr{Term: row.Term, Translation: row.Translation, Reason: "missing term"})
		}
		if row.Translation == "" {
			errs = append(errs, rowErr{Term: row.Term, Translation: row.Translation, Reason: "missing translation"})
		}
		rows = append(rows, row)
	}

	if len(errs) > 0 {
		var b strings.Builder
		b.WriteString("Upload rejected: one or more rows are invalid.<br>")
		b.WriteString("Each row must have a Term and a Translation; Notes are optional.<br>")

		max := 5
		if len(errs) < max {
			max = len(errs)
		}
		if max > 0 {
			b.WriteString("Examples:<br>")
			for i := 0; i < max; i++ {
				e := errs[i]
				term := e.Term
				if term == "" {
					term = "(missing)"
				}
				tr := e.Translation
				if tr == "" {
					tr = "(missing)"
				}
				b.WriteString("• ")
				b.WriteString(template.HTMLEscapeString(term))
				b.WriteString(" | ")
				b.WriteString(template.HTMLEscapeString(tr))
				b.WriteString(" → ")
				b.WriteString(template.HTMLEscapeString(e.Reason))
				b.WriteString("<br>")
			}
		}
		return nil, template.HTML(b.String()), nil
	}

	return rows, "", nil
}
