// Package export writes assessment history to spreadsheet files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lungchat/internal/store"
)

const (
	SheetAssessments = "Assessments"
	SheetTranscripts = "Transcripts"
)

var leadingHeaders = []string{"ID", "Session", "Started", "Finished", "Phase", "Predictor", "Prediction"}

// WriteXLSX renders list as a workbook with one row per assessment and a
// second sheet holding every transcript line. Answer columns follow the
// order in which keys first appear across the list.
func WriteXLSX(w io.Writer, list []store.Assessment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAssessments); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetTranscripts); err != nil {
		return err
	}

	fieldsByRow := make([][]store.Field, len(list))
	var keys []string
	seen := map[string]bool{}
	for i := range list {
		fields, err := list[i].Fields()
		if err != nil {
			return fmt.Errorf("assessment %d: %w", list[i].ID, err)
		}
		fieldsByRow[i] = fields
		for _, fld := range fields {
			if !seen[fld.Key] {
				seen[fld.Key] = true
				keys = append(keys, fld.Key)
			}
		}
	}

	header := make([]any, 0, len(leadingHeaders)+len(keys)+1)
	for _, h := range leadingHeaders {
		header = append(header, h)
	}
	for _, k := range keys {
		header = append(header, k)
	}
	header = append(header, "Error")
	if err := writeRow(f, SheetAssessments, 1, header); err != nil {
		return err
	}

	transcriptRow := 1
	if err := writeRow(f, SheetTranscripts, transcriptRow, []any{"Assessment", "Line", "Speaker", "Text"}); err != nil {
		return err
	}

	for i, a := range list {
		values := make(map[string]any, len(fieldsByRow[i]))
		for _, fld := range fieldsByRow[i] {
			values[fld.Key] = cellValue(fld.Value)
		}

		row := []any{a.ID, a.SessionID, timeCell(a.StartedAt), timeCell(a.FinishedAt), a.Phase, a.Predictor, ""}
		if a.HasPrediction {
			row[6] = a.Prediction
		}
		for _, k := range keys {
			row = append(row, values[k])
		}
		row = append(row, a.ErrorMessage)
		if err := writeRow(f, SheetAssessments, i+2, row); err != nil {
			return err
		}

		entries, err := a.TranscriptEntries()
		if err != nil {
			return fmt.Errorf("assessment %d: %w", a.ID, err)
		}
		for n, e := range entries {
			transcriptRow++
			if err := writeRow(f, SheetTranscripts, transcriptRow, []any{a.ID, n + 1, string(e.Speaker), e.Text}); err != nil {
				return err
			}
		}
	}

	if err := styleHeader(f, SheetAssessments, len(header)); err != nil {
		return err
	}
	if err := styleHeader(f, SheetTranscripts, 4); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetAssessments, "B", "B", 38)
	_ = f.SetColWidth(SheetAssessments, "C", "D", 20)
	_ = f.SetColWidth(SheetTranscripts, "D", "D", 60)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E7FF"}},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// cellValue turns an encoded answer into something a spreadsheet can hold.
// Numbers stay numeric so they sort, null becomes an empty cell.
func cellValue(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if fl, err := t.Float64(); err == nil {
			return fl
		}
		return t.String()
	case string:
		return t
	default:
		return string(raw)
	}
}

func timeCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
