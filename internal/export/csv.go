package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// WriteCSV renders the item list as RFC 4180 CSV.
func WriteCSV(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columnHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range doc.Rows {
		record := []string{
			strconv.Itoa(r.Position),
			r.Item,
			r.Label,
			r.Category,
			r.Section,
			formatFloat(r.X),
			formatFloat(r.Y),
			formatFloat(r.Rotation),
			formatFloat(r.Scale),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
