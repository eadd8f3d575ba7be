package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleDoc() Document {
	return Document{
		PlotName: "Main Stage, Saturday",
		Rows: []Row{
			{Position: 1, Item: "Kick Drum", Label: "Kick", Category: "Drums", Section: "Kit", X: 100, Y: 250, Rotation: 0, Scale: 1},
			{Position: 2, Item: "Wedge \"A\"", Label: "Lead vox, center", Category: "Monitors", Section: "Wedges", X: 320.5, Y: 80, Rotation: 15, Scale: 1.25},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	out, err := WriteCSV(sampleDoc())
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][1] != "Item" {
		t.Fatalf("header = %v", records[0])
	}
	if records[2][1] != `Wedge "A"` {
		t.Fatalf("quoted item survived badly: %q", records[2][1])
	}
	if records[2][2] != "Lead vox, center" {
		t.Fatalf("comma label mangled: %q", records[2][2])
	}
	if records[2][8] != "1.25" {
		t.Fatalf("scale column = %q", records[2][8])
	}
}

func TestWriteXLSX(t *testing.T) {
	out, err := WriteXLSX(sampleDoc())
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != sheetName {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][1] != "Kick Drum" {
		t.Fatalf("row 1 item = %q", rows[1][1])
	}
}

func TestWritePDF(t *testing.T) {
	doc := sampleDoc()
	out, err := WritePDF(doc)
	if err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !strings.HasPrefix(string(out[:8]), "%PDF-") {
		t.Fatalf("output does not look like a pdf: %q", out[:8])
	}
}

func TestWriteCSVEmptyPlot(t *testing.T) {
	out, err := WriteCSV(Document{PlotName: "Empty"})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("empty plot should emit only the header, got %d records", len(records))
	}
}
