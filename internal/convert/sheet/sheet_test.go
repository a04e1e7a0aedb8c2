package sheet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/docview-dev/docview/internal/ingest"
	"github.com/docview-dev/docview/internal/models"
	"github.com/docview-dev/docview/pkg/logger"
)

// buildWorkbook writes an xlsx with the given sheets. cells maps sheet name
// to a row-major matrix starting at A1.
func buildWorkbook(t *testing.T, order []string, cells map[string][][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatal(err)
			}
		}
		for r, row := range cells[name] {
			for c, val := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatal(err)
				}
				if err := f.SetCellValue(name, cell, val); err != nil {
					t.Fatal(err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNormalizeWorkbook(t *testing.T) {
	data := buildWorkbook(t,
		[]string{"概览", "Data"},
		map[string][][]string{
			"概览": {{"项目", "状态"}, {"转换", "完成"}},
			"Data": {{"a", "b"}, {"c", "d"}},
		})

	n := NewNormalizer(logger.NewTestLogger())
	content, err := n.Normalize(context.Background(), &models.SourceDocument{
		Data: data,
		Type: models.TypeSpreadsheet,
		Name: "book.xlsx",
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if content.Spreadsheet == nil {
		t.Fatal("Spreadsheet content missing")
	}

	sheets := content.Spreadsheet.Sheets
	if len(sheets) != 2 {
		t.Fatalf("got %d sheets, want 2", len(sheets))
	}
	// 表顺序与工作簿声明一致
	if sheets[0].Name != "概览" || sheets[1].Name != "Data" {
		t.Errorf("sheet order = [%q, %q]", sheets[0].Name, sheets[1].Name)
	}

	if !strings.Contains(sheets[0].HTMLFragment, "<td>状态</td>") {
		t.Errorf("first sheet fragment: %q", sheets[0].HTMLFragment)
	}
	want := "<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>"
	if sheets[1].HTMLFragment != want {
		t.Errorf("second sheet fragment = %q\nwant %q", sheets[1].HTMLFragment, want)
	}
}

func TestNormalizeEscapesCellText(t *testing.T) {
	data := buildWorkbook(t,
		[]string{"Sheet1"},
		map[string][][]string{
			"Sheet1": {{`<script>alert("x")</script>`}},
		})

	n := NewNormalizer(logger.NewTestLogger())
	content, err := n.Normalize(context.Background(), &models.SourceDocument{
		Data: data,
		Type: models.TypeSpreadsheet,
		Name: "book.xlsx",
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	frag := content.Spreadsheet.Sheets[0].HTMLFragment
	if strings.Contains(frag, "<script>") {
		t.Errorf("cell text not escaped: %q", frag)
	}
	if !strings.Contains(frag, "&lt;script&gt;") {
		t.Errorf("escaped text missing: %q", frag)
	}
}

func TestNormalizeEmptyWorkbook(t *testing.T) {
	data := buildWorkbook(t, []string{"Sheet1"}, nil)

	n := NewNormalizer(logger.NewTestLogger())
	content, err := n.Normalize(context.Background(), &models.SourceDocument{
		Data: data,
		Type: models.TypeSpreadsheet,
		Name: "empty.xlsx",
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	sheets := content.Spreadsheet.Sheets
	if len(sheets) != 1 {
		t.Fatalf("got %d sheets, want 1", len(sheets))
	}
	if sheets[0].HTMLFragment != "<table></table>" {
		t.Errorf("empty sheet fragment = %q", sheets[0].HTMLFragment)
	}
}

func TestNormalizeCorruptWorkbook(t *testing.T) {
	n := NewNormalizer(logger.NewTestLogger())
	_, err := n.Normalize(context.Background(), &models.SourceDocument{
		Data: []byte("definitely not a workbook"),
		Type: models.TypeSpreadsheet,
		Name: "broken.xlsx",
	})

	var convErr *ingest.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Normalize() error = %v, want ConversionError", err)
	}
	if convErr.Format != "spreadsheet" {
		t.Errorf("Format = %q, want spreadsheet", convErr.Format)
	}
}

func TestNormalizeCorruptLegacyWorkbook(t *testing.T) {
	// .xls 路径同样全有或全无
	n := NewNormalizer(logger.NewTestLogger())
	_, err := n.Normalize(context.Background(), &models.SourceDocument{
		Data: []byte{0x00, 0x01, 0x02, 0x03},
		Type: models.TypeSpreadsheet,
		Name: "broken.xls",
	})

	var convErr *ingest.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Normalize() error = %v, want ConversionError", err)
	}
}

func TestTableFragment(t *testing.T) {
	frag, err := tableFragment([][]string{{"x"}, {"y", "z"}})
	if err != nil {
		t.Fatalf("tableFragment() error = %v", err)
	}
	want := "<table><tr><td>x</td></tr><tr><td>y</td><td>z</td></tr></table>"
	if frag != want {
		t.Errorf("got %q, want %q", frag, want)
	}
}
