package ingest

import (
	"errors"
	"testing"

	"github.com/docview-dev/docview/internal/models"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     models.DocumentType
		wantErr  error
	}{
		{"docx", "report.docx", models.TypeDocx, nil},
		{"xlsx", "budget.xlsx", models.TypeSpreadsheet, nil},
		{"xls", "legacy-book.xls", models.TypeSpreadsheet, nil},
		{"pdf", "scan.pdf", models.TypePDF, nil},
		{"uppercase extension", "REPORT.DOCX", models.TypeDocx, nil},
		{"mixed case extension", "Sheet.XlSx", models.TypeSpreadsheet, nil},
		{"dotted name", "v1.2.final.pdf", models.TypePDF, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectType(tt.filename)
			if err != nil {
				t.Fatalf("DetectType(%q) error = %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("DetectType(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectTypeLegacy(t *testing.T) {
	for _, filename := range []string{"old.doc", "slides.ppt", "deck.pptx", "OLD.DOC"} {
		got, err := DetectType(filename)
		if got != models.TypeUnsupported {
			t.Errorf("DetectType(%q) = %v, want unsupported", filename, got)
		}
		var legacyErr *LegacyFormatError
		if !errors.As(err, &legacyErr) {
			t.Errorf("DetectType(%q) error = %v, want LegacyFormatError", filename, err)
		}
	}
}

func TestDetectTypeUnsupported(t *testing.T) {
	for _, filename := range []string{"notes.txt", "archive.zip", "noextension", "image.png"} {
		got, err := DetectType(filename)
		if got != models.TypeUnsupported {
			t.Errorf("DetectType(%q) = %v, want unsupported", filename, got)
		}
		var unsupportedErr *UnsupportedTypeError
		if !errors.As(err, &unsupportedErr) {
			t.Errorf("DetectType(%q) error = %v, want UnsupportedTypeError", filename, err)
		}
	}
}

func TestParseDeclaredType(t *testing.T) {
	tests := []struct {
		tag  string
		want models.DocumentType
	}{
		{"docx", models.TypeDocx},
		{"DOCX", models.TypeDocx},
		{"xlsx", models.TypeSpreadsheet},
		{"xls", models.TypeSpreadsheet},
		{"pdf", models.TypePDF},
	}
	for _, tt := range tests {
		got, err := ParseDeclaredType(tt.tag)
		if err != nil {
			t.Fatalf("ParseDeclaredType(%q) error = %v", tt.tag, err)
		}
		if got != tt.want {
			t.Errorf("ParseDeclaredType(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}

	if _, err := ParseDeclaredType("csv"); err == nil {
		t.Error("ParseDeclaredType(\"csv\") expected error, got nil")
	}
}
