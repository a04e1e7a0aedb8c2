package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docview-dev/docview/internal/ingest"
	"github.com/docview-dev/docview/internal/models"
	"github.com/docview-dev/docview/pkg/logger"
)

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
            xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<w:body>`

const documentFooter = `</w:body></w:document>`

// buildDocx assembles a minimal word container around the given body XML.
func buildDocx(t *testing.T, body string, extra map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentHeader + body + documentFooter)); err != nil {
		t.Fatal(err)
	}

	for name, data := range extra {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func normalize(t *testing.T, data []byte) string {
	t.Helper()

	n := NewNormalizer(logger.NewTestLogger(), 1280)
	content, err := n.Normalize(context.Background(), &models.SourceDocument{
		Data: data,
		Type: models.TypeDocx,
		Name: "test.docx",
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if content.Docx == nil {
		t.Fatal("Docx content missing")
	}
	return content.Docx.HTMLFragment
}

func TestNormalizeParagraphs(t *testing.T) {
	data := buildDocx(t, `
<w:p><w:r><w:t>第一段</w:t></w:r></w:p>
<w:p><w:r><w:t>second paragraph</w:t></w:r></w:p>
<w:p></w:p>`, nil)

	out := normalize(t, data)
	if !strings.Contains(out, "<p>第一段</p>") {
		t.Errorf("missing first paragraph: %q", out)
	}
	if !strings.Contains(out, "<p>second paragraph</p>") {
		t.Errorf("missing second paragraph: %q", out)
	}
	// 空段落不产出
	if strings.Contains(out, "<p></p>") {
		t.Errorf("empty paragraph emitted: %q", out)
	}
}

func TestNormalizeHeadings(t *testing.T) {
	data := buildDocx(t, `
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>概述</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading3"/></w:pPr><w:r><w:t>细节</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>文档标题</w:t></w:r></w:p>`, nil)

	out := normalize(t, data)
	for _, want := range []string{"<h1>概述</h1>", "<h3>细节</h3>", "<h1>文档标题</h1>"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestNormalizeRunFormatting(t *testing.T) {
	data := buildDocx(t, `
<w:p>
  <w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r>
  <w:r><w:rPr><w:i/></w:rPr><w:t>italic</w:t></w:r>
  <w:r><w:rPr><w:u w:val="single"/></w:rPr><w:t>underline</w:t></w:r>
  <w:r><w:rPr><w:b w:val="false"/></w:rPr><w:t>plain</w:t></w:r>
</w:p>`, nil)

	out := normalize(t, data)
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("missing bold run: %q", out)
	}
	if !strings.Contains(out, "<em>italic</em>") {
		t.Errorf("missing italic run: %q", out)
	}
	if !strings.Contains(out, "<u>underline</u>") {
		t.Errorf("missing underline run: %q", out)
	}
	if strings.Contains(out, "<strong>plain</strong>") {
		t.Errorf("w:val=false should disable bold: %q", out)
	}
}

func TestNormalizeTable(t *testing.T) {
	data := buildDocx(t, `
<w:tbl>
  <w:tr>
    <w:tc><w:p><w:r><w:t>A1</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>B1</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>A2</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>B2</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>`, nil)

	out := normalize(t, data)
	for _, want := range []string{"<table>", "<tr>", "<td><p>A1</p></td>", "<td><p>B2</p></td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestNormalizeHyperlink(t *testing.T) {
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Target="https://example.com/page"/>
</Relationships>`

	data := buildDocx(t, `
<w:p><w:hyperlink r:id="rId1"><w:r><w:t>参考链接</w:t></w:r></w:hyperlink></w:p>`,
		map[string][]byte{"word/_rels/document.xml.rels": []byte(rels)})

	out := normalize(t, data)
	if !strings.Contains(out, `href="https://example.com/page"`) {
		t.Errorf("missing hyperlink target: %q", out)
	}
	if !strings.Contains(out, "参考链接") {
		t.Errorf("missing hyperlink text: %q", out)
	}
}

func TestNormalizeHighlightsBlanks(t *testing.T) {
	data := buildDocx(t, `
<w:p><w:r><w:t>姓名：_____</w:t></w:r></w:p>
<w:p><w:r><w:t>a__b</w:t></w:r></w:p>`, nil)

	out := normalize(t, data)
	if !strings.Contains(out, `<span class="fill-blank">_____</span>`) {
		t.Errorf("blank run not highlighted: %q", out)
	}
	// 一到两个下划线原样保留
	if !strings.Contains(out, "a__b") {
		t.Errorf("short underscore run altered: %q", out)
	}
	if strings.Count(out, "fill-blank") != 1 {
		t.Errorf("unexpected highlight count: %q", out)
	}
}

func TestNormalizeHighlightsBlanksAcrossRuns(t *testing.T) {
	// rsid 拆分：一个视觉填空位分散在同段的两个 run 里
	data := buildDocx(t, `
<w:p>
  <w:r><w:t>姓名：__</w:t></w:r>
  <w:r><w:t>___</w:t></w:r>
</w:p>`, nil)

	out := normalize(t, data)
	if !strings.Contains(out, `<span class="fill-blank">_____</span>`) {
		t.Errorf("split underscore run not highlighted as one span: %q", out)
	}
}

func TestNormalizeNoUnderscoresUnchanged(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>没有下划线的普通文本</w:t></w:r></w:p>`, nil)

	out := normalize(t, data)
	if strings.Contains(out, "fill-blank") {
		t.Errorf("highlight applied without underscores: %q", out)
	}
}

func TestNormalizeCorruptArchive(t *testing.T) {
	n := NewNormalizer(logger.NewTestLogger(), 1280)
	_, err := n.Normalize(context.Background(), &models.SourceDocument{
		Data: []byte("this is not a zip archive"),
		Type: models.TypeDocx,
		Name: "broken.docx",
	})

	var convErr *ingest.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Normalize() error = %v, want ConversionError", err)
	}
	if convErr.Format != "word" {
		t.Errorf("Format = %q, want word", convErr.Format)
	}
}

func TestNormalizeMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	n := NewNormalizer(logger.NewTestLogger(), 1280)
	_, err := n.Normalize(context.Background(), &models.SourceDocument{
		Data: buf.Bytes(),
		Type: models.TypeDocx,
		Name: "empty.docx",
	})

	var convErr *ingest.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Normalize() error = %v, want ConversionError", err)
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading6", 6},
		{"Title", 1},
		{"Subtitle", 2},
		{"Heading7", 0},
		{"BodyText", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := headingLevel(tt.style); got != tt.want {
			t.Errorf("headingLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}
