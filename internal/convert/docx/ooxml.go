package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/docview-dev/docview/internal/convert/fragment"
)

// archive word/ 容器里转换需要的部分：主文档、关系表、媒体字节
type archive struct {
	document []byte
	rels     map[string]string
	media    map[string][]byte
}

func openArchive(data []byte) (*archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	arc := &archive{
		rels:  make(map[string]string),
		media: make(map[string][]byte),
	}

	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			arc.document, err = readZipFile(f)
		case f.Name == "word/_rels/document.xml.rels":
			var raw []byte
			if raw, err = readZipFile(f); err == nil {
				err = arc.parseRels(raw)
			}
		case strings.HasPrefix(f.Name, "word/media/"):
			arc.media[strings.TrimPrefix(f.Name, "word/")], err = readZipFile(f)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}

	if arc.document == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}
	return arc, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *archive) parseRels(raw []byte) error {
	var rels struct {
		Relationships []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return err
	}
	for _, r := range rels.Relationships {
		a.rels[r.ID] = r.Target
	}
	return nil
}

// imageInliner 把媒体字节变成可嵌入的 src，返回 false 表示跳过该图
type imageInliner func(target string, data []byte) (string, bool)

// converter 对 document.xml 做一次流式遍历，产出顶层节点序列。
// 段落、标题、格式化文本串、超链接、表格和内嵌图片会被转换，
// 其余元素只保留其中的文本。
type converter struct {
	arc    *archive
	inline imageInliner

	nodes []*html.Node

	tables []*html.Node // 嵌套表格栈
	rows   []*html.Node
	cells  []*html.Node

	para *html.Node
	link *html.Node

	inRunProps bool
	inText     bool
	bold       bool
	italic     bool
	underline  bool
}

func convertDocument(arc *archive, inline imageInliner) ([]*html.Node, error) {
	c := &converter{arc: arc, inline: inline}

	dec := xml.NewDecoder(bytes.NewReader(arc.document))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			c.startElement(t)
		case xml.CharData:
			c.charData(t)
		case xml.EndElement:
			c.endElement(t)
		}
	}

	return c.nodes, nil
}

func (c *converter) startElement(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		c.para = fragment.Element("p")
	case "pStyle":
		if c.para == nil {
			return
		}
		if level := headingLevel(attrValue(t, "val")); level > 0 {
			fragment.Rename(c.para, fmt.Sprintf("h%d", level))
		}
	case "r":
		c.bold, c.italic, c.underline = false, false, false
	case "rPr":
		c.inRunProps = true
	case "b":
		if c.inRunProps {
			c.bold = !isOff(attrValue(t, "val"))
		}
	case "i":
		if c.inRunProps {
			c.italic = !isOff(attrValue(t, "val"))
		}
	case "u":
		if c.inRunProps {
			c.underline = !isOff(attrValue(t, "val"))
		}
	case "t":
		c.inText = true
	case "br":
		c.appendRun(fragment.Element("br"))
	case "tab":
		c.appendRun(fragment.Text("\t"))
	case "hyperlink":
		if target, ok := c.arc.rels[attrValue(t, "id")]; ok && c.para != nil {
			c.link = fragment.Element("a", fragment.Attr("href", target))
			c.para.AppendChild(c.link)
		}
	case "blip":
		c.appendImage(attrValue(t, "embed"))
	case "tbl":
		c.tables = append(c.tables, fragment.Element("table"))
	case "tr":
		c.rows = append(c.rows, fragment.Element("tr"))
	case "tc":
		c.cells = append(c.cells, fragment.Element("td"))
	}
}

func (c *converter) charData(t xml.CharData) {
	if !c.inText || c.para == nil {
		return
	}
	c.appendRun(c.wrapRun(fragment.Text(string(t))))
}

func (c *converter) endElement(t xml.EndElement) {
	switch t.Name.Local {
	case "t":
		c.inText = false
	case "rPr":
		c.inRunProps = false
	case "hyperlink":
		c.link = nil
	case "p":
		if c.para != nil && c.para.FirstChild != nil {
			c.appendBlock(c.para)
		}
		c.para = nil
	case "tc":
		if n := len(c.cells); n > 0 {
			cell := c.cells[n-1]
			c.cells = c.cells[:n-1]
			if n := len(c.rows); n > 0 {
				c.rows[n-1].AppendChild(cell)
			}
		}
	case "tr":
		if n := len(c.rows); n > 0 {
			row := c.rows[n-1]
			c.rows = c.rows[:n-1]
			if n := len(c.tables); n > 0 {
				c.tables[n-1].AppendChild(row)
			}
		}
	case "tbl":
		if n := len(c.tables); n > 0 {
			table := c.tables[n-1]
			c.tables = c.tables[:n-1]
			c.appendBlock(table)
		}
	}
}

// appendBlock 把块级节点挂到当前表格单元格，或作为顶层节点输出
func (c *converter) appendBlock(n *html.Node) {
	if len(c.cells) > 0 {
		c.cells[len(c.cells)-1].AppendChild(n)
		return
	}
	c.nodes = append(c.nodes, n)
}

// appendRun 把行内节点挂到当前超链接或段落
func (c *converter) appendRun(n *html.Node) {
	switch {
	case c.link != nil:
		c.link.AppendChild(n)
	case c.para != nil:
		c.para.AppendChild(n)
	}
}

// wrapRun 按当前 run 格式包装文本
func (c *converter) wrapRun(n *html.Node) *html.Node {
	if c.underline {
		u := fragment.Element("u")
		u.AppendChild(n)
		n = u
	}
	if c.italic {
		em := fragment.Element("em")
		em.AppendChild(n)
		n = em
	}
	if c.bold {
		strong := fragment.Element("strong")
		strong.AppendChild(n)
		n = strong
	}
	return n
}

func (c *converter) appendImage(relID string) {
	if c.inline == nil || c.para == nil {
		return
	}
	target, ok := c.arc.rels[relID]
	if !ok {
		return
	}
	data, ok := c.arc.media[target]
	if !ok {
		return
	}
	src, ok := c.inline(target, data)
	if !ok {
		return
	}
	c.appendRun(fragment.Element("img", fragment.Attr("src", src)))
}

func attrValue(t xml.StartElement, local string) string {
	for _, attr := range t.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// isOff 解析 OOXML 的开关属性，空值表示开启
func isOff(val string) bool {
	switch strings.ToLower(val) {
	case "false", "0", "none":
		return true
	default:
		return false
	}
}

// headingLevel 从段落样式名解析标题级别，如 "Heading1" → 1。
// "Title" 作为一级标题，"Subtitle" 作为二级。
func headingLevel(style string) int {
	lower := strings.ToLower(style)

	if lower == "title" {
		return 1
	}
	if lower == "subtitle" {
		return 2
	}

	if rest, ok := strings.CutPrefix(lower, "heading"); ok {
		if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}
	return 0
}
