package fragment

import (
	"regexp"

	"golang.org/x/net/html"
)

// BlankClass 填空标记 span 的 class
const BlankClass = "fill-blank"

// 连续三个及以上的下划线视为表单填空位；一到两个是标点，不处理
var blankRun = regexp.MustCompile(`_{3,}`)

// HasUnderscore 判断文本里是否存在下划线，作为扫描 HTML 前的廉价闸门
func HasUnderscore(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] == '_' {
			return true
		}
	}
	return false
}

// HighlightBlanks 遍历节点树，把文本节点中长度不小于三的下划线串
// 替换为同等长度的标记 span。只访问文本节点，属性值不受影响；
// 非下划线字符与元素结构保持原样。
func HighlightBlanks(nodes []*html.Node) {
	for _, n := range nodes {
		highlightNode(n)
	}
}

func highlightNode(n *html.Node) {
	// Word 常把一段连续文字拆成多个 run，先合并相邻文本节点，
	// 跨 run 的下划线串才能按整串长度判定
	coalesceText(n)

	// 先收集子节点再处理，替换时会改动兄弟链
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for _, c := range children {
		if c.Type == html.ElementNode {
			highlightNode(c)
			continue
		}
		if c.Type == html.TextNode {
			splitTextNode(n, c)
		}
	}
}

// coalesceText 把相邻的兄弟文本节点合并为一个
func coalesceText(n *html.Node) {
	c := n.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type == html.TextNode && next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			n.RemoveChild(next)
			continue
		}
		c = next
	}
}

// splitTextNode 把一个文本节点按下划线串拆开，
// 下划线串包进 span，其余文本原样保留。
func splitTextNode(parent, textNode *html.Node) {
	text := textNode.Data
	matches := blankRun.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return
	}

	var replacement []*html.Node
	last := 0
	for _, m := range matches {
		if m[0] > last {
			replacement = append(replacement, Text(text[last:m[0]]))
		}
		span := Element("span", Attr("class", BlankClass))
		span.AppendChild(Text(text[m[0]:m[1]]))
		replacement = append(replacement, span)
		last = m[1]
	}
	if last < len(text) {
		replacement = append(replacement, Text(text[last:]))
	}

	for _, r := range replacement {
		parent.InsertBefore(r, textNode)
	}
	parent.RemoveChild(textNode)
}
