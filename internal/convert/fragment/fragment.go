// Package fragment 以节点树的形式构建 HTML 片段。
// 转换器不拼接标记字符串，而是先建树再渲染，文本与属性不会混淆。
package fragment

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element 创建元素节点
func Element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// Text 创建文本节点，渲染时自动转义
func Text(s string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: s,
	}
}

// Attr 构造属性
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Rename 原地改写元素标签名，段落在解析到样式后可升级为标题
func Rename(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

// Render 将一组顶层节点渲染为 HTML 片段字符串
func Render(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
