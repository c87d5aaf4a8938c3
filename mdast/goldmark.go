package mdast

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

// FromGoldmark converts a goldmark document parsed from source into an mdast tree.
// GFM tables, strikethrough, task lists and autolinks are mapped to their
// mdast equivalents. Nodes with no mdast counterpart are dropped.
func FromGoldmark(doc ast.Node, source []byte) *Node {
	c := &gmConverter{source: source}
	root := &Node{Type: KindRoot}
	root.Children = c.children(doc)
	Link(root)
	return root
}

type gmConverter struct {
	source []byte
}

func (c *gmConverter) children(n ast.Node) []*Node {
	var out []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		for _, conv := range c.convert(child) {
			out = appendMerged(out, conv)
		}
	}
	return out
}

// appendMerged appends n, merging adjacent text nodes the way mdast does.
func appendMerged(nodes []*Node, n *Node) []*Node {
	if n.Type == KindText && len(nodes) > 0 {
		if last := nodes[len(nodes)-1]; last.Type == KindText {
			last.Value += n.Value
			return nodes
		}
	}
	return append(nodes, n)
}

func (c *gmConverter) convert(n ast.Node) []*Node {
	switch v := n.(type) {
	case *ast.Heading:
		return one(&Node{Type: KindHeading, Depth: v.Level, Children: c.children(v)})
	case *ast.Paragraph:
		return one(&Node{Type: KindParagraph, Children: c.children(v)})
	case *ast.TextBlock:
		return one(&Node{Type: KindParagraph, Children: c.children(v)})
	case *ast.ThematicBreak:
		return one(&Node{Type: KindThematicBreak})
	case *ast.Blockquote:
		return one(&Node{Type: KindBlockquote, Children: c.children(v)})
	case *ast.List:
		list := &Node{Type: KindList, Ordered: v.IsOrdered(), Spread: !v.IsTight, Children: c.children(v)}
		if v.IsOrdered() {
			start := v.Start
			list.Start = &start
		}
		return one(list)
	case *ast.ListItem:
		return one(c.listItem(v))
	case *ast.FencedCodeBlock:
		code := &Node{Type: KindCode, Value: strings.TrimSuffix(c.lines(v), "\n")}
		if lang := v.Language(c.source); lang != nil {
			code.Lang = string(lang)
			if v.Info != nil {
				info := v.Info.Segment.Value(c.source)
				code.Meta = strings.TrimSpace(string(info[len(lang):]))
			}
		}
		return one(code)
	case *ast.CodeBlock:
		return one(&Node{Type: KindCode, Value: strings.TrimSuffix(c.lines(v), "\n")})
	case *ast.HTMLBlock:
		value := c.lines(v)
		if v.HasClosure() {
			value += string(v.ClosureLine.Value(c.source))
		}
		return one(&Node{Type: KindHTML, Value: strings.TrimRight(value, "\n")})
	case *ast.Text:
		value := string(unescape(markEscapedDollars(v.Segment.Value(c.source))))
		if v.SoftLineBreak() {
			value += "\n"
		}
		text := &Node{Type: KindText, Value: value}
		if v.HardLineBreak() {
			return []*Node{text, {Type: KindBreak}}
		}
		return one(text)
	case *ast.String:
		return one(&Node{Type: KindText, Value: string(v.Value)})
	case *ast.CodeSpan:
		var buf bytes.Buffer
		for child := v.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				buf.Write(t.Segment.Value(c.source))
			}
		}
		return one(&Node{Type: KindInlineCode, Value: buf.String()})
	case *ast.Emphasis:
		kind := KindEmphasis
		if v.Level == 2 {
			kind = KindStrong
		}
		return one(&Node{Type: kind, Children: c.children(v)})
	case *ast.Link:
		return one(&Node{Type: KindLink, URL: string(v.Destination), Title: string(v.Title), Children: c.children(v)})
	case *ast.AutoLink:
		url := string(v.URL(c.source))
		if v.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return one(&Node{Type: KindLink, URL: url, Children: []*Node{NewText(string(v.Label(c.source)))}})
	case *ast.Image:
		alt := &Node{Children: c.children(v)}
		return one(&Node{Type: KindImage, URL: string(v.Destination), Title: string(v.Title), Alt: alt.Text()})
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			buf.Write(seg.Value(c.source))
		}
		return one(&Node{Type: KindHTML, Value: buf.String()})
	case *east.Strikethrough:
		return one(&Node{Type: KindDelete, Children: c.children(v)})
	case *east.Table:
		return one(c.table(v))
	case *east.TaskCheckBox:
		// consumed by listItem
		return nil
	}
	if n.HasChildren() {
		return c.children(n)
	}
	return nil
}

func (c *gmConverter) listItem(v *ast.ListItem) *Node {
	item := &Node{Type: KindListItem, Children: c.children(v)}
	if list, ok := v.Parent().(*ast.List); ok {
		item.Spread = !list.IsTight
	}
	if first := v.FirstChild(); first != nil {
		if box, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			checked := box.IsChecked
			item.Checked = &checked
			if p := item.FirstChild(); p != nil && len(p.Children) > 0 && p.Children[0].Type == KindText {
				p.Children[0].Value = strings.TrimLeft(p.Children[0].Value, " ")
			}
		}
	}
	return item
}

func (c *gmConverter) table(v *east.Table) *Node {
	table := &Node{Type: KindTable}
	for _, a := range v.Alignments {
		switch a {
		case east.AlignLeft, east.AlignRight, east.AlignCenter:
			table.Align = append(table.Align, a.String())
		default:
			table.Align = append(table.Align, "")
		}
	}
	for child := v.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *east.TableHeader, *east.TableRow:
			row := &Node{Type: KindTableRow}
			for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
				row.Children = append(row.Children, &Node{Type: KindTableCell, Children: c.children(cell)})
			}
			table.Children = append(table.Children, row)
		}
	}
	return table
}

func (c *gmConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.source))
	}
	return buf.String()
}

func unescape(b []byte) []byte {
	return util.UnescapePunctuations(util.ResolveNumericReferences(util.ResolveEntityNames(b)))
}

// markEscapedDollars replaces each backslash-escaped dollar sign with
// EscapedDollar. Other escapes are left for unescape.
func markEscapedDollars(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\$`)) {
		return b
	}
	out := make([]byte, 0, len(b)+8)
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == '$' {
			out = append(out, EscapedDollar...)
		} else {
			out = append(out, b[i], b[i+1])
		}
		i++
	}
	return out
}

func one(n *Node) []*Node {
	return []*Node{n}
}
