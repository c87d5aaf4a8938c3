package render

import (
	"fmt"
	stdhtml "html"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdslide/mdast"
)

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// toHypertext converts an mdast subtree into an html node tree. The returned
// node is detached; a root node becomes a DocumentNode holding its children.
func (r *Renderer) toHypertext(n *mdast.Node) (*html.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", ErrMalformedNode)
	}
	if n.Type.IsLeaf() && len(n.Children) > 0 {
		return nil, fmt.Errorf("%w: %s node has children", ErrMalformedNode, n.Type)
	}

	switch n.Type {
	case mdast.KindRoot:
		return r.withChildren(&html.Node{Type: html.DocumentNode}, n.Children)
	case mdast.KindText:
		return textNode(n.Value), nil
	case mdast.KindParagraph:
		return r.withChildren(element(atom.P), n.Children)
	case mdast.KindHeading:
		if n.Depth < 1 || n.Depth > len(headingAtoms) {
			return nil, fmt.Errorf("%w: heading depth %d", ErrMalformedNode, n.Depth)
		}
		return r.withChildren(element(headingAtoms[n.Depth-1]), n.Children)
	case mdast.KindList:
		return r.listElement(n)
	case mdast.KindListItem:
		return r.listItem(n)
	case mdast.KindBlockquote:
		return r.withChildren(element(atom.Blockquote), n.Children)
	case mdast.KindThematicBreak:
		return element(atom.Hr), nil
	case mdast.KindBreak:
		return element(atom.Br), nil
	case mdast.KindEmphasis:
		return r.withChildren(element(atom.Em), n.Children)
	case mdast.KindStrong:
		return r.withChildren(element(atom.Strong), n.Children)
	case mdast.KindDelete:
		return r.withChildren(element(atom.Del), n.Children)
	case mdast.KindInlineCode:
		code := element(atom.Code)
		code.AppendChild(rawNode(protectDollars(stdhtml.EscapeString(n.Value))))
		return code, nil
	case mdast.KindCode:
		out, err := r.highlightCode(n)
		if err != nil {
			return nil, err
		}
		return rawNode(out), nil
	case mdast.KindLink:
		a := element(atom.A, attr("href", n.URL))
		if n.Title != "" {
			a.Attr = append(a.Attr, attr("title", n.Title))
		}
		return r.withChildren(a, n.Children)
	case mdast.KindImage:
		if n.URL == "" {
			return nil, fmt.Errorf("%w: image without url", ErrMalformedNode)
		}
		img := element(atom.Img, attr("src", n.URL), attr("alt", n.Alt))
		if n.Title != "" {
			img.Attr = append(img.Attr, attr("title", n.Title))
		}
		return img, nil
	case mdast.KindHTML:
		value := n.Value
		if r.sanitizer != nil {
			value = r.sanitizer.Sanitize(value)
		}
		return rawNode(value), nil
	case mdast.KindMath:
		div := element(atom.Div, attr("class", "math-display"))
		div.AppendChild(textNode("$$" + n.Value + "$$"))
		return div, nil
	case mdast.KindInlineMath:
		return textNode("$" + n.Value + "$"), nil
	case mdast.KindTable:
		return r.table(n)
	case mdast.KindTableRow, mdast.KindTableCell:
		return r.tableRow(n, atom.Td, nil)
	}

	switch {
	case len(n.Children) > 0:
		return r.withChildren(element(atom.Div), n.Children)
	case n.Value != "":
		return textNode(n.Value), nil
	}
	return nil, fmt.Errorf("%w: unknown node type %q without content", ErrMalformedNode, n.Type)
}

func (r *Renderer) withChildren(parent *html.Node, children []*mdast.Node) (*html.Node, error) {
	for _, c := range children {
		child, err := r.toHypertext(c)
		if err != nil {
			return nil, err
		}
		parent.AppendChild(child)
	}
	return parent, nil
}

func (r *Renderer) listElement(n *mdast.Node) (*html.Node, error) {
	list := element(atom.Ul)
	if n.Ordered {
		list = element(atom.Ol)
		if n.Start != nil && *n.Start != 1 {
			list.Attr = append(list.Attr, attr("start", strconv.Itoa(*n.Start)))
		}
	}
	for i, c := range n.Children {
		if c == nil || c.Type != mdast.KindListItem {
			return nil, fmt.Errorf("%w: list child %d is not a listItem", ErrMalformedNode, i)
		}
		item, err := r.toHypertext(c)
		if err != nil {
			return nil, err
		}
		list.AppendChild(item)
	}
	return list, nil
}

// listItem renders an <li>. Paragraphs of tight items are unwrapped and task
// items get a disabled checkbox.
func (r *Renderer) listItem(n *mdast.Node) (*html.Node, error) {
	li := element(atom.Li)
	tight := !n.Spread
	if p := n.Parent(); p != nil && p.Type == mdast.KindList && p.Spread {
		tight = false
	}

	for _, c := range n.Children {
		if tight && c != nil && c.Type == mdast.KindParagraph {
			if _, err := r.withChildren(li, c.Children); err != nil {
				return nil, err
			}
			continue
		}
		child, err := r.toHypertext(c)
		if err != nil {
			return nil, err
		}
		li.AppendChild(child)
	}

	if n.Checked != nil {
		li.Attr = append(li.Attr, attr("class", "task-list-item"))
		box := element(atom.Input, attr("type", "checkbox"), attr("disabled", ""))
		if *n.Checked {
			box.Attr = append(box.Attr, attr("checked", ""))
		}
		target := li
		if first := li.FirstChild; first != nil && first.DataAtom == atom.P {
			target = first
		}
		target.InsertBefore(textNode(" "), target.FirstChild)
		target.InsertBefore(box, target.FirstChild)
	}
	return li, nil
}

// table renders the first row as the header with <th> cells.
func (r *Renderer) table(n *mdast.Node) (*html.Node, error) {
	table := element(atom.Table)
	var body *html.Node
	for i, row := range n.Children {
		if row == nil || row.Type != mdast.KindTableRow {
			return nil, fmt.Errorf("%w: table child %d is not a tableRow", ErrMalformedNode, i)
		}
		if i == 0 {
			tr, err := r.tableRow(row, atom.Th, n.Align)
			if err != nil {
				return nil, err
			}
			head := element(atom.Thead)
			head.AppendChild(tr)
			table.AppendChild(head)
			continue
		}
		if body == nil {
			body = element(atom.Tbody)
			table.AppendChild(body)
		}
		tr, err := r.tableRow(row, atom.Td, n.Align)
		if err != nil {
			return nil, err
		}
		body.AppendChild(tr)
	}
	return table, nil
}

// tableRow renders a row, or a lone cell when n is a tableCell.
func (r *Renderer) tableRow(n *mdast.Node, cellAtom atom.Atom, align []string) (*html.Node, error) {
	if n.Type == mdast.KindTableCell {
		return r.withChildren(element(cellAtom), n.Children)
	}
	tr := element(atom.Tr)
	for i, c := range n.Children {
		if c == nil {
			return nil, fmt.Errorf("%w: nil table cell", ErrMalformedNode)
		}
		cell := element(cellAtom)
		if i < len(align) && align[i] != "" {
			cell.Attr = append(cell.Attr, attr("style", "text-align: "+align[i]))
		}
		if _, err := r.withChildren(cell, c.Children); err != nil {
			return nil, err
		}
		tr.AppendChild(cell)
	}
	return tr, nil
}

// shieldAttributes marks the dollar signs of every attribute value under n as
// escaped so that only text content can open a formula.
func shieldAttributes(n *html.Node) {
	for i := range n.Attr {
		n.Attr[i].Val = strings.ReplaceAll(n.Attr[i].Val, "$", mdast.EscapedDollar)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		shieldAttributes(c)
	}
}

func serialize(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedNode, err)
	}
	return sb.String(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func rawNode(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}
