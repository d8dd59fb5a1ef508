// Package doctree implements the document tree representation of an entry's
// rich content, with a parser converting markdown-flavored text into trees
// and a renderer converting trees back to text.
package doctree

import (
	"encoding/json"
	"strings"

	"github.com/jinzhu/copier"
)

type NodeType string

const (
	TypeDoc            NodeType = "doc"
	TypeParagraph      NodeType = "paragraph"
	TypeHeading        NodeType = "heading"
	TypeBulletList     NodeType = "bulletList"
	TypeOrderedList    NodeType = "orderedList"
	TypeTaskList       NodeType = "taskList"
	TypeListItem       NodeType = "listItem"
	TypeTaskItem       NodeType = "taskItem"
	TypeBlockquote     NodeType = "blockquote"
	TypeCodeBlock      NodeType = "codeBlock"
	TypeHorizontalRule NodeType = "horizontalRule"
	TypeTable          NodeType = "table"
	TypeTableRow       NodeType = "tableRow"
	TypeTableCell      NodeType = "tableCell"
	TypeTableHeader    NodeType = "tableHeader"
	TypeText           NodeType = "text"
	TypeHardBreak      NodeType = "hardBreak"
)

type MarkType string

const (
	MarkBold   MarkType = "bold"
	MarkItalic MarkType = "italic"
	MarkCode   MarkType = "code"
	MarkLink   MarkType = "link"
)

// Node is a single node inside a document tree.
// The JSON form follows the editor convention: {"type":"doc","content":[...]}.
type Node struct {
	Type    NodeType `json:"type"`
	Attrs   *Attrs   `json:"attrs,omitempty"`
	Content []*Node  `json:"content,omitempty"`
	Marks   []Mark   `json:"marks,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Attrs carries the node-specific attributes.
type Attrs struct {
	Level    int    `json:"level,omitempty"`    // heading
	Language string `json:"language,omitempty"` // codeBlock
	Checked  bool   `json:"checked,omitempty"`  // taskItem
}

// Mark decorates a text run.
type Mark struct {
	Type  MarkType   `json:"type"`
	Attrs *MarkAttrs `json:"attrs,omitempty"`
}

// MarkAttrs carries the mark-specific attributes.
type MarkAttrs struct {
	Href string `json:"href,omitempty"` // link
}

/* Constructors */

func Doc(children ...*Node) *Node {
	return &Node{Type: TypeDoc, Content: children}
}

func Paragraph(children ...*Node) *Node {
	return &Node{Type: TypeParagraph, Content: children}
}

func Heading(level int, children ...*Node) *Node {
	return &Node{Type: TypeHeading, Attrs: &Attrs{Level: level}, Content: children}
}

func BulletList(items ...*Node) *Node {
	return &Node{Type: TypeBulletList, Content: items}
}

func OrderedList(items ...*Node) *Node {
	return &Node{Type: TypeOrderedList, Content: items}
}

func TaskList(items ...*Node) *Node {
	return &Node{Type: TypeTaskList, Content: items}
}

func ListItem(children ...*Node) *Node {
	return &Node{Type: TypeListItem, Content: children}
}

func TaskItem(checked bool, children ...*Node) *Node {
	node := &Node{Type: TypeTaskItem, Content: children}
	if checked {
		node.Attrs = &Attrs{Checked: true}
	}
	return node
}

func Blockquote(children ...*Node) *Node {
	return &Node{Type: TypeBlockquote, Content: children}
}

func CodeBlock(language string, code string) *Node {
	node := &Node{Type: TypeCodeBlock}
	if language != "" {
		node.Attrs = &Attrs{Language: language}
	}
	if code != "" {
		node.Content = []*Node{Text(code)}
	}
	return node
}

func HorizontalRule() *Node {
	return &Node{Type: TypeHorizontalRule}
}

func Table(rows ...*Node) *Node {
	return &Node{Type: TypeTable, Content: rows}
}

func TableRow(cells ...*Node) *Node {
	return &Node{Type: TypeTableRow, Content: cells}
}

func TableCell(children ...*Node) *Node {
	return &Node{Type: TypeTableCell, Content: children}
}

func TableHeader(children ...*Node) *Node {
	return &Node{Type: TypeTableHeader, Content: children}
}

func Text(text string) *Node {
	return &Node{Type: TypeText, Text: text}
}

func TextWith(text string, marks ...Mark) *Node {
	return &Node{Type: TypeText, Text: text, Marks: marks}
}

func HardBreak() *Node {
	return &Node{Type: TypeHardBreak}
}

/* Marks */

func Bold() Mark {
	return Mark{Type: MarkBold}
}

func Italic() Mark {
	return Mark{Type: MarkItalic}
}

func Code() Mark {
	return Mark{Type: MarkCode}
}

func Link(href string) Mark {
	return Mark{Type: MarkLink, Attrs: &MarkAttrs{Href: href}}
}

/* Accessors */

// Level returns the heading level or 0.
func (n *Node) Level() int {
	if n.Attrs == nil {
		return 0
	}
	return n.Attrs.Level
}

// Language returns the code block language tag or "".
func (n *Node) Language() string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs.Language
}

// Checked returns if a task item is checked.
func (n *Node) Checked() bool {
	if n.Attrs == nil {
		return false
	}
	return n.Attrs.Checked
}

// HasMark returns if a text run carries a given mark.
func (n *Node) HasMark(markType MarkType) bool {
	for _, mark := range n.Marks {
		if mark.Type == markType {
			return true
		}
	}
	return false
}

// MarkHref returns the destination of the link mark or "".
func (n *Node) MarkHref() string {
	for _, mark := range n.Marks {
		if mark.Type == MarkLink && mark.Attrs != nil {
			return mark.Attrs.Href
		}
	}
	return ""
}

// IsBlock returns if a node is a block-level node.
func (n *Node) IsBlock() bool {
	switch n.Type {
	case TypeText, TypeHardBreak:
		return false
	}
	return true
}

// IsEmpty returns if a node contains no text at all.
func (n *Node) IsEmpty() bool {
	return n.PlainText() == ""
}

/* Traversal */

// Walk traverses the tree in preorder.
func (n *Node) Walk(fn func(node *Node)) {
	fn(n)
	for _, child := range n.Content {
		child.Walk(fn)
	}
}

// PlainText flattens a tree to its raw text, one line per block.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.appendPlainText(&sb)
	return strings.TrimSpace(sb.String())
}

func (n *Node) appendPlainText(sb *strings.Builder) {
	switch n.Type {
	case TypeText:
		sb.WriteString(n.Text)
	case TypeHardBreak:
		sb.WriteRune('\n')
	default:
		for _, child := range n.Content {
			before := sb.Len()
			child.appendPlainText(sb)
			if child.IsBlock() && sb.Len() > before {
				sb.WriteRune('\n')
			}
		}
	}
}

/* Format */

// ToJSON serializes a tree to its canonical compact JSON form.
func (n *Node) ToJSON() string {
	data, err := json.Marshal(n)
	if err != nil {
		// A tree of plain structs always marshals
		panic(err)
	}
	return string(data)
}

// FromJSON deserializes a tree from its JSON form.
func FromJSON(data string) (*Node, error) {
	var node Node
	if err := json.Unmarshal([]byte(data), &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// Clone returns a deep copy of a tree.
func (n *Node) Clone() *Node {
	var clone Node
	if err := copier.CopyWithOption(&clone, n, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return &clone
}

// Equal reports if two trees have the same structure, attributes, marks, and text.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ToJSON() == b.ToJSON()
}
