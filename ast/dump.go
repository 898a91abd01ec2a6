package ast

import (
	"bytes"
	"strconv"
)

// Dump returns a compact single-line representation of the nodes, used by tests and for
// debugging. Elements are written as name{attrs}[children]:closing.
func Dump(nodes []Node) string {
	b := &bytes.Buffer{}
	dump(b, nodes)
	return b.String()
}

func dump(b *bytes.Buffer, nodes []Node) {
	for i, n := range nodes {
		if 0 < i {
			b.WriteByte(' ')
		}
		switch n := n.(type) {
		case *Bang:
			b.WriteString("Bang(")
			b.WriteString(strconv.Quote(string(n.Code)))
			if !n.Ended {
				b.WriteString(",unended")
			}
			b.WriteByte(')')
		case *Comment:
			b.WriteString("Comment(")
			b.WriteString(strconv.Quote(string(n.Code)))
			if !n.Ended {
				b.WriteString(",unended")
			}
			if n.Bogus {
				b.WriteString(",bogus")
			}
			b.WriteByte(')')
		case *Instruction:
			b.WriteString("Instruction(")
			b.WriteString(strconv.Quote(string(n.Code)))
			if !n.Ended {
				b.WriteString(",unended")
			}
			b.WriteByte(')')
		case *Element:
			if n.Namespace != HTML {
				b.WriteString(n.Namespace.String())
				b.WriteByte(':')
			}
			b.Write(n.Name)
			if 0 < len(n.Attrs) {
				b.WriteByte('{')
				for j, attr := range n.Attrs {
					if 0 < j {
						b.WriteByte(' ')
					}
					if attr.Template {
						if 0 < len(attr.Name) {
							b.Write(attr.Name)
							b.WriteByte('=')
						}
						b.Write(attr.Raw)
						continue
					}
					b.Write(attr.Name)
					b.WriteByte('=')
					b.WriteString(strconv.Quote(string(attr.Value)))
				}
				b.WriteByte('}')
			}
			if 0 < len(n.Children) {
				b.WriteByte('[')
				dump(b, n.Children)
				b.WriteByte(']')
			}
			b.WriteByte(':')
			b.WriteString(n.Closing.String())
			if n.Stray {
				b.WriteString(",stray")
			}
			if n.Ignored {
				b.WriteString(",ignored")
			}
		case *ScriptOrStyleContent:
			b.WriteString(n.Lang.String())
			b.WriteByte('(')
			b.WriteString(strconv.Quote(string(n.Code)))
			b.WriteByte(')')
		case *Text:
			b.WriteString(strconv.Quote(string(n.Value)))
		case *Template:
			b.WriteString("Template(")
			b.WriteString(strconv.Quote(string(n.Code)))
			if !n.Ended {
				b.WriteString(",unended")
			}
			b.WriteByte(')')
		}
	}
}
