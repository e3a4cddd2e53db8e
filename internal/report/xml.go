// =============================================================================
// Payment Auditor - XML Report
// =============================================================================
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <auditReport run="…" source="pagos.xlsx" fiscalYear="2025" generated="…">
//     <rule name="Montos negativos no autorizados" count="1">
//       <row line="4">
//         <cell column="Provider">Globex</cell>
//         <cell column="Amount">-20</cell>
//         <cell column="PaymentDate"/>            <!-- missing -->
//       </row>
//     </rule>
//     <rule name="Pagos duplicados" count="0"/>
//     <rule name="…" count="0" error="…"/>
//   </auditReport>
//
// =============================================================================

package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ginjaninja78/payment-auditor/internal/audit"
)

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// WriteXML writes the result set as an XML document.
func WriteXML(w io.Writer, rs *audit.ResultSet, meta Meta) error {
	doc := buildDocument(rs, meta)

	var buffer bytes.Buffer
	buffer.WriteString(xml.Header)
	writeElement(&buffer, doc, "  ", 0)

	_, err := w.Write(buffer.Bytes())
	return err
}

// buildDocument constructs the XML document structure.
func buildDocument(rs *audit.ResultSet, meta Meta) XMLElement {
	root := XMLElement{
		XMLName: xml.Name{Local: "auditReport"},
		Attributes: []xml.Attr{
			attr("run", meta.RunID.String()),
			attr("source", meta.Source),
			attr("fiscalYear", strconv.Itoa(meta.FiscalYear)),
			attr("window", rs.Window.String()),
			attr("generated", meta.GeneratedAt.Format(time.RFC3339)),
		},
	}

	for _, r := range rs.Results {
		rule := XMLElement{
			XMLName: xml.Name{Local: "rule"},
			Attributes: []xml.Attr{
				attr("name", r.Name),
				attr("count", strconv.Itoa(r.Count())),
			},
		}
		if r.Err != nil {
			rule.Attributes = append(rule.Attributes, attr("error", r.Err.Error()))
		}

		for _, row := range r.Rows {
			rowElement := XMLElement{
				XMLName:    xml.Name{Local: "row"},
				Attributes: []xml.Attr{attr("line", strconv.Itoa(row.Line))},
			}
			for _, col := range rs.Columns {
				rowElement.Children = append(rowElement.Children, XMLElement{
					XMLName:    xml.Name{Local: "cell"},
					Attributes: []xml.Attr{attr("column", col)},
					Value:      cellText(row, col),
				})
			}
			rule.Children = append(rule.Children, rowElement)
		}

		root.Children = append(root.Children, rule)
	}

	return root
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, a := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", a.Name.Local, escapeXML(a.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes text and attribute values.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	xml.EscapeText(&buffer, []byte(s))
	return buffer.String()
}
