package certificate

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// PDFRenderer writes a one-page A4 PDF with the standard Helvetica fonts.
// The document structure is small enough that no PDF library is needed: a
// fixed object set (catalog, page tree, page, two fonts, one content stream)
// plus a computed xref table.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var _ Renderer = (*PDFRenderer)(nil)

const (
	pageWidth  = 595 // A4 in points
	pageHeight = 842
)

// Render writes the certificate as a PDF document.
func (r *PDFRenderer) Render(data Data, w io.Writer) error {
	content := buildContentStream("InfraBondX Investment Certificate", data.Lines())

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 6 0 R >>", pageWidth, pageHeight),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)

	_, err := w.Write(buf.Bytes())
	return err
}

// buildContentStream lays out a bold title and the body lines top-down.
func buildContentStream(title string, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BT /F1 18 Tf 50 %d Td (%s) Tj ET\n", pageHeight-60, escapePDFText(title))
	fmt.Fprintf(&b, "BT /F2 12 Tf 50 %d Td 18 TL\n", pageHeight-110)
	for i, line := range lines {
		if i > 0 {
			b.WriteString("T* ")
		}
		fmt.Fprintf(&b, "(%s) Tj\n", escapePDFText(line))
	}
	b.WriteString("ET")
	return b.String()
}

// escapePDFText escapes the characters PDF string literals reserve.
func escapePDFText(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return replacer.Replace(s)
}
