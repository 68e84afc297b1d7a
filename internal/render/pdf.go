package render

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
)

// A4 page geometry and the report's text layout, in PDF points.
const (
	pageWidth  = 595
	pageHeight = 842

	leftMargin   = 50
	topTitleY    = pageHeight - 50
	topBodyY     = pageHeight - 80
	pageBreakY   = 60
	freshPageY   = pageHeight - 60
	lineSpacing  = 14
	sectionSpace = 18
	sectionGap   = 10

	// maxLineChars is the naive wrap width. The report is a fixed-layout
	// audit document; character-count wrapping keeps rendering
	// deterministic without font metrics.
	maxLineChars = 105
)

// Report renders a submission as a PDF document laid out in the exact
// canonical section order. Empty fields are rendered blank, not omitted,
// so row alignment stays stable for downstream audit.
func Report(title string, sub domain.Submission) ([]byte, error) {
	p := newPageBuilder()

	p.draw("F2", 16, topTitleY, title)
	p.y = topBodyY

	for _, section := range domain.ReportSections {
		p.drawLine("F2", 12, section.Title)
		p.advance(sectionSpace - lineSpacing)

		for _, field := range section.Fields {
			p.drawWrapped("F1", 11, fmt.Sprintf("%s: %s", field, sub.Field(field)))
		}

		p.advance(sectionGap)
	}

	return assemblePDF(title, p.finish())
}

// ValidatePDF runs a structural validation over rendered PDF bytes.
// An artifact that fails validation is treated as a rendering failure.
func ValidatePDF(content []byte) error {
	if err := api.Validate(bytes.NewReader(content), model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("pdf validation: %w", err)
	}
	return nil
}

// pageBuilder accumulates per-page content streams with the report's
// top-down line layout.
type pageBuilder struct {
	pages []*bytes.Buffer
	buf   *bytes.Buffer
	y     int
}

func newPageBuilder() *pageBuilder {
	p := &pageBuilder{}
	p.newPage()
	return p
}

func (p *pageBuilder) newPage() {
	p.buf = &bytes.Buffer{}
	p.pages = append(p.pages, p.buf)
	p.y = freshPageY
}

// draw places one text run at an absolute baseline without advancing.
func (p *pageBuilder) draw(font string, size, y int, text string) {
	fmt.Fprintf(p.buf, "BT /%s %d Tf %d %d Td (%s) Tj ET\n",
		font, size, leftMargin, y, escapePDFString(text))
}

// drawLine places text at the current baseline and advances one line.
func (p *pageBuilder) drawLine(font string, size int, text string) {
	p.draw(font, size, p.y, text)
	p.advance(lineSpacing)
}

// drawWrapped draws text with naive character-count wrapping,
// continuation lines indented by four spaces.
func (p *pageBuilder) drawWrapped(font string, size int, text string) {
	line := sanitiseText(text)
	for len([]rune(line)) > maxLineChars {
		runes := []rune(line)
		p.drawLine(font, size, string(runes[:maxLineChars]))
		line = "    " + string(runes[maxLineChars:])
	}
	p.drawLine(font, size, line)
}

// advance moves the baseline down, breaking to a fresh page when the
// bottom margin is crossed.
func (p *pageBuilder) advance(pad int) {
	p.y -= pad
	if p.y < pageBreakY {
		p.newPage()
	}
}

func (p *pageBuilder) finish() [][]byte {
	out := make([][]byte, len(p.pages))
	for i, b := range p.pages {
		out[i] = b.Bytes()
	}
	return out
}

// assemblePDF writes a complete single-font-pair PDF file around the
// given page content streams. Object layout:
//
//	1 catalog, 2 page tree, 3 Helvetica, 4 Helvetica-Bold, 5 info,
//	then alternating page / content-stream objects.
//
// No creation date is written; output depends only on the input.
func assemblePDF(title string, pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to assemble")
	}

	const fixedObjects = 5
	pageObj := func(i int) int { return fixedObjects + 1 + 2*i }
	streamObj := func(i int) int { return fixedObjects + 2 + 2*i }
	objCount := fixedObjects + 2*len(pages)

	var out bytes.Buffer
	offsets := make([]int, objCount+1)

	writeObj := func(num int, body string) {
		offsets[num] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	out.WriteString("%PDF-1.4\n")

	kids := &bytes.Buffer{}
	for i := range pages {
		if i > 0 {
			kids.WriteByte(' ')
		}
		fmt.Fprintf(kids, "%d 0 R", pageObj(i))
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	writeObj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>")
	writeObj(5, fmt.Sprintf("<< /Title (%s) >>", escapePDFString(title)))

	for i, content := range pages {
		writeObj(pageObj(i), fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] "+
				"/Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
			pageWidth, pageHeight, streamObj(i)))

		offsets[streamObj(i)] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n<< /Length %d >>\nstream\n", streamObj(i), len(content))
		out.Write(content)
		out.WriteString("endstream\nendobj\n")
	}

	xrefOffset := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", objCount+1)
	out.WriteString("0000000000 65535 f \n")
	for num := 1; num <= objCount; num++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R /Info 5 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		objCount+1, xrefOffset)

	return out.Bytes(), nil
}

// sanitiseText flattens control characters so one logical value renders
// as one wrapped run.
func sanitiseText(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			out = append(out, ' ')
		case r < 0x20:
			// drop other control characters
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// escapePDFString escapes a string for a PDF literal string object.
// Runes outside WinAnsi range are replaced to keep output byte-stable.
func escapePDFString(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch {
		case r == '\\' || r == '(' || r == ')':
			out.WriteByte('\\')
			out.WriteByte(byte(r))
		case r > 0xFF:
			out.WriteByte('?')
		case r >= 0x20:
			out.WriteByte(byte(r))
		}
	}
	return out.String()
}
