// File: internal/services/report/compositor.go

// Package report renders a document's invoice image, OCR text and chat
// transcript into a single paginated PDF.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/invoicelens/go-invoicelens/internal/domain"
)

// Layout constants. A4 portrait in points, Helvetica 11pt, 14pt line
// height, 40pt margins on all sides.
const (
	fontFamily = "Helvetica"
	fontSize   = 11.0
	lineHeight = 14.0
	margin     = 40.0
)

var ErrUnsupportedImageType = errors.New("unsupported image type for export")

// MeasureFunc returns the rendered width of a string at the report font.
type MeasureFunc func(s string) float64

// Compose renders the export PDF: page 1 carries the original invoice
// image scaled to fit and centered, the following pages carry the OCR
// text and chat transcript. The caller passes the document with OCR
// result and threads (messages in ascending creation order) preloaded.
func Compose(doc *domain.Document, imageBytes []byte) ([]byte, error) {
	imageType, err := imageTypeForMime(doc.MimeType)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pageW, pageH := pdf.GetPageSize()

	// Page 1: original image, uniformly scaled and centered.
	pdf.AddPage()
	opts := fpdf.ImageOptions{ImageType: imageType}
	info := pdf.RegisterImageOptionsReader("invoice", opts, bytes.NewReader(imageBytes))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("decoding invoice image: %w", err)
	}

	imgW, imgH := info.Width(), info.Height()
	if imgW <= 0 || imgH <= 0 {
		return nil, fmt.Errorf("decoding invoice image: zero dimensions")
	}
	scale := math.Min(pageW/imgW, pageH/imgH)
	drawW, drawH := imgW*scale, imgH*scale
	pdf.ImageOptions("invoice", (pageW-drawW)/2, (pageH-drawH)/2, drawW, drawH, false, opts, 0, "")

	// Page 2+: OCR text and chat transcript, wrapped and paginated.
	pdf.SetFont(fontFamily, "", fontSize)
	measure := func(s string) float64 { return pdf.GetStringWidth(s) }

	var wrapped []string
	maxWidth := pageW - 2*margin
	for _, logical := range BuildContentLines(doc) {
		wrapped = append(wrapped, WrapLine(logical, maxWidth, measure)...)
	}

	for _, page := range LayoutPages(wrapped, pageH) {
		pdf.AddPage()
		y := margin
		for _, line := range page {
			pdf.Text(margin, y, line)
			y += lineHeight
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func imageTypeForMime(mimeType string) (string, error) {
	switch mimeType {
	case "image/png":
		return "PNG", nil
	case "image/jpeg", "image/jpg":
		return "JPG", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, mimeType)
	}
}

// BuildContentLines assembles the logical text lines of the report:
// header, OCR section, then every thread's messages as "[role] content"
// with a blank separator after each thread. Line endings inside the OCR
// text are normalized before splitting.
func BuildContentLines(doc *domain.Document) []string {
	ocrText := "(no OCR text)"
	if doc.Ocr != nil && doc.Ocr.Text != "" {
		ocrText = doc.Ocr.Text
	}

	content := []string{
		"Document: " + doc.OriginalName,
		"Created: " + doc.CreatedAt.UTC().Format(time.RFC3339),
		"",
		"=== OCR TEXT ===",
		ocrText,
		"",
		"=== CHAT ===",
	}

	for _, th := range doc.Threads {
		for _, m := range th.Messages {
			content = append(content, fmt.Sprintf("[%s] %s", m.Role, m.Content))
		}
		content = append(content, "")
	}

	return splitLines(strings.Join(content, "\n"))
}

// splitLines normalizes CR-LF to LF and splits into logical lines.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// WrapLine greedily wraps one logical line: words accumulate while the
// measured width stays within maxWidth; the word that would overflow
// starts the next line. A word wider than maxWidth is never split. An
// empty logical line becomes a single space so blank lines keep their
// vertical spacing.
func WrapLine(line string, maxWidth float64, measure MeasureFunc) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{" "}
	}

	var wrapped []string
	current := ""
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if measure(candidate) > maxWidth {
			if current != "" {
				wrapped = append(wrapped, current)
			}
			current = w
		} else {
			current = candidate
		}
	}
	if current != "" {
		wrapped = append(wrapped, current)
	}
	return wrapped
}

// LayoutPages distributes wrapped lines over pages: the baseline cursor
// starts at the top margin and advances one line height per line; a
// line whose baseline would fall below the bottom margin opens a new
// page. Always returns at least one (possibly empty) page.
func LayoutPages(lines []string, pageHeight float64) [][]string {
	pages := [][]string{{}}
	y := margin
	for _, line := range lines {
		if y > pageHeight-margin {
			pages = append(pages, []string{})
			y = margin
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], line)
		y += lineHeight
	}
	return pages
}
