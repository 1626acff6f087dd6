// Package pdf renders a user's given or received feedback as a paginated
// A4 document, one line per record, in the layout the class portal has
// always shipped: 50pt margins, bold 16pt title, 12pt body, 20pt line step.
package pdf

import (
	"bytes"
	"fmt"

	"classfeedback/internal/domain"

	"github.com/go-pdf/fpdf" // PDF generation
)

const (
	margin    = 50.0 // Top/bottom/left margin in points
	titleSize = 16.0
	bodySize  = 12.0
	lineStep  = 20.0
	timeFmt   = "2006-01-02 15:04"
)

// GivenReport renders "Feedbacks Given by <name>", one "To <recipient>"
// line per record. Records are expected newest-first, as the store
// returns them.
func GivenReport(user *domain.User, items []domain.Feedback) ([]byte, error) {
	lines := make([]string, len(items))
	for i, f := range items {
		lines[i] = fmt.Sprintf("To %s (%s): %s", f.Recipient.Name, f.CreatedAt.Format(timeFmt), f.Content)
	}
	return render(fmt.Sprintf("Feedbacks Given by %s", user.Name), lines)
}

// ReceivedReport renders "Feedbacks Received by <name>", one
// "From <sender>" line per record.
func ReceivedReport(user *domain.User, items []domain.Feedback) ([]byte, error) {
	lines := make([]string, len(items))
	for i, f := range items {
		lines[i] = fmt.Sprintf("From %s (%s): %s", f.Sender.Name, f.CreatedAt.Format(timeFmt), f.Content)
	}
	return render(fmt.Sprintf("Feedbacks Received by %s", user.Name), lines)
}

func render(title string, lines []string) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0) // Page breaks are driven by the cursor below
	doc.AddPage()
	_, pageHeight := doc.GetPageSize()

	y := margin
	doc.SetFont("Helvetica", "B", titleSize)
	doc.Text(margin, y, title)
	y += 2 * lineStep

	doc.SetFont("Helvetica", "", bodySize)
	for _, line := range lines {
		doc.Text(margin, y, line)
		y += lineStep
		if y > pageHeight-margin {
			doc.AddPage()
			doc.SetFont("Helvetica", "", bodySize)
			y = margin
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
