package services

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed templates/statement.html
var statementHTML string

var statementTemplate = template.Must(template.New("statement").Parse(statementHTML))

type PDFRenderer interface {
	RenderPDF(ctx context.Context, htmlContent string) ([]byte, error)
}

// ChromePDFRenderer prints HTML with a headless Chrome instance.
type ChromePDFRenderer struct {
	Timeout time.Duration
}

func (r ChromePDFRenderer) RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

type StatementService struct {
	renderer PDFRenderer
}

func NewStatementService(renderer PDFRenderer) *StatementService {
	return &StatementService{renderer: renderer}
}

func (s *StatementService) RenderHTML(summary *RewardSummary, email string, now time.Time) (string, error) {
	data := struct {
		Email       string
		GeneratedAt string
		Summary     *RewardSummary
	}{
		Email:       email,
		GeneratedAt: now.Format("January 2, 2006 15:04 MST"),
		Summary:     summary,
	}

	var rendered bytes.Buffer
	if err := statementTemplate.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// Render produces the PDF statement of a reward summary.
func (s *StatementService) Render(ctx context.Context, summary *RewardSummary, email string, now time.Time) ([]byte, error) {
	htmlContent, err := s.RenderHTML(summary, email, now)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderPDF(ctx, htmlContent)
}
