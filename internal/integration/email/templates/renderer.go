// Package templates renders the notification emails.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shopspring/decimal"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

//go:embed *.html *.txt
var templateFS embed.FS

// Renderer renders the HTML and text versions of each template.
type Renderer struct {
	htmlTemplates *htmltemplate.Template
	textTemplates *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := map[string]any{"brl": valueobject.FormatBRL}

	htmlTmpl, err := htmltemplate.New("email").Funcs(funcs).ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	textTmpl, err := texttemplate.New("email").Funcs(funcs).ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
	}, nil
}

// Render renders both versions of a template. Both must exist.
func (r *Renderer) Render(templateName string, data any) (html string, text string, err error) {
	var htmlBuf bytes.Buffer
	if err := r.htmlTemplates.ExecuteTemplate(&htmlBuf, templateName+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render HTML template %s: %w", templateName, err)
	}

	var textBuf bytes.Buffer
	if err := r.textTemplates.ExecuteTemplate(&textBuf, templateName+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to render text template %s: %w", templateName, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// BudgetExceededData feeds the budget_exceeded template.
type BudgetExceededData struct {
	UserName string
	Category string
	Month    string
	Limit    decimal.Decimal
	Spent    decimal.Decimal
	AppURL   string
}

// Over returns how much the spending exceeds the limit.
func (d BudgetExceededData) Over() decimal.Decimal {
	return d.Spent.Sub(d.Limit)
}

// CategoryLine is one row of the digest breakdown.
type CategoryLine struct {
	Category string
	Total    decimal.Decimal
}

// MonthlyDigestData feeds the monthly_digest template.
type MonthlyDigestData struct {
	UserName string
	Month    string
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Balance  decimal.Decimal
	TopSpend []CategoryLine
	AppURL   string
}

// Negative reports whether the month closed with a deficit.
func (d MonthlyDigestData) Negative() bool {
	return d.Balance.IsNegative()
}
