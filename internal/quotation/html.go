package quotation

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/quotation.html
var quotationHTML string

var htmlTemplate = template.Must(template.New("quotation").Funcs(template.FuncMap{
	"inr":     FormatINR,
	"percent": FormatPercent,
	"date":    func(t time.Time) string { return t.Format("02 Jan 2006") },
	"lines":   func(s string) []string { return strings.Split(strings.TrimSpace(s), "\n") },
	"inc":     func(i int) int { return i + 1 },
}).Parse(quotationHTML))

// RenderHTML renders the quotation as a standalone HTML page.
func RenderHTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render quotation html: %w", err)
	}
	return buf.String(), nil
}
