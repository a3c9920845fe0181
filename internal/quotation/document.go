// Package quotation turns a costed project into a customer-facing quotation
// document: HTML for display and storage, and an Excel workbook for export.
package quotation

import (
	"time"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/google/uuid"
)

// Header carries the identifying details printed at the top of a quotation.
type Header struct {
	Number       string
	Date         time.Time
	ValidUntil   time.Time
	CompanyName  string
	ProjectName  string
	ClientName   string
	Location     string
	Terms        string
	ServiceNames map[string]string
}

// Line is one priced row in a washroom section.
type Line struct {
	Description string
	Unit        string
	Rate        float64
	Amount      float64
}

// Section groups the lines of a single washroom.
type Section struct {
	Name        string
	TotalArea   float64
	Lines       []Line
	ProductCost float64
	Total       float64
}

// Totals is the bottom block of a quotation.
type Totals struct {
	OriginalEstimate   float64
	ExecutionTotal     float64
	VendorTotal        float64
	AdditionalTotal    float64
	ProductTotal       float64
	InternalPricing    bool
	MarginPercentage   float64
	MarginAmount       float64
	GSTPercentage      float64
	GSTAmount          float64
	Subtotal           float64
	RoundOff           float64
	GrandTotal         float64
	AmountInWords      string
	HighMarginWarnings []string
}

// Document is a fully computed quotation ready to render.
type Document struct {
	Header   Header
	Sections []Section
	Totals   Totals
}

// NewDocument lays out a project cost summary as a quotation. Amounts are
// rounded to paise and the grand total to the nearest rupee.
func NewDocument(h Header, summary costing.ProjectCostSummary, areas map[uuid.UUID]float64) Document {
	doc := Document{Header: h}

	for _, wc := range summary.OrderedWashroomCosts() {
		section := Section{
			Name:        wc.Name,
			TotalArea:   areas[wc.WashroomID],
			ProductCost: RoundPaise(wc.ProductCosts),
			Total:       RoundPaise(wc.TotalCost),
		}
		for _, l := range wc.Lines {
			desc := h.ServiceNames[l.Code]
			if desc == "" {
				desc = l.Code
			}
			section.Lines = append(section.Lines, Line{
				Description: desc,
				Unit:        string(l.Unit),
				Rate:        RoundPaise(l.ResolvedRate),
				Amount:      RoundPaise(l.EstimatedLineCost),
			})
		}
		doc.Sections = append(doc.Sections, section)
	}

	t := Totals{
		OriginalEstimate: RoundPaise(summary.OriginalEstimate),
		ExecutionTotal:   RoundPaise(summary.ExecutionTotal),
		VendorTotal:      RoundPaise(summary.VendorTotal),
		AdditionalTotal:  RoundPaise(summary.AdditionalTotal),
		ProductTotal:     RoundPaise(summary.ProductCostsTotal),
		InternalPricing:  summary.InternalPricingEnabled,
		Subtotal:         RoundPaise(summary.FinalQuotationAmount),
	}
	if p := summary.Pricing; p != nil {
		t.MarginPercentage = p.Pricing.MarginPercentage
		t.MarginAmount = RoundPaise(p.Pricing.MarginAmount)
		t.GSTPercentage = p.Pricing.GSTPercentage
		t.GSTAmount = RoundPaise(p.Pricing.GSTAmount)
		t.HighMarginWarnings = p.Pricing.Warnings
	}
	t.GrandTotal, t.RoundOff = RoundOff(summary.FinalQuotationAmount)
	t.AmountInWords = AmountToWords(t.GrandTotal)
	doc.Totals = t

	return doc
}
