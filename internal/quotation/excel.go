package quotation

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName    = "Quotation"
	rupeeNumFmt  = `"₹"#,##,##0.00`
	excelLastCol = "E"
)

// ExportExcel writes the quotation to an .xlsx workbook with one block per
// washroom followed by the summary. Amounts are stored as numbers.
func ExportExcel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for col, width := range map[string]float64{"A": 6, "B": 44, "C": 14, "D": 16, "E": 18} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, row: 1}
	w.merged(doc.Header.CompanyName, styles.title)
	w.merged("Quotation No.: "+doc.Header.Number, 0)
	w.merged("Date: "+doc.Header.Date.Format("02 Jan 2006")+"   Valid until: "+doc.Header.ValidUntil.Format("02 Jan 2006"), 0)
	w.merged("Client: "+doc.Header.ClientName+"   Project: "+doc.Header.ProjectName+"   Location: "+doc.Header.Location, 0)
	w.row++

	for _, s := range doc.Sections {
		w.merged(s.Name, styles.section)
		w.values(styles.header, "#", "Description", "Unit", "Rate", "Amount")
		for i, l := range s.Lines {
			w.values(styles.cell, i+1, l.Description, l.Unit, l.Rate, l.Amount)
			w.style("D", "E", styles.money)
		}
		w.values(styles.cell, "", "Products and fixtures", "", "", s.ProductCost)
		w.style("E", "E", styles.money)
		w.values(styles.bold, "", "Washroom total", "", "", s.Total)
		w.style("E", "E", styles.boldMoney)
		w.row++
	}

	t := doc.Totals
	if t.InternalPricing {
		w.summary("Execution (incl. vendor and additional)", t.ExecutionTotal, styles)
		w.summary("Margin ("+FormatPercent(t.MarginPercentage)+")", t.MarginAmount, styles)
		w.summary("GST ("+FormatPercent(t.GSTPercentage)+")", t.GSTAmount, styles)
		w.summary("Products and fixtures", t.ProductTotal, styles)
	} else {
		w.summary("Original estimate", t.OriginalEstimate, styles)
		w.summary("Execution", t.ExecutionTotal, styles)
		w.summary("Vendor", t.VendorTotal, styles)
		w.summary("Additional", t.AdditionalTotal, styles)
	}
	w.summary("Round off", t.RoundOff, styles)
	w.summary("Grand total", t.GrandTotal, styles)
	w.merged(t.AmountInWords, 0)

	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type excelStyles struct {
	title, section, header, cell, bold, money, boldMoney, label int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var s excelStyles
	numFmt := rupeeNumFmt
	border := thinBorders()

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&s.section, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border:    border,
		}},
		{&s.cell, &excelize.Style{Border: border}},
		{&s.bold, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: border}},
		{&s.money, &excelize.Style{Border: border, CustomNumFmt: &numFmt}},
		{&s.boldMoney, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: border, CustomNumFmt: &numFmt}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: &excelize.Alignment{Horizontal: "right"}}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func (w *sheetWriter) cell(col string) string {
	return fmt.Sprintf("%s%d", col, w.row)
}

func (w *sheetWriter) merged(text string, style int) {
	if w.err != nil {
		return
	}
	if err := w.f.MergeCell(sheetName, w.cell("A"), w.cell(excelLastCol)); err != nil {
		w.err = fmt.Errorf("merge row %d: %w", w.row, err)
		return
	}
	w.set("A", sanitizeExcelCell(text))
	if style != 0 {
		w.applyStyle("A", excelLastCol, style)
	}
	w.row++
}

func (w *sheetWriter) values(style int, vals ...any) {
	if w.err != nil {
		return
	}
	cols := []string{"A", "B", "C", "D", "E"}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			v = sanitizeExcelCell(s)
		}
		w.set(cols[i], v)
	}
	w.applyStyle("A", cols[len(vals)-1], style)
	w.row++
}

// style restyles columns of the row just written.
func (w *sheetWriter) style(from, to string, style int) {
	w.row--
	w.applyStyle(from, to, style)
	w.row++
}

func (w *sheetWriter) summary(label string, amount float64, s excelStyles) {
	if w.err != nil {
		return
	}
	w.set("D", label)
	w.set("E", amount)
	w.applyStyle("D", "D", s.label)
	w.applyStyle("E", "E", s.boldMoney)
	w.row++
}

func (w *sheetWriter) set(col string, v any) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(sheetName, w.cell(col), v); err != nil {
		w.err = fmt.Errorf("set %s: %w", w.cell(col), err)
	}
}

func (w *sheetWriter) applyStyle(from, to string, style int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(sheetName, w.cell(from), w.cell(to), style); err != nil {
		w.err = fmt.Errorf("style %s: %w", w.cell(from), err)
	}
}

// sanitizeExcelCell neutralises text that Excel would evaluate as a formula.
func sanitizeExcelCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
