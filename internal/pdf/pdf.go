// Package pdf renders invoices as A4 PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/atlekbai/timesheet/internal/invoice"
)

const (
	pageMargin      = 50.0
	footerY         = -30.0
	headerFontSize  = 20.0
	bodyFontSize    = 10.0
	commentFontSize = 14.0
	lineHeight      = 14.0
	rowHeight       = 20.0
	padding         = 5.0
	imageHeight     = 50.0
	font            = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	black         = rgb{0, 0, 0}
	blue          = rgb{0, 0, 255}
	lightGrey     = rgb{211, 211, 211}
	rowRule       = rgb{230, 230, 230}
	veryLightGrey = rgb{240, 240, 240}
)

// table column widths as fractions of the content width
var columns = []struct {
	title string
	width float64
	align string
}{
	{"#", 0.05, "L"},
	{"Description", 0.30, "L"},
	{"Date", 0.15, "R"},
	{"Wage", 0.15, "R"},
	{"Hours", 0.15, "R"},
	{"Total", 0.20, "R"},
}

var printer = message.NewPrinter(language.English)

// Money formats v as dollars with two decimals and thousands separators.
func Money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// Render writes the invoice document to w.
func Render(w io.Writer, d *invoice.Data) error {
	doc := newDocument(d)
	doc.header()
	doc.addresses()
	doc.sections()
	doc.grandTotal()
	doc.comments()
	if err := doc.f.Error(); err != nil {
		return fmt.Errorf("render invoice %s: %w", d.Invoice.Number, err)
	}
	return doc.f.Output(w)
}

// Bytes renders the invoice into memory.
func Bytes(d *invoice.Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the invoice into dir as d.FileName() and returns the path.
func WriteFile(dir string, d *invoice.Data) (string, error) {
	b, err := Bytes(d)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, d.FileName())
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

type document struct {
	f     *fpdf.Fpdf
	d     *invoice.Data
	tr    func(string) string
	width float64
}

func newDocument(d *invoice.Data) *document {
	f := fpdf.New("P", "pt", "A4", "")
	f.SetMargins(pageMargin, pageMargin, pageMargin)
	f.SetAutoPageBreak(true, pageMargin)
	f.SetTitle("Invoice #"+d.Invoice.Number, true)
	f.SetCreator("timesheet", true)
	f.SetCreationDate(d.Invoice.IssueDate.Time)
	f.SetModificationDate(d.Invoice.IssueDate.Time)
	f.AliasNbPages("")

	doc := &document{f: f, d: d, tr: f.UnicodeTranslatorFromDescriptor("")}
	pageW, _ := f.GetPageSize()
	doc.width = pageW - 2*pageMargin

	f.SetFooterFunc(func() {
		f.SetY(footerY)
		doc.font("", bodyFontSize, black)
		f.CellFormat(0, lineHeight, fmt.Sprintf("%d / {nb}", f.PageNo()), "", 0, "C", false, 0, "")
	})
	f.AddPage()
	return doc
}

func (doc *document) font(style string, size float64, c rgb) {
	doc.f.SetFont(font, style, size)
	doc.f.SetTextColor(c.r, c.g, c.b)
}

func (doc *document) header() {
	f := doc.f
	top := f.GetY()

	doc.font("B", headerFontSize, blue)
	f.CellFormat(doc.width*0.7, headerFontSize+padding, doc.tr("Invoice #"+doc.d.Invoice.Number), "", 1, "L", false, 0, "")
	doc.labelled("Issue date: ", doc.d.Invoice.IssueDate.String())
	doc.labelled("Due date: ", doc.d.Invoice.DueDate.String())
	bottom := f.GetY()

	if img := doc.d.Profile.Image; len(img) > 0 {
		if typ := imageType(img); typ != "" {
			x := pageMargin + doc.width*0.7
			f.SetFillColor(lightGrey.r, lightGrey.g, lightGrey.b)
			f.Rect(x, top, doc.width*0.3, imageHeight, "F")
			f.RegisterImageOptionsReader("profile", fpdf.ImageOptions{ImageType: typ}, bytes.NewReader(img))
			f.ImageOptions("profile", x, top, 0, imageHeight, false, fpdf.ImageOptions{ImageType: typ}, 0, "")
			bottom = max(bottom, top+imageHeight)
		}
	}
	f.SetY(bottom + 2*padding)
}

func (doc *document) labelled(label, value string) {
	f := doc.f
	doc.font("B", bodyFontSize, black)
	w := f.GetStringWidth(label)
	f.CellFormat(w, lineHeight, label, "", 0, "L", false, 0, "")
	doc.font("", bodyFontSize, black)
	f.CellFormat(0, lineHeight, doc.tr(value), "", 1, "L", false, 0, "")
}

func (doc *document) addresses() {
	f := doc.f
	f.Ln(20)
	top := f.GetY()
	colW := doc.width * 0.45

	p := doc.d.Profile
	from := []string{p.FullName(), p.Phone, p.Email, deref(p.Address), deref(p.Address2)}
	if city := deref(p.City); strings.TrimSpace(city) != "" {
		if p.Province != nil {
			city += ", " + *p.Province
		}
		from = append(from, city)
	}
	from = append(from, deref(p.Country), deref(p.PostalCode))

	c := doc.d.Client
	to := []string{c.Name, deref(c.ContactName), deref(c.ContactPhone), deref(c.ContactEmail)}

	leftBottom := doc.addressColumn(pageMargin, top, colW, "From", from)
	rightBottom := doc.addressColumn(pageMargin+doc.width*0.55, top, colW, "For", to)
	f.SetXY(pageMargin, max(leftBottom, rightBottom)+20)
}

func (doc *document) addressColumn(x, y, w float64, title string, lines []string) float64 {
	f := doc.f
	f.SetXY(x, y)
	doc.font("B", bodyFontSize, black)
	f.SetDrawColor(black.r, black.g, black.b)
	f.CellFormat(w, lineHeight+padding, title, "B", 2, "L", false, 0, "")
	f.SetY(f.GetY() + padding)
	doc.font("", bodyFontSize, black)
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		f.SetX(x)
		f.CellFormat(w, lineHeight, doc.tr(l), "", 2, "L", false, 0, "")
	}
	return f.GetY()
}

func (doc *document) sections() {
	f := doc.f
	for _, sec := range doc.d.Sections() {
		doc.font("B", bodyFontSize, black)
		f.SetFillColor(lightGrey.r, lightGrey.g, lightGrey.b)
		f.CellFormat(doc.width, rowHeight, doc.tr(sec.Project.Name), "", 1, "L", true, 0, "")

		for _, col := range columns {
			f.CellFormat(doc.width*col.width, rowHeight, col.title, "", 0, col.align, false, 0, "")
		}
		f.Ln(-1)
		f.SetDrawColor(black.r, black.g, black.b)
		f.Line(pageMargin, f.GetY(), pageMargin+doc.width, f.GetY())

		doc.font("", bodyFontSize, black)
		f.SetDrawColor(rowRule.r, rowRule.g, rowRule.b)
		for i, l := range sec.Lines {
			cells := []string{
				fmt.Sprint(i + 1),
				deref(l.Timesheet.Note),
				l.Timesheet.Date.String(),
				Money(sec.Project.HourlyWage),
				fmt.Sprintf("%.2f", l.Hours),
				Money(l.Total),
			}
			for j, col := range columns {
				f.CellFormat(doc.width*col.width, rowHeight, doc.tr(truncate(f, cells[j], doc.width*col.width)), "B", 0, col.align, false, 0, "")
			}
			f.Ln(-1)
		}
		f.Ln(15)
	}
}

func (doc *document) grandTotal() {
	doc.font("B", bodyFontSize, black)
	doc.f.CellFormat(doc.width-padding, rowHeight, "Grand total: "+Money(doc.d.GrandTotal()), "", 1, "R", false, 0, "")
}

func (doc *document) comments() {
	text := deref(doc.d.Invoice.Comments)
	if strings.TrimSpace(text) == "" {
		return
	}
	f := doc.f
	f.Ln(25)
	f.SetFillColor(veryLightGrey.r, veryLightGrey.g, veryLightGrey.b)
	doc.font("B", commentFontSize, black)
	f.CellFormat(doc.width, commentFontSize+2*padding, " Comments", "", 1, "L", true, 0, "")
	doc.font("", bodyFontSize, black)
	f.MultiCell(doc.width, lineHeight, doc.tr(text), "", "L", true)
}

// truncate shortens s with an ellipsis so it fits in w.
func truncate(f *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2*f.GetCellMargin()
	if f.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && f.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// imageType maps sniffed image content to an fpdf image type.
func imageType(b []byte) string {
	switch http.DetectContentType(b) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
