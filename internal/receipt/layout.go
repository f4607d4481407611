package receipt

import (
	"github.com/RaikyD/remit-desk/internal/domain"
	"golang.org/x/image/font"
	"math"
	"strconv"
	"strings"
)

// Canvas geometry. Everything is laid out in pixels at DPI and converted to
// inches when the page is written, so changing DPI keeps the page 4x6in.
const (
	DPI          = 200
	PageWidthIn  = 4.0
	PageHeightIn = 6.0
	PageWidth    = int(PageWidthIn * DPI)
	PageHeight   = int(PageHeightIn * DPI)

	topMargin   = 20
	lineHeight  = 28
	sectionGap  = 10
	ruleGap     = 15
	ruleInset   = 40
	ruleWidth   = 2
	headingX    = 40
	fieldX      = 60
	receiptName = "VUACHUYENHANG.COM"
)

type Role int

const (
	RoleTitle Role = iota
	RoleSection
	RoleBody
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Line is a single run of text; Y is the top of the line box.
type Line struct {
	Text string
	X, Y int
	Role Role
}

// Rule is a horizontal bar spanning [X0, X1) starting at Y.
type Rule struct {
	X0, X1, Y, Width int
}

type Page struct {
	Lines []Line
	Rules []Rule
}

// Text returns the lines of the page joined by newlines.
func (p Page) Text() string {
	parts := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

type cursor struct {
	fonts Fonts
	y     int
	page  Page
}

// text places s on the current row and advances one line. For AlignRight x is
// the distance from the right edge.
func (c *cursor) text(x int, s string, role Role, align Align) {
	switch align {
	case AlignCenter:
		x = (PageWidth - measure(c.fonts.face(role), s)) / 2
	case AlignRight:
		x = PageWidth - x - measure(c.fonts.face(role), s)
	}
	c.page.Lines = append(c.page.Lines, Line{Text: s, X: x, Y: c.y, Role: role})
	c.y += lineHeight
}

func (c *cursor) rule() {
	c.page.Rules = append(c.page.Rules, Rule{
		X0:    ruleInset,
		X1:    PageWidth - ruleInset,
		Y:     c.y,
		Width: ruleWidth,
	})
	c.y += ruleGap
}

func (c *cursor) gap(px int) {
	c.y += px
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Round()
}

// Layout positions every receipt line for o. Long values are not wrapped.
func Layout(o *domain.OrderWithSender, fonts Fonts) Page {
	c := &cursor{fonts: fonts, y: topMargin}

	c.text(0, receiptName, RoleTitle, AlignCenter)
	c.rule()

	c.text(headingX, "Tracking: "+o.TrackingNumber, RoleBody, AlignLeft)
	c.text(headingX, "Date: "+o.SendDate, RoleBody, AlignLeft)
	c.gap(sectionGap)

	c.text(headingX, "Sender", RoleSection, AlignLeft)
	c.text(fieldX, "Name: "+o.SenderName, RoleBody, AlignLeft)
	c.text(fieldX, "License: "+o.SenderDriverLicense, RoleBody, AlignLeft)
	c.text(fieldX, "Birth: "+o.SenderBirthDate, RoleBody, AlignLeft)
	c.text(fieldX, "Address: "+o.SenderAddress, RoleBody, AlignLeft)
	c.text(fieldX, "Phone: "+o.SenderPhone, RoleBody, AlignLeft)
	c.gap(sectionGap)

	c.text(headingX, "Receiver", RoleSection, AlignLeft)
	c.text(fieldX, "Name: "+o.ReceiverName, RoleBody, AlignLeft)
	c.text(fieldX, "Address: "+o.ReceiverAddress, RoleBody, AlignLeft)
	c.text(fieldX, "Phone: "+o.ReceiverPhone, RoleBody, AlignLeft)
	c.gap(sectionGap)

	c.text(headingX, "Details", RoleSection, AlignLeft)
	c.text(fieldX, "Exchange rate: "+FormatFloat(o.ExchangeRate), RoleBody, AlignLeft)
	c.text(fieldX, "Amount: "+FormatFloat(o.Amount), RoleBody, AlignLeft)
	c.text(fieldX, "Fee: "+FormatFloat(o.Fee), RoleBody, AlignLeft)
	c.text(fieldX, "Total: "+FormatFloat(o.Total), RoleBody, AlignLeft)
	c.text(fieldX, "Status: "+o.Status, RoleBody, AlignLeft)

	return c.page
}

// FormatFloat prints v as its shortest round-trip form, always with a decimal
// point or exponent: 105 -> "105.0", 0.1 -> "0.1", 1e16 -> "1e+16".
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
