package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"image"
	"image/png"
	"strings"
	"unicode"
)

const ContentType = "application/pdf"

var ErrNoOrder = errors.New("receipt: no order to render")

// Filename is the suggested download name for an order's receipt.
func Filename(trackingNumber string) string {
	return "order_" + trackingNumber + ".pdf"
}

// Renderer turns joined order records into single-page 4x6in PDF receipts.
// It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	fonts FontLoader
}

// NewRenderer uses fonts for every render; nil means the built-in face only.
func NewRenderer(fonts FontLoader) *Renderer {
	return &Renderer{fonts: fonts}
}

// Render draws o on a 200 DPI canvas and wraps it into a PDF page. Apart from
// a nil order, only a failure inside the PDF encoder returns an error.
func (r *Renderer) Render(o *domain.OrderWithSender) ([]byte, error) {
	if o == nil {
		return nil, ErrNoOrder
	}

	fonts := LoadFonts(r.fonts)
	page := Layout(o, fonts)
	img := rasterize(page, fonts)

	out, err := encodePDF(page, img, "Receipt "+o.TrackingNumber)
	if err != nil {
		return nil, fmt.Errorf("encode receipt %s: %w", o.TrackingNumber, err)
	}
	return out, nil
}

func rasterize(p Page, fonts Fonts) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, PageWidth, PageHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, r := range p.Rules {
		draw.Draw(img, image.Rect(r.X0, r.Y, r.X1, r.Y+r.Width), image.Black, image.Point{}, draw.Src)
	}

	for _, l := range p.Lines {
		face := fonts.face(l.Role)
		d := &font.Drawer{
			Dst:  img,
			Src:  image.Black,
			Face: face,
			Dot:  fixed.P(l.X, l.Y+face.Metrics().Ascent.Ceil()),
		}
		d.DrawString(l.Text)
	}
	return img
}

func pxToIn(px float64) float64 {
	return px / DPI
}

func pxToPt(px float64) float64 {
	return px * 72 / DPI
}

// encodePDF places the raster over a white text layer that mirrors every
// line, which keeps the receipt searchable whatever face drew the raster.
// Streams are left uncompressed.
func encodePDF(p Page, img *image.Gray, title string) ([]byte, error) {
	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: PageWidthIn, Ht: PageHeightIn},
	})
	pdf.SetCompression(false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, false)
	pdf.SetCreator("remit-desk", false)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTextColor(255, 255, 255)
	for _, l := range p.Lines {
		style, size := "", float64(bodySize)
		switch l.Role {
		case RoleTitle:
			style, size = "B", titleSize
		case RoleSection:
			style, size = "B", sectionSize
		}
		pdf.SetFont("Helvetica", style, pxToPt(size))
		pdf.Text(pxToIn(float64(l.X)), pxToIn(float64(l.Y)+size*0.8), tr(foldText(l.Text)))
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("receipt", opts, &raster)
	pdf.ImageOptions("receipt", 0, 0, PageWidthIn, PageHeightIn, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// foldText drops the accents the cp1252 text layer cannot carry, so
// "Nguyễn Đức" stays searchable as "Nguyen Duc". Latin-1 runes are left for
// the translator.
func foldText(s string) string {
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x100:
			b.WriteRune(r)
		case r == 'đ':
			b.WriteByte('d')
		case r == 'Đ':
			b.WriteByte('D')
		default:
			folded, _, err := transform.String(strip, string(r))
			if err != nil {
				folded = string(r)
			}
			b.WriteString(folded)
		}
	}
	return b.String()
}
