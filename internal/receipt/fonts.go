package receipt

import (
	"fmt"
	"github.com/RaikyD/remit-desk/internal/logger"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"os"
	"path/filepath"
)

// Pixel sizes of the three text roles on the 200 DPI canvas.
const (
	titleSize   = 32
	sectionSize = 24
	bodySize    = 20
)

// Fonts holds one face per text role.
type Fonts struct {
	Title   font.Face
	Section font.Face
	Body    font.Face
}

func (f Fonts) face(r Role) font.Face {
	switch r {
	case RoleTitle:
		return f.Title
	case RoleSection:
		return f.Section
	default:
		return f.Body
	}
}

// FallbackFonts uses the built-in 7x13 bitmap face for every role.
func FallbackFonts() Fonts {
	return Fonts{
		Title:   basicfont.Face7x13,
		Section: basicfont.Face7x13,
		Body:    basicfont.Face7x13,
	}
}

// FontLoader produces a fresh set of faces. Faces are not shared between
// renders because opentype faces keep internal buffers.
type FontLoader interface {
	Load() (Fonts, error)
}

// FileFontLoader reads a regular and a bold TrueType file from Dir.
type FileFontLoader struct {
	Dir     string
	Regular string
	Bold    string
}

// NewDejaVuLoader looks for DejaVu Sans in dir.
func NewDejaVuLoader(dir string) FileFontLoader {
	return FileFontLoader{
		Dir:     dir,
		Regular: "DejaVuSans.ttf",
		Bold:    "DejaVuSans-Bold.ttf",
	}
}

func (l FileFontLoader) Load() (Fonts, error) {
	bold, err := parseFontFile(filepath.Join(l.Dir, l.Bold))
	if err != nil {
		return Fonts{}, err
	}
	regular, err := parseFontFile(filepath.Join(l.Dir, l.Regular))
	if err != nil {
		return Fonts{}, err
	}

	var fonts Fonts
	if fonts.Title, err = newFace(bold, titleSize); err != nil {
		return Fonts{}, err
	}
	if fonts.Section, err = newFace(bold, sectionSize); err != nil {
		return Fonts{}, err
	}
	if fonts.Body, err = newFace(regular, bodySize); err != nil {
		return Fonts{}, err
	}
	return fonts, nil
}

func parseFontFile(path string) (*sfnt.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// newFace sizes in pixels: at 72 DPI one point is one pixel.
func newFace(f *sfnt.Font, px float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// LoadFonts never fails: any error or panic from the loader, or a nil loader,
// yields FallbackFonts.
func LoadFonts(l FontLoader) (fonts Fonts) {
	if l == nil {
		return FallbackFonts()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("font loader panicked, using fallback font", "panic", r)
			fonts = FallbackFonts()
		}
	}()

	fonts, err := l.Load()
	if err != nil {
		logger.Warn("font load failed, using fallback font", "err", err)
		return FallbackFonts()
	}
	if fonts.Title == nil || fonts.Section == nil || fonts.Body == nil {
		logger.Warn("font loader returned an incomplete set, using fallback font")
		return FallbackFonts()
	}
	return fonts
}
