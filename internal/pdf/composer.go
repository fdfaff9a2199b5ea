// Package pdf composes generated content packs into branded,
// paginated PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/content365/content365/internal/model"
)

// Branding carries the visual identity rendered on every page.
type Branding struct {
	BrandName string
	Website   string
	LogoPath  string
}

// Composer renders ContentPacks as Letter-format PDFs. When the DejaVu
// font files are present in fontDir the document embeds them so Unicode
// in user input or model output renders; otherwise it falls back to the
// built-in Helvetica, re-encoding text to the core fonts' cp1252 and
// dropping what that codepage cannot carry. The fallback trades emoji
// fidelity for zero font assets.
type Composer struct {
	brand   Branding
	fontDir string
	unicode bool
}

const (
	fontRegular = "DejaVuSans.ttf"
	fontBold    = "DejaVuSans-Bold.ttf"
)

func NewComposer(brand Branding, fontDir string) *Composer {
	c := &Composer{brand: brand, fontDir: fontDir}
	c.unicode = fontFileExists(fontDir, fontRegular) && fontFileExists(fontDir, fontBold)
	if !c.unicode {
		slog.Warn("unicode fonts not found, falling back to built-in Helvetica", "font_dir", fontDir)
	}
	return c
}

// UnicodeFonts reports whether the DejaVu fonts were found. Exposed for
// the /health/pdf probe.
func (c *Composer) UnicodeFonts() bool {
	return c.unicode
}

func fontFileExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.Size() > 1024
}

// Compose renders the pack into a single PDF document and returns its
// bytes.
func (c *Composer) Compose(req *model.ContentRequest, pack *model.ContentPack) ([]byte, error) {
	doc := fpdf.New("P", "mm", "Letter", "")

	family := "Helvetica"
	text := c.fallbackText(doc)
	if c.unicode {
		family = "DejaVu"
		doc.AddUTF8Font(family, "", filepath.Join(c.fontDir, fontRegular))
		doc.AddUTF8Font(family, "B", filepath.Join(c.fontDir, fontBold))
		text = func(s string) string { return s }
	}

	doc.SetTitle(text(fmt.Sprintf("%s Content Pack — %s", c.brand.BrandName, req.Topic)), c.unicode)
	doc.AliasNbPages("")
	doc.SetAutoPageBreak(true, 22)

	pageW, _ := doc.GetPageSize()

	doc.SetHeaderFunc(func() {
		doc.SetFillColor(31, 117, 243)
		doc.Rect(0, 0, pageW, 3, "F")

		y := 8.0
		x := 14.0
		if c.brand.LogoPath != "" {
			if _, err := os.Stat(c.brand.LogoPath); err == nil {
				doc.ImageOptions(c.brand.LogoPath, x, y, 14, 0, false,
					fpdf.ImageOptions{ReadDpi: true}, 0, "")
				x += 18
			}
		}
		doc.SetFont(family, "B", 13)
		doc.SetTextColor(20, 20, 20)
		doc.SetXY(x, y+2)
		doc.CellFormat(90, 7, text(c.brand.BrandName), "", 0, "L", false, 0, "")

		doc.SetFont(family, "", 9)
		doc.SetTextColor(110, 110, 110)
		doc.CellFormat(0, 7, time.Now().Format("January 2, 2006"), "", 0, "R", false, 0, "")
		doc.SetY(22)
	})

	doc.SetFooterFunc(func() {
		doc.SetY(-14)
		doc.SetFont(family, "", 8.5)
		doc.SetTextColor(130, 130, 130)
		footer := fmt.Sprintf("© %d %s — %s · Page %d/{nb}",
			time.Now().Year(), c.brand.BrandName, c.brand.Website, doc.PageNo())
		doc.CellFormat(0, 8, text(footer), "", 0, "C", false, 0, c.websiteURL())
	})

	doc.AddPage()

	doc.SetFont(family, "B", 19)
	doc.SetTextColor(20, 20, 20)
	doc.MultiCell(0, 9, text(fmt.Sprintf("Content Pack: %s", req.Topic)), "", "L", false)
	doc.Ln(2)

	c.writeSummary(doc, family, text, req)
	for _, title := range model.SectionTitles() {
		c.writeSection(doc, family, text, title, pack.Section(title))
	}
	c.writeSection(doc, family, text, "Premium Tips", strings.Join(premiumTips, "\n"))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var premiumTips = []string{
	"• Post at peak hours for each platform (9AM on LinkedIn, evenings for Instagram).",
	"• Break the blog post into a carousel series.",
	"• Repurpose captions into emails, tweets, or newsletter intros.",
	"• Turn the key takeaways into branded visual quote tiles.",
}

func (c *Composer) writeSummary(doc *fpdf.Fpdf, family string, text func(string) string, req *model.ContentRequest) {
	rows := [][2]string{
		{"Topic", req.Topic},
		{"Tone", req.ToneOrDefault()},
		{"Platforms", strings.Join(req.PlatformsOrDefault(), ", ")},
	}
	if req.Audience != "" {
		rows = append(rows, [2]string{"Audience", req.Audience})
	}
	if req.Style != "" {
		rows = append(rows, [2]string{"Style", req.Style})
	}
	if req.Notes != "" {
		rows = append(rows, [2]string{"Notes", req.Notes})
	}

	c.sectionHeading(doc, family, text, "Quick Summary")
	for _, row := range rows {
		doc.SetFont(family, "B", 10.5)
		doc.SetTextColor(60, 60, 60)
		doc.CellFormat(30, 6, text(row[0]), "", 0, "L", false, 0, "")
		doc.SetFont(family, "", 10.5)
		doc.SetTextColor(20, 20, 20)
		doc.MultiCell(0, 6, text(row[1]), "", "L", false)
	}
	doc.Ln(4)
}

func (c *Composer) writeSection(doc *fpdf.Fpdf, family string, text func(string) string, title, body string) {
	c.sectionHeading(doc, family, text, title)
	doc.SetFont(family, "", 10.5)
	doc.SetTextColor(20, 20, 20)
	doc.MultiCell(0, 5.5, text(body), "", "L", false)
	doc.Ln(4)
}

func (c *Composer) sectionHeading(doc *fpdf.Fpdf, family string, text func(string) string, title string) {
	doc.SetFont(family, "B", 14)
	doc.SetTextColor(31, 117, 243)
	doc.CellFormat(0, 8, text(title), "", 1, "L", false, 0, "")
	x, y := doc.GetX(), doc.GetY()
	doc.SetDrawColor(220, 220, 220)
	pageW, _ := doc.GetPageSize()
	doc.Line(x, y, pageW-14, y)
	doc.Ln(3)
}

func (c *Composer) websiteURL() string {
	w := strings.TrimSpace(c.brand.Website)
	if w == "" {
		return ""
	}
	if strings.HasPrefix(w, "http://") || strings.HasPrefix(w, "https://") {
		return w
	}
	return "https://" + w
}

// fallbackText builds the text mapper for the built-in core fonts:
// sanitize first, then encode to cp1252, the byte layout the core fonts
// address glyphs by. Handing them UTF-8 would render every accent as
// two wrong glyphs.
func (c *Composer) fallbackText(doc *fpdf.Fpdf) func(string) string {
	tr := doc.UnicodeTranslatorFromDescriptor("")
	return func(s string) string { return tr(c.sanitize(s)) }
}

// sanitize folds smart punctuation to ASCII and drops runes outside
// Latin-1 (emoji included) rather than corrupting the document. The
// result is still UTF-8; fallbackText handles the cp1252 encoding.
func (c *Composer) sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r <= 0xFF:
			b.WriteRune(r)
		case r == '’' || r == '‘':
			b.WriteByte('\'')
		case r == '“' || r == '”':
			b.WriteByte('"')
		case r == '–' || r == '—':
			b.WriteByte('-')
		}
	}
	return b.String()
}
