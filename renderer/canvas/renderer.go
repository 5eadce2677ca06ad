package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/bytefield/diagram"
	"github.com/ByLCY/bytefield/layout"
	"github.com/ByLCY/bytefield/renderer"
)

// 输出格式。
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
)

// 未指定字体时依次尝试的系统等宽字体。
var systemMonospace = []string{
	"DejaVu Sans Mono",
	"Liberation Mono",
	"Noto Sans Mono",
	"Menlo",
	"Consolas",
	"Courier New",
}

// Renderer draws rendered blocks via github.com/tdewolff/canvas. Every block
// is placed on a character grid: box glyphs become stroked segments and the
// remaining characters are drawn as text.
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer. Lengths are converted to mm.
type Options struct {
	Format      string
	CellWidth   layout.Length
	CellHeight  layout.Length
	FontSize    layout.Length
	StrokeWidth layout.Length
	Margin      layout.Length
	Font        Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

func (r Resource) load() ([]byte, error) {
	if len(r.Bytes) > 0 {
		return r.Bytes, nil
	}
	if r.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", r.Path, err)
	}
	return data, nil
}

// NewRenderer creates a canvas renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	return &Renderer{opts: opts}
}

// Render renders the result into PDF (one page per record) or SVG (records
// stacked on one page).
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || len(result.Records) == 0 {
		return nil, fmt.Errorf("缺少可渲染的 record")
	}
	g := r.geometry()
	if g.cellW <= 0 || g.cellH <= 0 {
		return nil, fmt.Errorf("单元格尺寸必须为正数")
	}

	face, err := r.fontFace()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch r.opts.Format {
	case FormatPDF:
		err = r.renderPDF(&buf, g, face, result)
	case FormatSVG:
		err = r.renderSVG(&buf, g, face, result)
	default:
		err = fmt.Errorf("不支持的输出格式 %q", r.opts.Format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderPDF(w io.Writer, g geometry, face *canvas.FontFace, result *layout.Result) error {
	var writer *pdf.PDF
	for i, rec := range result.Records {
		sheet := newSheet(g, recordRows(rec, len(result.Records) > 1))
		if i == 0 {
			writer = pdf.New(w, sheet.width, sheet.height, nil)
			writer.SetInfo(rec.Heading(), "", "", "", "bytefield")
		} else {
			writer.NewPage(sheet.width, sheet.height)
		}
		sheet.draw(face).RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func (r *Renderer) renderSVG(w io.Writer, g geometry, face *canvas.FontFace, result *layout.Result) error {
	var rows []string
	withHeadings := len(result.Records) > 1
	for i, rec := range result.Records {
		if i > 0 {
			rows = append(rows, "")
		}
		rows = append(rows, recordRows(rec, withHeadings)...)
	}
	sheet := newSheet(g, rows)
	writer := svg.New(w, sheet.width, sheet.height, nil)
	sheet.draw(face).RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return nil
}

// recordRows lays a record's blocks out the way the text renderer does:
// an optional heading, then the blocks separated by blank rows.
func recordRows(rec layout.Record, heading bool) []string {
	var rows []string
	if heading {
		rows = append(rows, rec.Heading(), "")
	}
	for i, block := range rec.Blocks {
		if i > 0 {
			rows = append(rows, "")
		}
		rows = append(rows, strings.Split(block, "\n")...)
	}
	return rows
}

// geometry 以毫米保存网格尺寸。
type geometry struct {
	cellW, cellH float64
	fontPt       float64
	stroke       float64
	margin       float64
}

func (r *Renderer) geometry() geometry {
	g := geometry{
		cellW:  r.opts.CellWidth.ToMM(),
		cellH:  r.opts.CellHeight.ToMM(),
		fontPt: r.opts.FontSize.ToPT(),
		stroke: r.opts.StrokeWidth.ToMM(),
		margin: r.opts.Margin.ToMM(),
	}
	if g.fontPt <= 0 {
		g.fontPt = g.cellH * layout.MmToPt * 0.7
	}
	if g.stroke <= 0 {
		g.stroke = 0.2
	}
	return g
}

// sheet is one page of character rows.
type sheet struct {
	geometry
	rows          []string
	width, height float64
}

func newSheet(g geometry, rows []string) sheet {
	cols := 0
	for _, row := range rows {
		cols = max(cols, utf8.RuneCountInString(row))
	}
	return sheet{
		geometry: g,
		rows:     rows,
		width:    2*g.margin + float64(cols)*g.cellW,
		height:   2*g.margin + float64(len(rows))*g.cellH,
	}
}

// segment is a stroke from (x1, y1) to (x2, y2) in page millimeters.
type segment struct {
	x1, y1, x2, y2 float64
}

// glyph is a non-space, non-box character centred at (cx, cy).
type glyph struct {
	cx, cy float64
	text   string
}

// plot splits the sheet into strokes and text glyphs. Every arm of a box
// glyph runs from the cell centre to the middle of the cell edge, so arms of
// neighbouring cells meet.
func (s sheet) plot() ([]segment, []glyph) {
	var (
		segs   []segment
		glyphs []glyph
	)
	halfW, halfH := s.cellW/2, s.cellH/2
	for y, row := range s.rows {
		x := 0
		for _, ch := range row {
			cx := s.margin + float64(x)*s.cellW + halfW
			cy := s.margin + float64(y)*s.cellH + halfH
			x++
			if arms, ok := diagram.GlyphArms(ch); ok {
				if arms.Has(diagram.North) {
					segs = append(segs, segment{cx, cy, cx, cy - halfH})
				}
				if arms.Has(diagram.South) {
					segs = append(segs, segment{cx, cy, cx, cy + halfH})
				}
				if arms.Has(diagram.East) {
					segs = append(segs, segment{cx, cy, cx + halfW, cy})
				}
				if arms.Has(diagram.West) {
					segs = append(segs, segment{cx, cy, cx - halfW, cy})
				}
				continue
			}
			if ch == ' ' {
				continue
			}
			glyphs = append(glyphs, glyph{cx: cx, cy: cy, text: string(ch)})
		}
	}
	return segs, glyphs
}

func (s sheet) draw(face *canvas.FontFace) *canvas.Canvas {
	c := canvas.New(s.width, s.height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，y 向下

	segs, glyphs := s.plot()

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(s.stroke)
	for _, seg := range segs {
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(seg.x2-seg.x1, seg.y2-seg.y1)
		ctx.DrawPath(seg.x1, seg.y1, p)
	}

	// 基线：字符竖直居中于单元格（以大写字母高度估算）。
	ctx.SetStrokeColor(canvas.Transparent)
	metrics := face.Metrics()
	for _, g := range glyphs {
		line := canvas.NewTextLine(face, g.text, canvas.Center)
		ctx.DrawText(g.cx, g.cy+metrics.CapHeight/2, line)
	}
	return c
}

func (r *Renderer) fontFace() (*canvas.FontFace, error) {
	family, err := r.fontFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(r.geometry().fontPt, canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) fontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}

	family := canvas.NewFontFamily("bytefield")
	data, err := r.opts.Font.load()
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载字体失败: %w", err)
		}
	} else if err := loadSystemMonospace(family); err != nil {
		return nil, err
	}
	r.family = family
	return family, nil
}

func loadSystemMonospace(family *canvas.FontFamily) error {
	var errs []error
	for _, name := range systemMonospace {
		err := family.LoadSystemFont(name, canvas.FontRegular)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("未找到可用的等宽字体，请在配置中指定 [canvas].font: %w", errors.Join(errs...))
}
