package textrenderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ByLCY/bytefield/layout"
	"github.com/ByLCY/bytefield/renderer"
)

// Renderer 输出纯文本：块之间空一行；多个 record 时每个 record 前加标题行。
type Renderer struct{}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a plain text renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render implements renderer.Renderer.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the text rendering of result to w.
func (r *Renderer) Write(w io.Writer, result *layout.Result) error {
	if result == nil || len(result.Records) == 0 {
		return fmt.Errorf("缺少可渲染的 record")
	}
	withHeadings := len(result.Records) > 1
	for i, rec := range result.Records {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if withHeadings {
			if _, err := fmt.Fprintf(w, "%s\n\n", rec.Heading()); err != nil {
				return err
			}
		}
		for j, block := range rec.Blocks {
			if j > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, block+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
