package renderer

import "github.com/ByLCY/bytefield/layout"

// Renderer 将布局结果输出为最终文件，例如纯文本、PDF 或 SVG。
// Render 返回生成的数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
