package report

import (
	"fmt"
	"io"
)

// Renderer renders a report in one output format.
type Renderer interface {
	Render(w io.Writer, report *Report) error
}

type renderFunc func(io.Writer, *Report) error

func (f renderFunc) Render(w io.Writer, report *Report) error {
	return f(w, report)
}

// RendererFor returns the renderer for a format name. The empty
// string selects JSON.
func RendererFor(format string) (Renderer, error) {
	switch format {
	case "json", "":
		return renderFunc(WriteJSON), nil
	case "markdown", "md":
		return renderFunc(WriteMarkdown), nil
	case "html":
		return renderFunc(WriteHTML), nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", format)
	}
}
