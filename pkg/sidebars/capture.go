package sidebars

import (
	"bytes"
	"context"
	"errors"
)

// Capture adapts a print-style hook into a Renderer: the output is buffered
// instead of reaching the ambient writer and returned as a string. On error
// the partial output is discarded.
func Capture(p Printer) Renderer {
	return captureRenderer{printer: p}
}

type captureRenderer struct {
	printer Printer
}

func (c captureRenderer) RenderSidebar(ctx context.Context, id string) (string, error) {
	if c.printer == nil {
		return "", errors.New("sidebars: capture: printer is nil")
	}
	var buf bytes.Buffer
	if err := c.printer.PrintSidebar(ctx, id, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
