package printing

import (
	"context"
	"time"
)

// NoopRenderer is used when PDF rendering is disabled. It returns a tiny
// placeholder document so callers do not need to special-case the feature flag.
type NoopRenderer struct{}

// NewNoopRenderer creates a renderer that produces placeholder output
func NewNoopRenderer() *NoopRenderer {
	return &NoopRenderer{}
}

var placeholderPDF = []byte("%PDF-1.4\n% rendering disabled\n%%EOF\n")

// Render returns a placeholder PDF without touching a browser
func (r *NoopRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	return &RenderResult{
		PDFData:        placeholderPDF,
		RenderDuration: time.Duration(0),
	}, nil
}

// Close is a no-op
func (r *NoopRenderer) Close() error { return nil }

var _ PDFRenderer = (*NoopRenderer)(nil)
