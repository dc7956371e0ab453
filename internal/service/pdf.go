package service

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractPDFPages returns the plain text of every page in page order.
// Encrypted or malformed files fail the whole extraction.
func extractPDFPages(path string) (pages []string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	// the parser panics on some malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("failed to parse %s: %v", path, rec)
		}
	}()

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d of %s: %w", i, path, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
