// Package printing provides infrastructure implementations for PDF generation
// and document rendering using headless Chrome.
//
// This package contains:
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation using the Chrome DevTools Protocol
// - TemplateEngine for executing HTML document templates
// - PDFStorage interface for storing and managing generated PDF files
// - S3PDFStorage implementation backed by the object storage service
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{
//	    DefaultTimeout: 30 * time.Second,
//	    NoSandbox:      true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:        "<html>...</html>",
//	    PaperSize:   printing.PaperSizeA4,
//	    Orientation: printing.OrientationPortrait,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Generated PDF: %d bytes\n", len(result.PDFData))
package printing
