// Package report writes the outputs of a brochure run.
//
//   - SaveBrochure / WriteFileAtomic: the brochure Markdown file
//   - RenderPDF / SavePDF: a PDF rendering of the brochure
//   - MarkdownWriter, JSONWriter, SimpleWriter: run reports
//
// Writers implement the Writer interface and can be combined with
// MultiWriter.
package report
