package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/brochure/internal/model"
)

// MarkdownWriter outputs a run report in GitHub-flavored Markdown.
// The report describes the run; the brochure itself is a separate file.
type MarkdownWriter struct {
	baseWriter
	titler cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titler:     cases.Title(language.English),
	}
}

// Write outputs the run report.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeLinks(md, run)
	w.writeSummaries(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Brochure Run Report")
	md.PlainText("")

	title := "-"
	if run.Page != nil {
		title = run.Page.Title
	}
	output := "-"
	modelName := "-"
	if run.Brochure != nil {
		if run.Brochure.Path != "" {
			output = "`" + run.Brochure.Path + "`"
		}
		if run.Brochure.Model != "" {
			modelName = run.Brochure.Model
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Website", run.URL},
			{"Landing Page Title", title},
			{"Run ID", "`" + run.ID + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration().Round(time.Millisecond).String()},
			{"Model", modelName},
			{"Output", output},
			{"Status", statusText(run)},
		},
	})
	md.PlainText("")

	switch {
	case run.Cancelled:
		md.Warningf("The run was cancelled after %d step(s).", len(run.PerformedSteps))
	case run.Err != nil:
		md.Cautionf("%s", model.UserMessage(run.Err))
	default:
		md.Tip("The brochure was generated successfully.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, run *model.Run) {
	md.H2("Selected Links")
	md.PlainText("")

	if len(run.Selected) == 0 {
		md.PlainText("No links were selected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(run.Selected))
	for i, link := range run.Selected {
		rows[i] = []string{strconv.Itoa(i + 1), w.linkType(link.Type), link.URL}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Type", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummaries(md *markdown.Markdown, run *model.Run) {
	md.H2("Page Summaries")
	md.PlainText("")

	if len(run.Summaries) == 0 {
		md.PlainText("No pages were summarized.")
		md.PlainText("")
		return
	}

	for _, s := range run.Summaries {
		md.Details(s.Title+" ("+s.Link.URL+")", s.Summary)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [brochure](https://github.com/nao1215/brochure)*")
}

// linkType normalizes a free-form label such as "careers page".
func (w *MarkdownWriter) linkType(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "-"
	}
	return w.titler.String(label)
}

func statusText(run *model.Run) string {
	switch run.Status() {
	case "complete":
		return "✅ Complete"
	case "cancelled":
		return "⚠️ Cancelled"
	case "failed":
		return "❌ Failed (" + model.KindOf(run.Err).String() + ")"
	default:
		return "Running"
	}
}
