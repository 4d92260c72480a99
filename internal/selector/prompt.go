package selector

import (
	"strings"

	"github.com/nao1215/brochure/internal/model"
)

// systemPrompt instructs the service to classify links. The one-shot
// example keeps the response shape stable across models.
const systemPrompt = `You are given a list of links found on a webpage.
You are able to decide which of these links would be most relevant to include in a brochure about the company,
such as links to a company page, an about page, a careers/jobs page, products/services/solutions pages, or use case pages.
You should respond in JSON as in this example:
{
    "links": [
        {"type": "about page", "url": "https://full.url/goes/here/about"},
        {"type": "careers page", "url": "https://another.full.url/careers"}
    ]
}`

// userPrompt lists the landing page's links for classification.
func userPrompt(page *model.Page) string {
	var b strings.Builder
	b.WriteString("Here is the list of links on the website of ")
	b.WriteString(page.URL)
	b.WriteString(" - please decide which of these are relevant web links for a brochure about the company. ")
	b.WriteString("Respond with the full https URL in JSON format. ")
	b.WriteString("Do not include Terms of Service, Privacy, or email links.\n")
	b.WriteString("Links (some might be relative links):\n")
	b.WriteString(strings.Join(page.Links, "\n"))
	return b.String()
}
