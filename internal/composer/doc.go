// Package composer turns page summaries into a Markdown brochure addressed
// to investors, customers, job candidates and board members.
package composer
