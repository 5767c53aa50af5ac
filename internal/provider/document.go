package provider

import "strings"

// Document is the text-layer view of an uploaded invoice that rule sets
// match and extract against. Pages are split on the form-feed separators
// pdftotext emits; raw bytes are never retained here.
type Document struct {
	text  string
	pages []string
	lines []string
}

func NewDocument(text string) *Document {
	pages := strings.Split(text, "\f")
	return &Document{
		text:  text,
		pages: pages,
		lines: strings.Split(text, "\n"),
	}
}

func (d *Document) Text() string { return d.text }

func (d *Document) Pages() []string { return d.pages }

func (d *Document) FirstPage() string {
	if len(d.pages) == 0 {
		return ""
	}
	return d.pages[0]
}

func (d *Document) LastPage() string {
	if len(d.pages) == 0 {
		return ""
	}
	return d.pages[len(d.pages)-1]
}

// Lines returns every line of the document across all pages, in order.
func (d *Document) Lines() []string { return d.lines }

// Contains reports whether any marker occurs verbatim in the document.
func (d *Document) Contains(markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(d.text, m) {
			return true
		}
	}
	return false
}

// ContainsFold is Contains with case-insensitive comparison.
func (d *Document) ContainsFold(markers ...string) bool {
	upper := strings.ToUpper(d.text)
	for _, m := range markers {
		if strings.Contains(upper, strings.ToUpper(m)) {
			return true
		}
	}
	return false
}
