package web

import "html/template"

type ViewData struct {
	Title           string
	ContentTemplate string
	ContentHTML     template.HTML
	Days            []DayBucket
	Note            *NoteForm
	NoteID          int64
	Action          string
	CSRFToken       string
	LoginStatus     string
}

// NoteForm carries an existing note into the admin edit form, with its
// tags joined back into the comma-separated input format.
type NoteForm struct {
	ID   int64
	Text string
	Tags string
}
