package web

import (
	"bytes"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"gnotes/internal/store"
)

var mdRenderer = goldmark.New()

// NoteView is a note prepared for rendering: display date and markdown
// body.
type NoteView struct {
	ID   int64
	Date string // DD.MM.YYYY
	Body template.HTML
	Tags []string
}

// DayBucket groups consecutive notes sharing a displayed date.
type DayBucket struct {
	Date  string
	Notes []NoteView
}

// buildDayBuckets converts a newest-first note list into day buckets,
// preserving order. An empty input yields no buckets.
func buildDayBuckets(notes []store.Note) []DayBucket {
	var days []DayBucket
	for _, note := range notes {
		view := NoteView{
			ID:   note.ID,
			Date: displayDate(note.Date),
			Body: renderMarkdown(note.Text),
			Tags: note.Tags,
		}
		if len(days) == 0 || days[len(days)-1].Date != view.Date {
			days = append(days, DayBucket{Date: view.Date})
		}
		last := len(days) - 1
		days[last].Notes = append(days[last].Notes, view)
	}
	return days
}

// displayDate reformats an ISO date for display. A date that does not
// parse is shown as stored.
func displayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01.2006")
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}
