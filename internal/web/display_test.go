package web

import (
	"strings"
	"testing"

	"gnotes/internal/store"
)

func TestDisplayDate(t *testing.T) {
	if got := displayDate("2024-01-31"); got != "31.01.2024" {
		t.Fatalf("displayDate = %q, want 31.01.2024", got)
	}
	// Unparseable dates pass through unchanged.
	if got := displayDate("not-a-date"); got != "not-a-date" {
		t.Fatalf("displayDate = %q, want passthrough", got)
	}
}

func TestBuildDayBucketsGroupsConsecutiveDates(t *testing.T) {
	notes := []store.Note{
		{ID: 4, Date: "2024-05-02", Text: "d"},
		{ID: 3, Date: "2024-05-02", Text: "c"},
		{ID: 2, Date: "2024-05-01", Text: "b"},
		{ID: 1, Date: "2024-04-30", Text: "a"},
	}

	days := buildDayBuckets(notes)
	if len(days) != 3 {
		t.Fatalf("expected 3 day buckets, got %d", len(days))
	}
	if days[0].Date != "02.05.2024" || len(days[0].Notes) != 2 {
		t.Fatalf("first bucket = %+v", days[0])
	}
	if days[0].Notes[0].ID != 4 || days[0].Notes[1].ID != 3 {
		t.Fatalf("first bucket order = %+v", days[0].Notes)
	}
	if days[1].Date != "01.05.2024" || len(days[1].Notes) != 1 {
		t.Fatalf("second bucket = %+v", days[1])
	}
	if days[2].Date != "30.04.2024" || len(days[2].Notes) != 1 {
		t.Fatalf("third bucket = %+v", days[2])
	}
}

func TestBuildDayBucketsEmpty(t *testing.T) {
	if days := buildDayBuckets(nil); len(days) != 0 {
		t.Fatalf("expected no buckets, got %+v", days)
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := string(renderMarkdown("some **bold** text"))
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected markdown rendering, got %q", html)
	}
}

func TestNoteViewKeepsTags(t *testing.T) {
	days := buildDayBuckets([]store.Note{{ID: 1, Date: "2024-05-01", Text: "x", Tags: []string{"a", "b"}}})
	if len(days) != 1 || len(days[0].Notes) != 1 {
		t.Fatalf("unexpected buckets %+v", days)
	}
	tags := days[0].Notes[0].Tags
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Fatalf("tags = %v, want [a b]", tags)
	}
}
