package history

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ajito/popdict/pkg/entry"
	"github.com/ajito/popdict/pkg/scan"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult() *scan.Result {
	e := entry.DictionaryEntry{}
	e.Headword.Term = "食べる"
	e.Headword.Reading = "たべる"
	e.Definition.Glossary = []string{"to eat", "Context: パンを食べる"}
	e.Score = 100
	e.Metadata.QuestionID = 42
	e.Metadata.Language = "ja"
	e.Metadata.InFlashcards = true
	return &scan.Result{
		Entries:            []entry.DictionaryEntry{e},
		OriginalTextLength: 3,
	}
}

func TestRecordAndReadBack(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	id, err := store.RecordLookup(ctx, "食べた", sampleResult())
	if err != nil {
		t.Fatalf("RecordLookup failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("RecordLookup returned id %d", id)
	}

	lookups, err := store.RecentLookups(ctx, 10)
	if err != nil {
		t.Fatalf("RecentLookups failed: %v", err)
	}
	if len(lookups) != 1 {
		t.Fatalf("got %d lookups, want 1", len(lookups))
	}

	l := lookups[0]
	if l.Text != "食べた" || l.MatchedLength != 3 {
		t.Errorf("lookup = %+v", l)
	}
	if len(l.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(l.Entries))
	}
	e := l.Entries[0]
	if e.Term != "食べる" || e.Reading != "たべる" || e.QuestionID != 42 {
		t.Errorf("entry = %+v", e)
	}
	if !e.InFlashcards {
		t.Error("InFlashcards not persisted")
	}
	if e.Glossary != "to eat\nContext: パンを食べる" {
		t.Errorf("glossary = %q", e.Glossary)
	}
}

func TestRecentLookupsOrder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, text := range []string{"一", "二", "三"} {
		if _, err := store.RecordLookup(ctx, text, &scan.Result{OriginalTextLength: 1}); err != nil {
			t.Fatalf("RecordLookup(%q) failed: %v", text, err)
		}
	}

	lookups, err := store.RecentLookups(ctx, 2)
	if err != nil {
		t.Fatalf("RecentLookups failed: %v", err)
	}
	if len(lookups) != 2 {
		t.Fatalf("got %d lookups, want 2", len(lookups))
	}
	if lookups[0].Text != "三" || lookups[1].Text != "二" {
		t.Errorf("order = [%s %s], want newest first", lookups[0].Text, lookups[1].Text)
	}
}

func TestRecordLookupRejectsEmptyText(t *testing.T) {
	store := setupStore(t)
	if _, err := store.RecordLookup(context.Background(), "  ", &scan.Result{}); err == nil {
		t.Fatal("RecordLookup accepted empty text")
	}
}
