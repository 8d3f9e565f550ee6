package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keytrace/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "keytrace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testRecord(id string, start time.Time, lang string, missed ...model.WordCount) model.SessionRecord {
	return model.SessionRecord{
		ID:           id,
		StartedAt:    start,
		EndedAt:      start.Add(30 * time.Second),
		Lang:         lang,
		Words:        25,
		WordListPath: "dummy",
		WPM:          60,
		Raw:          65,
		Accuracy:     0.95,
		Consistency:  80,
		Correct:      150,
		Incorrect:    8,
		DurationMs:   30000,
		SpacingMean:  120.5,
		HoldMean:     80.25,
		OverlapMs:    300,
		Seconds: []model.SecondRecord{
			{Index: 0, Count: 5, Errors: 1, Words: []int{0, 1}},
			{Index: 1, Count: 0, AFK: true},
		},
		MissedWords: missed,
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(1000, 0).UTC()

	if err := st.InsertSession(ctx, testRecord("b", base.Add(time.Minute), "en")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertSession(ctx, testRecord("a", base, "en")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertSession(ctx, testRecord("c", base.Add(2*time.Minute), "ru")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{Lang: "en"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "a" || sessions[1].SessionID != "b" {
		t.Fatalf("unexpected order: %+v", sessions)
	}
	got := sessions[0]
	if got.WPM != 60 || got.Correct != 150 || got.SpacingMean != 120.5 || got.HoldMean != 80.25 {
		t.Fatalf("unexpected aggregate: %+v", got)
	}

	since := base.Add(91 * time.Second)
	sessions, err = st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != "c" {
		t.Fatalf("unexpected since filter result: %+v", sessions)
	}
}

func TestListSessionsSinceIsInclusive(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(1000, 0).UTC()
	if err := st.InsertSession(ctx, testRecord("a", base, "en")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	since := base.Add(30 * time.Second)
	sessions, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != "a" {
		t.Fatalf("expected session ending at since, got %+v", sessions)
	}
}

func TestListSessionsOrdersSubsecondEndTimes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(1000, 0).UTC()
	whole := testRecord("whole", base, "en")
	half := testRecord("half", base, "en")
	half.EndedAt = whole.EndedAt.Add(500 * time.Millisecond)
	for _, rec := range []model.SessionRecord{half, whole} {
		if err := st.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", rec.ID, err)
		}
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != "whole" || sessions[1].SessionID != "half" {
		t.Fatalf("unexpected order: %+v", sessions)
	}
	if !sessions[1].EndedAt.Equal(half.EndedAt) {
		t.Fatalf("expected end time %v, got %v", half.EndedAt, sessions[1].EndedAt)
	}
}

func TestInsertSessionRejectsEmptyID(t *testing.T) {
	st := openTestStore(t)
	if err := st.InsertSession(context.Background(), model.SessionRecord{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestInsertSessionDuplicateRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := testRecord("dup", time.Unix(0, 0).UTC(), "en", model.WordCount{Word: "the", Count: 1})
	if err := st.InsertSession(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertSession(ctx, rec); err == nil {
		t.Fatalf("expected duplicate insert to fail")
	}
	words, err := st.ListMissedWords(ctx, []string{"dup"})
	if err != nil {
		t.Fatalf("missed words: %v", err)
	}
	if len(words) != 1 || words[0].Count != 1 {
		t.Fatalf("unexpected missed words after rollback: %+v", words)
	}
}

func TestListMissedWordsSumsAcrossSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(0, 0).UTC()
	if err := st.InsertSession(ctx, testRecord("s1", base, "en",
		model.WordCount{Word: "which", Count: 2}, model.WordCount{Word: "their", Count: 1})); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.InsertSession(ctx, testRecord("s2", base.Add(time.Minute), "en",
		model.WordCount{Word: "their", Count: 3})); err != nil {
		t.Fatalf("insert: %v", err)
	}

	words, err := st.ListMissedWords(ctx, []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("missed words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %+v", words)
	}
	if words[0] != (model.WordCount{Word: "their", Count: 4}) || words[1] != (model.WordCount{Word: "which", Count: 2}) {
		t.Fatalf("unexpected words: %+v", words)
	}

	none, err := st.ListMissedWords(ctx, nil)
	if err != nil || none != nil {
		t.Fatalf("expected nil result for no sessions, got %+v, %v", none, err)
	}
}

func TestListSeconds(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.InsertSession(ctx, testRecord("s1", time.Unix(0, 0).UTC(), "en")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	seconds, err := st.ListSeconds(ctx, "s1")
	if err != nil {
		t.Fatalf("seconds: %v", err)
	}
	if len(seconds) != 2 {
		t.Fatalf("expected 2 seconds, got %d", len(seconds))
	}
	if seconds[0].Count != 5 || seconds[0].Errors != 1 || len(seconds[0].Words) != 2 || seconds[0].AFK {
		t.Fatalf("unexpected first second: %+v", seconds[0])
	}
	if !seconds[1].AFK || seconds[1].Words != nil {
		t.Fatalf("unexpected second bucket: %+v", seconds[1])
	}
}
