package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/booktran/internal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testJob(id string, started time.Time) internal.JobRecord {
	return internal.JobRecord{
		ID:         id,
		InputPath:  "book.txt",
		OutputPath: "book.fr.txt",
		TargetLang: "fr",
		Genre:      "Fantasy",
		Models:     []string{"m1", "m2"},
		StartedAt:  started,
	}
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_JobLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateJob(ctx, testJob("job-1", time.Now())); err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	j, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if j.Status != internal.JobRunning {
		t.Errorf("expected status %q, got %q", internal.JobRunning, j.Status)
	}
	if len(j.Models) != 2 || j.Models[0] != "m1" || j.Models[1] != "m2" {
		t.Errorf("unexpected models %v", j.Models)
	}
	if !j.FinishedAt.IsZero() {
		t.Error("expected zero finish time for running job")
	}

	if err := s.FinishJob(ctx, "job-1", internal.JobCompleted, 12, 1); err != nil {
		t.Fatalf("FinishJob failed: %v", err)
	}

	j, err = s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if j.Status != internal.JobCompleted || j.Chunks != 12 || j.Failed != 1 {
		t.Errorf("unexpected job after finish: %+v", j)
	}
	if j.FinishedAt.IsZero() {
		t.Error("expected finish time to be set")
	}
}

func TestStore_GetJob_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetJob(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_FinishJob_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.FinishJob(context.Background(), "missing", internal.JobCompleted, 0, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListJobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.CreateJob(ctx, testJob(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("CreateJob failed: %v", err)
		}
	}

	jobs, err := s.ListJobs(ctx, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != "new" || jobs[2].ID != "old" {
		t.Errorf("expected newest first, got %s..%s", jobs[0].ID, jobs[2].ID)
	}

	jobs, err = s.ListJobs(ctx, 2)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("expected limit to apply, got %d", len(jobs))
	}
}

func TestStore_Attempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateJob(ctx, testJob("job-1", time.Now())); err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	records := []internal.AttemptRecord{
		{JobID: "job-1", Chunk: 1, Model: "m1", Outcome: "ok", Latency: 800 * time.Millisecond},
		{JobID: "job-1", Chunk: 0, Model: "m1", Outcome: "http_status", StatusCode: 429, Latency: 120 * time.Millisecond, Error: "rate limited"},
		{JobID: "job-1", Chunk: 0, Model: "m2", Outcome: "ok", Latency: 1500 * time.Millisecond},
	}
	for _, r := range records {
		if err := s.SaveAttempt(ctx, r); err != nil {
			t.Fatalf("SaveAttempt failed: %v", err)
		}
	}

	got, err := s.ListAttempts(ctx, "job-1")
	if err != nil {
		t.Fatalf("ListAttempts failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(got))
	}
	if got[0].Chunk != 0 || got[0].Model != "m1" || got[0].StatusCode != 429 || got[0].Error != "rate limited" {
		t.Errorf("unexpected first attempt: %+v", got[0])
	}
	if got[1].Model != "m2" || got[1].Latency != 1500*time.Millisecond {
		t.Errorf("unexpected second attempt: %+v", got[1])
	}
	if got[2].Chunk != 1 {
		t.Errorf("expected chunk order, got %+v", got[2])
	}

	stats, err := s.ModelStats(ctx)
	if err != nil {
		t.Fatalf("ModelStats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 models, got %d", len(stats))
	}
	if stats[0].Model != "m1" || stats[0].Attempts != 2 || stats[0].Successes != 1 {
		t.Errorf("unexpected m1 stats: %+v", stats[0])
	}
	if stats[1].Model != "m2" || stats[1].Successes != 1 || stats[1].AvgLatencyMs != 1500 {
		t.Errorf("unexpected m2 stats: %+v", stats[1])
	}
}

func TestStore_ClearJobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := s.CreateJob(ctx, testJob(id, time.Now())); err != nil {
			t.Fatalf("CreateJob failed: %v", err)
		}
		if err := s.SaveAttempt(ctx, internal.AttemptRecord{JobID: id, Model: "m1", Outcome: "ok"}); err != nil {
			t.Fatalf("SaveAttempt failed: %v", err)
		}
	}

	n, err := s.ClearJobs(ctx)
	if err != nil {
		t.Fatalf("ClearJobs failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 jobs removed, got %d", n)
	}

	jobs, _ := s.ListJobs(ctx, 0)
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
	attempts, _ := s.ListAttempts(ctx, "a")
	if len(attempts) != 0 {
		t.Errorf("expected no attempts, got %d", len(attempts))
	}
}

func TestStore_Glossary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddGlossaryTerm(ctx, "fr", "wizard", "sorcier"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	if err := s.AddGlossaryTerm(ctx, "FR", " Dragon ", "dragon"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	if err := s.AddGlossaryTerm(ctx, "de", "wizard", "Zauberer"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	// Replaces the existing French term.
	if err := s.AddGlossaryTerm(ctx, "fr", "wizard", "magicien"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}

	terms, err := s.GetGlossaryTerms(ctx, "fr")
	if err != nil {
		t.Fatalf("GetGlossaryTerms failed: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 french terms, got %v", terms)
	}
	if terms["wizard"] != "magicien" {
		t.Errorf("expected replaced term, got %q", terms["wizard"])
	}
	if terms["Dragon"] != "dragon" {
		t.Errorf("expected trimmed source term, got %v", terms)
	}

	all, err := s.ListGlossaryTerms(ctx, "")
	if err != nil {
		t.Fatalf("ListGlossaryTerms failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].TargetLang != "de" {
		t.Errorf("expected entries ordered by language, got %q first", all[0].TargetLang)
	}

	if err := s.DeleteGlossaryTerm(ctx, all[0].ID); err != nil {
		t.Fatalf("DeleteGlossaryTerm failed: %v", err)
	}
	de, _ := s.ListGlossaryTerms(ctx, "de")
	if len(de) != 0 {
		t.Errorf("expected german term deleted, got %d", len(de))
	}

	if err := s.DeleteGlossaryTerm(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Glossary_NormalizesUnicode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// "é" as e + combining acute, then precomposed.
	if err := s.AddGlossaryTerm(ctx, "en", "cafe\u0301", "coffee shop"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	if err := s.AddGlossaryTerm(ctx, "en", "caf\u00e9", "caf\u00e9"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}

	terms, err := s.GetGlossaryTerms(ctx, "en")
	if err != nil {
		t.Fatalf("GetGlossaryTerms failed: %v", err)
	}
	if len(terms) != 1 {
		t.Errorf("expected one normalized term, got %v", terms)
	}
}

func TestStore_Glossary_EmptyTerm(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddGlossaryTerm(context.Background(), "fr", "  ", "x"); err == nil {
		t.Error("expected error for empty source term")
	}
}
