//go:build integration

package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_SaveAndFindRun(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	content := "agents:\n  - name: integration-" + uuid.New().String()[:8]
	hash := HashContent(content)

	result, _ := json.Marshal(map[string]any{
		"company_info": map[string]string{"name": "Integration HVAC"},
	})

	id, err := s.SaveRun(ctx, Run{
		ContentHash:   hash,
		ContentLength: len(content),
		Source:        "integration-test",
		CompanyName:   "Integration HVAC",
		AgentCount:    1,
		Result:        result,
	})
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected non-nil run id")
	}

	found, err := s.FindByContentHash(ctx, hash)
	if err != nil {
		t.Fatalf("failed to find run: %v", err)
	}
	if found == nil {
		t.Fatal("expected run to be found by content hash")
	}
	if found.ID != id {
		t.Errorf("expected run id %s, got %s", id, found.ID)
	}
	if found.CompanyName != "Integration HVAC" {
		t.Errorf("expected company name, got %q", found.CompanyName)
	}
}

func TestIntegration_FindMissingHash(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	found, err := s.FindByContentHash(ctx, HashContent("no-such-content-"+uuid.New().String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for unknown hash, got %+v", found)
	}
}

func TestIntegration_RecentRuns(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		content := "agents: [] # recent-" + uuid.New().String()
		_, err := s.SaveRun(ctx, Run{
			ContentHash:   HashContent(content),
			ContentLength: len(content),
			Source:        "integration-test",
			AgentCount:    0,
			Result:        json.RawMessage(`{}`),
		})
		if err != nil {
			t.Fatalf("failed to save run %d: %v", i, err)
		}
	}

	runs, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}
