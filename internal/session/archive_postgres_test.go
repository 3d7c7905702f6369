package session

import (
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/coursedesk/coursedesk/internal/platform/database"
)

func TestPostgresArchive_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := t.Context()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("coursedesk"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	db, err := database.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	arch, err := NewPostgresArchive(db.Pool)
	if err != nil {
		t.Fatalf("NewPostgresArchive() error = %v", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	snap := snapshot{
		Sessions: []Session{
			{
				ID: "s2", UnitID: 2, UnitName: "Graphs", CoursePath: "CS101 > 2024 > Fall",
				UpdatedAt: now,
				Messages: []Message{
					{ID: "m1", Role: RoleUser, Content: "What is BFS?", CreatedAt: now},
					{ID: "m2", Role: RoleAssistant, Content: "Level-order traversal.", Saved: true, CreatedAt: now},
				},
			},
			{ID: "s1", UnitID: 1, UnitName: "Intro", Messages: []Message{}, UpdatedAt: now.Add(-time.Hour)},
		},
		Current: "s2",
	}

	if err := arch.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := arch.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Current != "s2" {
		t.Errorf("Current = %q, want s2", got.Current)
	}
	if len(got.Sessions) != 2 || got.Sessions[0].ID != "s2" || got.Sessions[1].ID != "s1" {
		t.Fatalf("sessions = %+v, want s2 then s1", got.Sessions)
	}
	msgs := got.Sessions[0].Messages
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Fatalf("messages = %+v", msgs)
	}
	if !msgs[1].Saved {
		t.Error("saved flag should survive the round trip")
	}

	// A second save replaces the collection rather than appending.
	snap.Sessions = snap.Sessions[:1]
	snap.Current = ""
	if err := arch.Save(ctx, snap); err != nil {
		t.Fatalf("Save() replace error = %v", err)
	}
	got, err = arch.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after replace error = %v", err)
	}
	if len(got.Sessions) != 1 || got.Current != "" {
		t.Errorf("after replace: %d sessions, current %q", len(got.Sessions), got.Current)
	}
}
