package briefing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
	"github.com/readyday/readyday/internal/storage"
)

type fakeSyncer struct {
	calls  int
	err    error
	onSync func()
}

func (f *fakeSyncer) Sync(ctx context.Context, userID uuid.UUID) error {
	f.calls++
	if f.onSync != nil {
		f.onSync()
	}
	return f.err
}

func serviceFixture(t *testing.T, whoop *fakeWhoop, syncer *fakeSyncer) (*Service, *storage.DB) {
	t.Helper()

	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	users := storage.NewUserStore(db)
	if _, err := users.Create("Test User"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	gen := testGenerator(whoop, &fakeEvents{}, nil)
	return NewService(gen, syncer, users, storage.NewBriefingStore(db)), db
}

func TestServiceLoadHappyPath(t *testing.T) {
	whoop := &fakeWhoop{recovery: recoveryWithScore(80), sleep: sleepOf(8)}
	syncer := &fakeSyncer{}
	svc, _ := serviceFixture(t, whoop, syncer)

	b, err := svc.Load(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.RecoveryZone != core.ZoneGreen {
		t.Errorf("zone = %v, want green", b.RecoveryZone)
	}
	if syncer.calls != 0 {
		t.Errorf("sync should not run when cache is warm, got %d calls", syncer.calls)
	}

	// The briefing is persisted for later lookup
	cached, err := svc.Cached(time.Now())
	if err != nil {
		t.Fatalf("Cached failed: %v", err)
	}
	if cached.RecoveryScore != 80 {
		t.Errorf("cached score = %d, want 80", cached.RecoveryScore)
	}
}

func TestServiceRetriesOnceAfterSync(t *testing.T) {
	whoop := &fakeWhoop{recoveryErr: core.ErrNoRecoveryData}
	syncer := &fakeSyncer{}
	syncer.onSync = func() {
		whoop.recovery = recoveryWithScore(65)
		whoop.recoveryErr = nil
		whoop.sleep = sleepOf(7)
	}
	svc, _ := serviceFixture(t, whoop, syncer)

	b, err := svc.Load(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Load should succeed after sync: %v", err)
	}
	if syncer.calls != 1 {
		t.Errorf("expected exactly 1 sync, got %d", syncer.calls)
	}
	if b.RecoveryZone != core.ZoneYellow {
		t.Errorf("zone = %v, want yellow", b.RecoveryZone)
	}
}

func TestServiceRetryFailsWhenStillEmpty(t *testing.T) {
	whoop := &fakeWhoop{recoveryErr: core.ErrNoRecoveryData}
	syncer := &fakeSyncer{}
	svc, _ := serviceFixture(t, whoop, syncer)

	_, err := svc.Load(context.Background(), time.Now())
	if !errors.Is(err, core.ErrNoRecoveryData) {
		t.Errorf("expected ErrNoRecoveryData, got %v", err)
	}
	if syncer.calls != 1 {
		t.Errorf("expected exactly 1 sync attempt, got %d", syncer.calls)
	}
}

func TestServiceSyncErrorPropagates(t *testing.T) {
	whoop := &fakeWhoop{sleepErr: core.ErrNoSleepData, recovery: recoveryWithScore(50)}
	syncer := &fakeSyncer{err: core.ErrTokenExpired}
	svc, _ := serviceFixture(t, whoop, syncer)

	_, err := svc.Load(context.Background(), time.Now())
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Errorf("expected sync error to propagate, got %v", err)
	}
}

func TestServiceNoUser(t *testing.T) {
	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	gen := testGenerator(&fakeWhoop{}, &fakeEvents{}, nil)
	svc := NewService(gen, &fakeSyncer{}, storage.NewUserStore(db), storage.NewBriefingStore(db))

	_, err = svc.Load(context.Background(), time.Now())
	if !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
