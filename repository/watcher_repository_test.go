package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupwatchapp/groupwatchbackend/models"
)

func newTestWatcher(ownerID, groupID string) *models.Watcher {
	w := &models.Watcher{
		ID:                  uuid.NewString(),
		OwnerID:             ownerID,
		GroupID:             groupID,
		GroupName:           "Test Group",
		NotifyOnMatch:       true,
		ConfidenceThreshold: 0.6,
		IsActive:            true,
	}
	w.SetTargetPersonIDs([]string{"person-1"})
	return w
}

func TestWatcherRepositoryCreateAndGet(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	w := newTestWatcher("owner-1", "12345-67890@g.us")
	if err := repo.Create(w); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if w.CreatedAt == 0 || w.UpdatedAt == 0 {
		t.Errorf("expected timestamps to be set, got created=%d updated=%d", w.CreatedAt, w.UpdatedAt)
	}

	got, err := repo.GetByID(w.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.GroupID != w.GroupID || got.OwnerID != w.OwnerID {
		t.Errorf("got owner=%s group=%s, want owner=%s group=%s", got.OwnerID, got.GroupID, w.OwnerID, w.GroupID)
	}
	if ids := got.GetTargetPersonIDs(); len(ids) != 1 || ids[0] != "person-1" {
		t.Errorf("target person ids round-trip failed: %v", ids)
	}

	if _, err := repo.GetByID("missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for missing id, got %v", err)
	}
}

func TestWatcherRepositoryUniqueOwnerGroup(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	if err := repo.Create(newTestWatcher("owner-1", "12345-67890@g.us")); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if err := repo.Create(newTestWatcher("owner-1", "12345-67890@g.us")); err == nil {
		t.Error("expected unique constraint violation for duplicate (owner, group), got nil")
	}
	// same group under a different owner is fine
	if err := repo.Create(newTestWatcher("owner-2", "12345-67890@g.us")); err != nil {
		t.Errorf("Create for second owner failed: %v", err)
	}
}

func TestWatcherRepositoryGetByOwnerAndGroup(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	w := newTestWatcher("owner-1", "12345-67890@g.us")
	if err := repo.Create(w); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByOwnerAndGroup("owner-1", "12345-67890@g.us")
	if err != nil {
		t.Fatalf("GetByOwnerAndGroup failed: %v", err)
	}
	if got.ID != w.ID {
		t.Errorf("got id %s, want %s", got.ID, w.ID)
	}

	if _, err := repo.GetByOwnerAndGroup("owner-2", "12345-67890@g.us"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for other owner, got %v", err)
	}
}

func TestWatcherRepositoryListActiveByGroup(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	active := newTestWatcher("owner-1", "12345-67890@g.us")
	inactive := newTestWatcher("owner-2", "12345-67890@g.us")
	inactive.IsActive = false
	otherGroup := newTestWatcher("owner-3", "99999-11111@g.us")

	for _, w := range []*models.Watcher{active, inactive, otherGroup} {
		if err := repo.Create(w); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	watchers, err := repo.ListActiveByGroup("12345-67890@g.us")
	if err != nil {
		t.Fatalf("ListActiveByGroup failed: %v", err)
	}
	if len(watchers) != 1 || watchers[0].ID != active.ID {
		t.Errorf("expected only the active watcher, got %d watchers", len(watchers))
	}
}

func TestWatcherRepositoryListActiveGroupIDs(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	// two stored spellings of the same group must collapse to one id,
	// inactive watchers must not contribute, and ids come back in
	// natural order
	specs := []struct {
		owner  string
		group  string
		active bool
	}{
		{"owner-1", "12345-67890@g.us", true},
		{"owner-2", "12345-67890@G.US", true},
		{"owner-3", "2222-3333", true},
		{"owner-4", "alice", true},
		{"owner-5", "dormant-group@g.us", false},
	}
	for _, s := range specs {
		w := newTestWatcher(s.owner, s.group)
		w.IsActive = s.active
		if err := repo.Create(w); err != nil {
			t.Fatalf("Create(%s, %s) failed: %v", s.owner, s.group, err)
		}
	}

	ids, err := repo.ListActiveGroupIDs()
	if err != nil {
		t.Fatalf("ListActiveGroupIDs failed: %v", err)
	}

	want := []string{"2222-3333@g.us", "12345-67890@g.us", "alice@s.whatsapp.net"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids %v, want %d %v", len(ids), ids, len(want), want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s (full: %v)", i, ids[i], want[i], ids)
		}
	}
}

func TestWatcherRepositoryUpdate(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	w := newTestWatcher("owner-1", "12345-67890@g.us")
	if err := repo.Create(w); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reply := "Spotted!"
	w.GroupName = "Renamed Group"
	w.ConfidenceThreshold = 0.85
	w.AutoReply = true
	w.ReplyMessage = &reply
	if err := repo.Update(w); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(w.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.GroupName != "Renamed Group" || got.ConfidenceThreshold != 0.85 {
		t.Errorf("update not persisted: name=%s threshold=%v", got.GroupName, got.ConfidenceThreshold)
	}
	if !got.AutoReply || got.ReplyMessage == nil || *got.ReplyMessage != reply {
		t.Errorf("reply settings not persisted: autoReply=%v reply=%v", got.AutoReply, got.ReplyMessage)
	}

	missing := newTestWatcher("owner-x", "x-group@g.us")
	if err := repo.Update(missing); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound updating missing watcher, got %v", err)
	}
}

func TestWatcherRepositorySetActiveAndDelete(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	w := newTestWatcher("owner-1", "12345-67890@g.us")
	if err := repo.Create(w); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.SetActive(w.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	got, _ := repo.GetByID(w.ID)
	if got.IsActive {
		t.Error("watcher still active after SetActive(false)")
	}

	if err := repo.Delete(w.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(w.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
	}
	if err := repo.Delete(w.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound deleting twice, got %v", err)
	}
}

func TestWatcherRepositoryIncrements(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	w := newTestWatcher("owner-1", "12345-67890@g.us")
	if err := repo.Create(w); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.IncrementTotalMessages(w.ID); err != nil {
			t.Fatalf("IncrementTotalMessages failed: %v", err)
		}
	}
	if err := repo.IncrementImagesProcessed(w.ID); err != nil {
		t.Fatalf("IncrementImagesProcessed failed: %v", err)
	}
	if err := repo.IncrementPersonsDetected(w.ID); err != nil {
		t.Fatalf("IncrementPersonsDetected failed: %v", err)
	}

	got, err := repo.GetByID(w.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalMessages != 3 || got.ImagesProcessed != 1 || got.PersonsDetected != 1 {
		t.Errorf("counters = %d/%d/%d, want 3/1/1", got.TotalMessages, got.ImagesProcessed, got.PersonsDetected)
	}

	if err := repo.IncrementTotalMessages("missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound incrementing missing watcher, got %v", err)
	}
}

func TestWatcherRepositoryConcurrentIncrements(t *testing.T) {
	repo := NewWatcherRepository(newTestDB(t))

	w := newTestWatcher("owner-1", "12345-67890@g.us")
	if err := repo.Create(w); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const goroutines = 10
	errs := make(chan error, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.IncrementTotalMessages(w.ID); err != nil {
				errs <- fmt.Errorf("concurrent increment: %w", err)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	got, err := repo.GetByID(w.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalMessages != goroutines {
		t.Errorf("TotalMessages = %d after %d concurrent increments", got.TotalMessages, goroutines)
	}
}
