package onboarding

import (
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
)

func TestStoreReturnsIsolatedSnapshots(t *testing.T) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	owner := node.Generate()
	moduleID := node.Generate()

	store := NewStore(DefaultDraftTTL)
	draft := store.Create(owner)

	if _, err := store.Mutate(draft.ID, owner, func(d *Draft) error {
		d.toggleModule(moduleID)
		return nil
	}); err != nil {
		t.Fatalf("failed to mutate: %v", err)
	}

	snapshot, err := store.Get(draft.ID, owner)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if !snapshot.Selected[moduleID] {
		t.Fatal("expected module selected in snapshot")
	}

	// Later store mutations must not show through the snapshot.
	if _, err := store.Mutate(draft.ID, owner, func(d *Draft) error {
		d.toggleModule(moduleID)
		return nil
	}); err != nil {
		t.Fatalf("failed to mutate: %v", err)
	}
	if !snapshot.Selected[moduleID] {
		t.Fatal("expected snapshot unaffected by later mutation")
	}

	// Writes to the snapshot must not show through to the store.
	snapshot.Selected[node.Generate()] = true
	current, err := store.Get(draft.ID, owner)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if len(current.Selected) != 0 {
		t.Fatalf("expected empty selection in store, got %d", len(current.Selected))
	}
}

func TestConcurrentDraftReadsAndWrites(t *testing.T) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	owner := node.Generate()
	moduleID := node.Generate()

	store := NewStore(DefaultDraftTTL)
	draft := store.Create(owner)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, err := store.Mutate(draft.ID, owner, func(d *Draft) error {
				d.toggleModule(moduleID)
				return nil
			}); err != nil {
				t.Errorf("failed to mutate: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 500; i++ {
		snapshot, err := store.Get(draft.ID, owner)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		_ = snapshot.SelectedModuleIDs()
		_ = len(snapshot.Contacts)
	}
	wg.Wait()
}
