package livestore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID   string
	Seq  int
	Open bool
}

func newEntries() *Collection[entry] {
	return New(
		func(e entry) string { return e.ID },
		func(a, b entry) bool { return a.Seq > b.Seq }, // newest first
	)
}

func TestWatchReceivesInitialSnapshot(t *testing.T) {
	c := newEntries()
	c.Upsert(entry{ID: "a", Seq: 1, Open: true})
	c.Upsert(entry{ID: "b", Seq: 2, Open: true})

	var snapshots []Snapshot[entry]
	cancel := c.Watch(nil, 0, func(s Snapshot[entry]) { snapshots = append(snapshots, s) })
	defer cancel()

	require.Len(t, snapshots, 1)
	assert.Empty(t, snapshots[0].Changes)
	require.Len(t, snapshots[0].Items, 2)
	assert.Equal(t, "b", snapshots[0].Items[0].ID, "newest first")
}

func TestSnapshotCarriesFullResultSetPlusChanges(t *testing.T) {
	c := newEntries()
	var snapshots []Snapshot[entry]
	cancel := c.Watch(nil, 0, func(s Snapshot[entry]) { snapshots = append(snapshots, s) })
	defer cancel()

	c.Upsert(entry{ID: "a", Seq: 1})
	c.Upsert(entry{ID: "b", Seq: 2})
	c.Upsert(entry{ID: "a", Seq: 3})
	c.Delete("b")

	require.Len(t, snapshots, 5)

	added := snapshots[1]
	require.Len(t, added.Changes, 1)
	assert.Equal(t, ChangeAdded, added.Changes[0].Type)
	assert.Len(t, added.Items, 1)

	modified := snapshots[3]
	require.Len(t, modified.Changes, 1)
	assert.Equal(t, ChangeModified, modified.Changes[0].Type)
	assert.Equal(t, 3, modified.Changes[0].Item.Seq)
	assert.Len(t, modified.Items, 2, "snapshot is always the full result set")

	removed := snapshots[4]
	require.Len(t, removed.Changes, 1)
	assert.Equal(t, ChangeRemoved, removed.Changes[0].Type)
	assert.Equal(t, "b", removed.Changes[0].Item.ID)
	assert.Len(t, removed.Items, 1)
}

func TestFilteredWatch(t *testing.T) {
	c := newEntries()
	var snapshots []Snapshot[entry]
	cancel := c.Watch(func(e entry) bool { return e.Open }, 0, func(s Snapshot[entry]) {
		snapshots = append(snapshots, s)
	})
	defer cancel()

	c.Upsert(entry{ID: "a", Seq: 1, Open: true})
	c.Upsert(entry{ID: "b", Seq: 2, Open: false}) // never visible, no delivery
	c.Upsert(entry{ID: "a", Seq: 3, Open: false}) // leaves the view

	require.Len(t, snapshots, 3)
	leaving := snapshots[2]
	require.Len(t, leaving.Changes, 1)
	assert.Equal(t, ChangeRemoved, leaving.Changes[0].Type)
	assert.Empty(t, leaving.Items)
}

func TestLimitedWatch(t *testing.T) {
	c := newEntries()
	var last Snapshot[entry]
	cancel := c.Watch(nil, 2, func(s Snapshot[entry]) { last = s })
	defer cancel()

	for i := 1; i <= 4; i++ {
		c.Upsert(entry{ID: fmt.Sprintf("e%d", i), Seq: i})
	}

	require.Len(t, last.Items, 2)
	assert.Equal(t, "e4", last.Items[0].ID)
	assert.Equal(t, "e3", last.Items[1].ID)
}

func TestCancelStopsDeliveries(t *testing.T) {
	c := newEntries()
	count := 0
	cancel := c.Watch(nil, 0, func(Snapshot[entry]) { count++ })

	c.Upsert(entry{ID: "a", Seq: 1})
	cancel()
	c.Upsert(entry{ID: "b", Seq: 2})

	assert.Equal(t, 2, count, "initial snapshot plus one mutation")
}

func TestCapEvictsOldest(t *testing.T) {
	c := New(
		func(e entry) string { return e.ID },
		func(a, b entry) bool { return a.Seq > b.Seq },
		WithCap[entry](3),
	)
	var last Snapshot[entry]
	cancel := c.Watch(nil, 0, func(s Snapshot[entry]) { last = s })
	defer cancel()

	for i := 1; i <= 5; i++ {
		c.Upsert(entry{ID: fmt.Sprintf("e%d", i), Seq: i})
	}

	assert.Equal(t, 3, c.Len())
	require.Len(t, last.Items, 3)
	assert.Equal(t, "e5", last.Items[0].ID)
	assert.Equal(t, "e3", last.Items[2].ID)

	var removed int
	for _, change := range last.Changes {
		if change.Type == ChangeRemoved {
			removed++
		}
	}
	assert.Equal(t, 1, removed, "eviction surfaces as a removed change")
}

func TestCloseCancelsAllWatches(t *testing.T) {
	c := newEntries()
	count := 0
	c.Watch(nil, 0, func(Snapshot[entry]) { count++ })

	accepted := c.Upsert(entry{ID: "a", Seq: 1})
	require.True(t, accepted)

	c.Close()
	accepted = c.Upsert(entry{ID: "b", Seq: 2})

	assert.False(t, accepted, "writes after Close are rejected")
	assert.Equal(t, 2, count, "no delivery after Close")
	assert.Equal(t, 1, c.Len(), "rejected write never lands")
}
