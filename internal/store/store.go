package store

import (
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
)

var (
	ErrEmptyRecordID = errors.New("empty record id")
	ErrEmptyPath     = errors.New("empty field path")
	ErrNoFields      = errors.New("no fields to write")
)

// Snapshot is one full-record state delivered to subscribers. Exists is false
// when the record has never been written (the "absent" signal).
type Snapshot struct {
	Exists bool
	Doc    Document
}

// Subscription is a push stream of record snapshots. The channel carries at
// most the latest state: intermediate writes may be coalesced, but the
// sequence observed is always monotonically non-decreasing.
type Subscription struct {
	C      <-chan Snapshot
	ch     chan Snapshot
	cancel func()
	once   sync.Once
}

// Cancel releases the subscription and closes its channel. Safe to call more
// than once. No state is left behind on the record.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Store is an in-process keyed record store with the write primitives of a
// realtime document database: per-field-path merge, field deletion, and
// commutative numeric increment. Every committed write fans the fresh
// snapshot out to all current subscribers of that record.
//
// There are deliberately no cross-field transactions and no read-modify-write
// primitives: callers express every mutation purely as a delta.
type Store struct {
	mu         sync.Mutex
	docs       map[string]Document
	subs       map[string]map[int]*Subscription
	nextSub    int
	clock      clockwork.Clock
	lastMillis int64
}

func New(clock clockwork.Clock) *Store {
	return &Store{
		docs:  make(map[string]Document),
		subs:  make(map[string]map[int]*Subscription),
		clock: clock,
	}
}

// Now returns a server-assigned timestamp. Issued timestamps are strictly
// increasing even if the underlying clock stalls or steps backwards, so two
// writes racing each other can never tie.
func (st *Store) Now() Timestamp {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.nowLocked()
}

func (st *Store) nowLocked() Timestamp {
	ms := st.clock.Now().UnixMilli()
	if ms <= st.lastMillis {
		ms = st.lastMillis + 1
	}
	st.lastMillis = ms
	return Timestamp{ms: ms}
}

// Subscribe registers a push subscriber for the record and immediately
// delivers the current snapshot (or the absent signal). The stream stays open
// until Cancel.
func (st *Store) Subscribe(recordID string) *Subscription {
	st.mu.Lock()
	defer st.mu.Unlock()

	id := st.nextSub
	st.nextSub++

	ch := make(chan Snapshot, 1)
	sub := &Subscription{C: ch, ch: ch}
	sub.cancel = func() { st.dropSubscriber(recordID, id) }

	if st.subs[recordID] == nil {
		st.subs[recordID] = make(map[int]*Subscription)
	}
	st.subs[recordID][id] = sub

	sub.push(st.snapshotLocked(recordID))
	return sub
}

func (st *Store) dropSubscriber(recordID string, id int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	m := st.subs[recordID]
	if m == nil {
		return
	}
	sub, ok := m[id]
	if !ok {
		return
	}
	delete(m, id)
	if len(m) == 0 {
		delete(st.subs, recordID)
	}
	close(sub.ch)
}

// MergeWrite applies a partial update: each entry of fields is a dotted field
// path set to its value. Unspecified fields are untouched. The record is
// created implicitly when absent. Per field path the write is
// last-writer-wins.
func (st *Store) MergeWrite(recordID string, fields map[string]any) error {
	if recordID == "" {
		return ErrEmptyRecordID
	}
	if len(fields) == 0 {
		return ErrNoFields
	}
	for path := range fields {
		if path == "" {
			return ErrEmptyPath
		}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	doc := st.docLocked(recordID)
	for path, value := range fields {
		if m, ok := value.(map[string]any); ok {
			value = copyNode(m)
		}
		setField(doc, path, value)
	}
	st.publishLocked(recordID)
	return nil
}

// DeleteFields removes all named field paths in one atomic operation.
func (st *Store) DeleteFields(recordID string, paths ...string) error {
	if recordID == "" {
		return ErrEmptyRecordID
	}
	if len(paths) == 0 {
		return ErrNoFields
	}
	for _, path := range paths {
		if path == "" {
			return ErrEmptyPath
		}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	doc, ok := st.docs[recordID]
	if !ok {
		return nil
	}
	for _, path := range paths {
		deleteField(doc, path)
	}
	st.publishLocked(recordID)
	return nil
}

// AtomicIncrement adds delta to the numeric field at path. A missing or
// non-numeric field counts as 0. Increments commute, so concurrent writers
// converge to the same total regardless of delivery order.
func (st *Store) AtomicIncrement(recordID, path string, delta int64) error {
	if recordID == "" {
		return ErrEmptyRecordID
	}
	if path == "" {
		return ErrEmptyPath
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	doc := st.docLocked(recordID)
	current := int64(0)
	if v, ok := getField(doc, path); ok {
		current = numericValue(v)
	}
	setField(doc, path, current+delta)
	st.publishLocked(recordID)
	return nil
}

func numericValue(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func (st *Store) docLocked(recordID string) Document {
	doc, ok := st.docs[recordID]
	if !ok {
		doc = make(Document)
		st.docs[recordID] = doc
	}
	return doc
}

func (st *Store) snapshotLocked(recordID string) Snapshot {
	doc, ok := st.docs[recordID]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{Exists: true, Doc: copyDocument(doc)}
}

func (st *Store) publishLocked(recordID string) {
	subs := st.subs[recordID]
	if len(subs) == 0 {
		return
	}
	snap := st.snapshotLocked(recordID)
	for _, sub := range subs {
		sub.push(snap)
	}
}

// push replaces any undelivered snapshot with the latest one. Subscribers are
// never blocked on; a slow consumer just sees coalesced states.
func (s *Subscription) push(snap Snapshot) {
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}
