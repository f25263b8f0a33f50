package desim

// StorePut is returned by Store.Put and FilterStore.Put. It succeeds once
// item has been added to the store.
type StorePut struct {
	*Event

	resource *storeCore
	item     interface{}
}

// StoreGet is returned by Store.Get and FilterStore.Get. It succeeds,
// with the matched item as its value, once an item satisfying predicate
// (any item, if predicate is nil) is available.
type StoreGet struct {
	*Event

	resource  *storeCore
	predicate func(interface{}) bool
}

// storeCore is a capacity-bounded FIFO of arbitrary items, shared by
// Store and FilterStore: the two differ only in whether Get is allowed to
// pass a selection predicate (spec.md §4.8).
//
// Grounded on the teacher's Buffer (buffer.go: Push/Pop/Peek/Capacity),
// generalized from a ring of same-typed messages to an arbitrary-item
// queue with the get side able to skip over non-matching items.
type storeCore struct {
	env      *Environment
	capacity int
	items    []interface{}
	putQueue []queueOp
	getQueue []queueOp
}

func (put *StorePut) attempt() bool {
	core := put.resource
	if len(core.items) >= core.capacity {
		return false
	}
	core.items = append(core.items, put.item)
	_ = put.Succeed(nil)
	core.env.InvokeHook(HookCtx{Domain: core.env, Pos: HookPosResourceAdmitted, Item: put})
	return true
}

func (get *StoreGet) attempt() bool {
	core := get.resource
	for i, item := range core.items {
		if get.predicate != nil && !get.predicate(item) {
			continue
		}
		core.items = append(core.items[:i:i], core.items[i+1:]...)
		_ = get.Succeed(item)
		core.env.InvokeHook(HookCtx{Domain: core.env, Pos: HookPosResourceAdmitted, Item: get})
		return true
	}
	return false
}

func newStoreCore(env *Environment, capacity int) *storeCore {
	if capacity <= 0 {
		panic(newUserError("store capacity must be > 0, got %d", capacity))
	}
	return &storeCore{env: env, capacity: capacity}
}

func (core *storeCore) put(item interface{}) *StorePut {
	put := &StorePut{Event: newEvent(core.env), resource: core, item: item}
	core.putQueue = append(core.putQueue, queueOp(put))
	runServiceLoop(&core.putQueue, &core.getQueue)
	return put
}

func (core *storeCore) get(predicate func(interface{}) bool) *StoreGet {
	get := &StoreGet{Event: newEvent(core.env), resource: core, predicate: predicate}
	core.getQueue = append(core.getQueue, queueOp(get))
	runServiceLoop(&core.putQueue, &core.getQueue)
	return get
}

// Store is a capacity-bounded FIFO of arbitrary items.
type Store struct {
	core *storeCore
}

// NewStore creates a Store that holds at most capacity items.
func NewStore(env *Environment, capacity int) *Store {
	return &Store{core: newStoreCore(env, capacity)}
}

// Put adds item to the store, queuing if it is full.
func (s *Store) Put(item interface{}) *StorePut { return s.core.put(item) }

// Get removes and returns the oldest item in the store, queuing if it is
// empty.
func (s *Store) Get() *StoreGet { return s.core.get(nil) }

// Items returns a snapshot of the store's current contents, oldest first.
func (s *Store) Items() []interface{} { return append([]interface{}(nil), s.core.items...) }

// Capacity returns the maximum number of items the store can hold.
func (s *Store) Capacity() int { return s.core.capacity }

// Status reports the store's current state for the monitor package.
func (s *Store) Status() map[string]interface{} {
	return map[string]interface{}{
		"kind": "Store", "capacity": s.Capacity(), "size": len(s.core.items),
	}
}

// FilterStore is a capacity-bounded FIFO of arbitrary items whose Get can
// select among pending items with a predicate instead of always taking
// the oldest.
type FilterStore struct {
	core *storeCore
}

// NewFilterStore creates a FilterStore that holds at most capacity items.
func NewFilterStore(env *Environment, capacity int) *FilterStore {
	return &FilterStore{core: newStoreCore(env, capacity)}
}

// Put adds item to the store, queuing if it is full.
func (s *FilterStore) Put(item interface{}) *StorePut { return s.core.put(item) }

// Get removes and returns the oldest item satisfying predicate, queuing
// until one exists. The predicate is re-evaluated against the current
// contents every time the store's state changes.
func (s *FilterStore) Get(predicate func(interface{}) bool) *StoreGet {
	if predicate == nil {
		panic(newUserError("FilterStore.Get requires a non-nil predicate"))
	}
	return s.core.get(predicate)
}

// Items returns a snapshot of the store's current contents, oldest first.
func (s *FilterStore) Items() []interface{} { return append([]interface{}(nil), s.core.items...) }

// Capacity returns the maximum number of items the store can hold.
func (s *FilterStore) Capacity() int { return s.core.capacity }

// Status reports the store's current state for the monitor package.
func (s *FilterStore) Status() map[string]interface{} {
	return map[string]interface{}{
		"kind": "FilterStore", "capacity": s.Capacity(), "size": len(s.core.items),
	}
}
