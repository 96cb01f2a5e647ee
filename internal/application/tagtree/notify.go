package tagtree

import "tourtags/internal/domain"

// NotificationKind tells a presentation how to patch its view.
type NotificationKind int

const (
	NodeAdded NotificationKind = iota + 1
	NodeRemoved
	NodeUpdated
)

func (k NotificationKind) String() string {
	switch k {
	case NodeAdded:
		return "added"
	case NodeRemoved:
		return "removed"
	case NodeUpdated:
		return "updated"
	}
	return "unknown"
}

// Notification describes one structural or content change. Node is NoNode
// for removals since the slot is already released.
type Notification struct {
	Kind   NotificationKind
	Parent domain.Key
	Key    domain.Key
	Node   NodeID
}

// Listener receives notifications synchronously on the goroutine that
// mutates the tree.
type Listener func(Notification)

// Subscribe registers a listener and returns a function that removes it.
func (t *Tree) Subscribe(l Listener) func() {
	id := t.nextListener
	t.nextListener++
	t.listeners[id] = l
	return func() { delete(t.listeners, id) }
}

func (t *Tree) emit(n Notification) {
	for _, l := range t.listeners {
		l(n)
	}
}

func (t *Tree) emitAdded(id NodeID) {
	n := t.nodes[id]
	t.emit(Notification{Kind: NodeAdded, Parent: t.keyOf(n.parent), Key: n.key, Node: id})
}

func (t *Tree) emitRemoved(parent NodeID, key domain.Key) {
	t.emit(Notification{Kind: NodeRemoved, Parent: t.keyOf(parent), Key: key, Node: NoNode})
}

func (t *Tree) emitUpdated(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	t.emit(Notification{Kind: NodeUpdated, Parent: t.keyOf(n.parent), Key: n.key, Node: id})
}

func (t *Tree) keyOf(id NodeID) domain.Key {
	if n := t.get(id); n != nil {
		return n.key
	}
	return domain.RootKey
}
