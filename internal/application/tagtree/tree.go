// Package tagtree maintains the lazily built tag/tour aggregation tree.
//
// Nodes live in an arena owned by Tree and are addressed by NodeID. A node's
// children are fetched from the repository the first time they are asked for
// and cached until an event invalidates them. Tree is not safe for concurrent
// use; Session serializes access from other goroutines.
package tagtree

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// NodeID addresses a node in the arena. IDs are not reused while a tree
// lives, so a stale ID resolves to nothing instead of to another node.
type NodeID int

const (
	// RootID is the invisible root every tree starts with.
	RootID NodeID = 0
	// NoNode marks an absent parent or a released node.
	NoNode NodeID = -1
)

type node struct {
	key        domain.Key
	name       string
	expandType domain.ExpandType
	stats      domain.Stats
	tour       *domain.TourSummary

	parent   NodeID
	children []NodeID
	fetched  bool
	expanded bool
}

// NodeView is a read-only copy of one node.
type NodeView struct {
	ID         NodeID
	Key        domain.Key
	Name       string
	ExpandType domain.ExpandType
	Stats      domain.Stats
	Tour       *domain.TourSummary
	Parent     NodeID
	Fetched    bool
	Expanded   bool
	ChildCount int
}

// HasChildren reports whether an expand affordance should be shown. Nodes
// that were never fetched are assumed to have children.
func (v NodeView) HasChildren() bool {
	if v.Key.IsLeaf() {
		return false
	}
	return !v.Fetched || v.ChildCount > 0
}

// Observer receives tree instrumentation.
type Observer interface {
	FetchDone(v domain.Variant, d time.Duration, err error)
	Patched(event string)
	NodesLive(n int)
}

type nopObserver struct{}

func (nopObserver) FetchDone(domain.Variant, time.Duration, error) {}
func (nopObserver) Patched(string)                                 {}
func (nopObserver) NodesLive(int)                                  {}

// Tree is the arena-backed tag tree of one view.
type Tree struct {
	repo      ports.StatisticsRepository
	reducer   domain.Reducer
	layout    domain.Layout
	filter    domain.Filter
	scrambler *domain.Scrambler
	log       zerolog.Logger
	observer  Observer

	nodes []*node
	index map[domain.Key][]NodeID
	live  int

	listeners    map[int]Listener
	nextListener int
}

// Option configures a Tree.
type Option func(*Tree)

// WithLayout sets the root layout. The default is hierarchical.
func WithLayout(l domain.Layout) Option {
	return func(t *Tree) { t.layout = l }
}

// WithReducer sets the reducer used for every node's stats.
func WithReducer(r domain.Reducer) Option {
	return func(t *Tree) { t.reducer = r }
}

// WithFilter restricts the tours that contribute to the tree.
func WithFilter(f domain.Filter) Option {
	return func(t *Tree) { t.filter = f }
}

// WithScrambler obscures titles and numbers as they enter the tree.
func WithScrambler(s *domain.Scrambler) Option {
	return func(t *Tree) { t.scrambler = s }
}

// WithLogger sets the logger fetch failures and ignored events go to.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tree) { t.log = l }
}

// WithObserver sets the instrumentation sink.
func WithObserver(o Observer) Option {
	return func(t *Tree) {
		if o != nil {
			t.observer = o
		}
	}
}

// New creates a tree with an unfetched root. Nothing is queried until Build
// or FetchChildren is called.
func New(repo ports.StatisticsRepository, opts ...Option) *Tree {
	t := &Tree{
		repo:      repo,
		reducer:   domain.NewReducer(domain.BasisMovingTime),
		layout:    domain.LayoutHierarchical,
		log:       zerolog.Nop(),
		observer:  nopObserver{},
		index:     make(map[domain.Key][]NodeID),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.alloc(&node{key: domain.RootKey, parent: NoNode, expanded: true})
	return t
}

// Layout returns the current root layout.
func (t *Tree) Layout() domain.Layout {
	return t.layout
}

// Build fetches the root level. The returned error is informational: on
// failure the root is left fetched with no children.
func (t *Tree) Build(ctx context.Context) error {
	if t.nodes[RootID].fetched {
		return nil
	}
	return t.fetch(ctx, RootID)
}

// Node returns a copy of the node, or false when the ID is stale.
func (t *Tree) Node(id NodeID) (NodeView, bool) {
	n := t.get(id)
	if n == nil {
		return NodeView{}, false
	}
	v := NodeView{
		ID:         id,
		Key:        n.key,
		Name:       n.name,
		ExpandType: n.expandType,
		Stats:      n.stats,
		Parent:     n.parent,
		Fetched:    n.fetched,
		Expanded:   n.expanded,
		ChildCount: len(n.children),
	}
	if n.tour != nil {
		tour := *n.tour
		tour.TagIDs = slices.Clone(n.tour.TagIDs)
		v.Tour = &tour
	}
	return v, true
}

// Parent returns the parent of a node, or NoNode for the root and stale IDs.
func (t *Tree) Parent(id NodeID) NodeID {
	n := t.get(id)
	if n == nil {
		return NoNode
	}
	return n.parent
}

// Children returns the cached children without querying. The boolean is
// false while the node is unfetched, which is distinct from fetched with no
// children.
func (t *Tree) Children(id NodeID) ([]NodeID, bool) {
	n := t.get(id)
	if n == nil || !n.fetched {
		return nil, false
	}
	return slices.Clone(n.children), true
}

// Path returns the keys from the first level below the root down to id.
func (t *Tree) Path(id NodeID) []domain.Key {
	var path []domain.Key
	for cur := id; cur != RootID; {
		n := t.get(cur)
		if n == nil {
			return nil
		}
		path = append(path, n.key)
		cur = n.parent
	}
	slices.Reverse(path)
	return path
}

// Depth returns how many levels below the root a node sits.
func (t *Tree) Depth(id NodeID) int {
	return len(t.Path(id))
}

// Find returns every materialized node with the given key. A tag filed under
// several categories appears once per placement.
func (t *Tree) Find(key domain.Key) []NodeID {
	return slices.Clone(t.index[key])
}

// Len returns the number of live nodes, the root included.
func (t *Tree) Len() int {
	return t.live
}

// Visible returns the nodes a presentation shows, depth first, descending
// only into expanded nodes. The root is not included.
func (t *Tree) Visible() []NodeID {
	var out []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := t.nodes[id]
		for _, c := range n.children {
			out = append(out, c)
			if cn := t.nodes[c]; cn.expanded && cn.fetched {
				walk(c)
			}
		}
	}
	walk(RootID)
	return out
}

// Expand fetches a node's children if needed and marks it expanded. Leaves
// are never expanded.
func (t *Tree) Expand(ctx context.Context, id NodeID) []NodeID {
	n := t.get(id)
	if n == nil || n.key.IsLeaf() {
		return nil
	}
	children := t.FetchChildren(ctx, id)
	n.expanded = true
	return children
}

// Collapse marks a node collapsed. Its children stay cached.
func (t *Tree) Collapse(id NodeID) {
	if n := t.get(id); n != nil && id != RootID {
		n.expanded = false
	}
}

// IsExpanded reports whether the node is marked expanded.
func (t *Tree) IsExpanded(id NodeID) bool {
	n := t.get(id)
	return n != nil && n.expanded
}

// CollectTourIDs returns the distinct tour ids below the given nodes,
// fetching children where needed. Order follows the tree.
func (t *Tree) CollectTourIDs(ctx context.Context, ids ...NodeID) []int64 {
	seen := make(map[int64]struct{})
	var out []int64

	stack := slices.Clone(ids)
	slices.Reverse(stack)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.get(id)
		if n == nil {
			continue
		}
		if n.key.Variant == domain.VariantTour {
			if _, ok := seen[n.key.ID]; !ok {
				seen[n.key.ID] = struct{}{}
				out = append(out, n.key.ID)
			}
			continue
		}

		children := t.FetchChildren(ctx, id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

func (t *Tree) get(id NodeID) *node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

func (t *Tree) alloc(n *node) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.index[n.key] = append(t.index[n.key], id)
	t.live++
	return id
}

// attach allocates n as the last child of parent.
func (t *Tree) attach(parent NodeID, n *node) NodeID {
	n.parent = parent
	id := t.alloc(n)
	p := t.nodes[parent]
	p.children = append(p.children, id)
	return id
}

// release frees a node and its whole subtree. The caller unlinks it from
// its parent.
func (t *Tree) release(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	for _, c := range n.children {
		t.release(c)
	}
	ids := t.index[n.key]
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	}
	if len(ids) == 0 {
		delete(t.index, n.key)
	} else {
		t.index[n.key] = ids
	}
	t.nodes[id] = nil
	t.live--
}

// dropChildren releases every child of id and returns their keys.
func (t *Tree) dropChildren(id NodeID) []domain.Key {
	n := t.nodes[id]
	keys := make([]domain.Key, 0, len(n.children))
	for _, c := range n.children {
		keys = append(keys, t.nodes[c].key)
		t.release(c)
	}
	n.children = nil
	n.fetched = false
	return keys
}
