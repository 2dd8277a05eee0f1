package dbvt

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timandy/routine"
	"golang.org/x/time/rate"
)

// GridCollideFunc and GridDistanceFunc are the extension points a caller
// wires in via WithGridDispatch to handle a KindOctree query argument with
// the specialized traversal of dbvt/grid (§4.G). Manager cannot import
// dbvt/grid directly: grid depends on dbvt's exported accessor API, so the
// wiring happens at the application's composition root instead, keeping
// the package graph acyclic.
type GridCollideFunc func(tree *Tree, obj Object, cb OverlapCallback, cdata any)

// GridDistanceFunc is the distance analogue of GridCollideFunc.
type GridDistanceFunc func(tree *Tree, obj Object, cb DistanceCallback, cdata any, minDist float64) float64

// managerOptions collects the functional options in ManagerOption before
// NewManager builds the Manager, mirroring this corpus's
// rebalancing-options pattern.
type managerOptions struct {
	cfg          Config
	metrics      metricsRecorder
	events       eventPublisher
	limiter      *rate.Limiter
	gridCollide  GridCollideFunc
	gridDistance GridDistanceFunc
}

// metricsRecorder is the minimal surface Manager needs from dbvt/metrics.Metrics,
// kept local so dbvt does not import the metrics package.
type metricsRecorder interface {
	NodeCount(n int)
	RegisterTotal()
	UnregisterTotal()
	UpdateTotal()
	RebalanceDuration(strategy string, seconds float64)
	TraversalPairsTotal(n int)
}

// eventPublisher is the minimal surface Manager needs from dbvt/events.Bus.
type eventPublisher interface {
	Publish(kind string, obj Object)
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*managerOptions)

// WithConfig overrides the default tunables (§6).
func WithConfig(cfg Config) ManagerOption {
	return func(o *managerOptions) { o.cfg = cfg }
}

// WithMetrics attaches a metrics recorder (typically *dbvt/metrics.Metrics).
func WithMetrics(m metricsRecorder) ManagerOption {
	return func(o *managerOptions) { o.metrics = m }
}

// WithEventBus attaches a lifecycle event publisher (typically
// *dbvt/events.Bus).
func WithEventBus(b eventPublisher) ManagerOption {
	return func(o *managerOptions) { o.events = b }
}

// WithRebalanceRateLimit bounds how often Setup may run a top-down rebuild,
// using a token-bucket limiter (§11 domain stack).
func WithRebalanceRateLimit(r rate.Limit, burst int) ManagerOption {
	return func(o *managerOptions) { o.limiter = rate.NewLimiter(r, burst) }
}

// WithGridDispatch wires the specialized octree traversal for KindOctree
// query objects. Without it, a KindOctree query that is not configured to be
// treated as opaque geometry matches nothing: CollideObject reports no pairs
// and DistanceObject returns startMinDist unchanged.
func WithGridDispatch(collide GridCollideFunc, distance GridDistanceFunc) ManagerOption {
	return func(o *managerOptions) { o.gridCollide = collide; o.gridDistance = distance }
}

// Manager is the single entry point of §4.D: it owns a Tree and the
// object/leaf table over it, and serializes every mutation through a
// goroutine-ownership check (§5 "single-threaded-per-manager").
type Manager struct {
	tree         *Tree
	table        *objectTable
	cfg          Config
	metrics      metricsRecorder
	events       eventPublisher
	limiter      *rate.Limiter
	gridCollide  GridCollideFunc
	gridDistance GridDistanceFunc
	owner        atomic.Int64
}

// NewManager builds an empty Manager. An invalid Config (via WithConfig)
// is reported by the returned error rather than panicking.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	o := managerOptions{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Manager{
		tree:         NewTree(cfg),
		table:        newObjectTable(),
		cfg:          cfg,
		metrics:      o.metrics,
		events:       o.events,
		limiter:      o.limiter,
		gridCollide:  o.gridCollide,
		gridDistance: o.gridDistance,
	}, nil
}

// lock enforces the single-threaded-per-manager contract: it fails with
// ErrConcurrentMutation if another goroutine currently owns the manager, or
// ErrMutationDuringCallback if the very same goroutine re-enters while
// already inside one of its own traversal callbacks.
func (m *Manager) lock() (int64, error) {
	gid := routine.Goid()
	if m.owner.CompareAndSwap(0, gid) {
		return gid, nil
	}
	if m.owner.Load() == gid {
		return 0, ErrMutationDuringCallback
	}
	return 0, ErrConcurrentMutation
}

func (m *Manager) unlock(gid int64) {
	m.owner.CompareAndSwap(gid, 0)
}

// RegisterObject inserts obj into the tree and returns ErrAlreadyRegistered
// if it is already present.
func (m *Manager) RegisterObject(obj Object) error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)

	if _, ok := m.table.lookup(obj); ok {
		return ErrAlreadyRegistered
	}
	h := m.tree.Insert(obj.AABB(), obj)
	m.table.insert(obj, h)
	tracer().P("goid", gid).Debugf("dbvt: registered object hash=%x leaves=%d",
		m.table.diagnosticHash(obj), m.tree.Size())
	if m.metrics != nil {
		m.metrics.RegisterTotal()
		m.metrics.NodeCount(m.tree.Size())
	}
	if m.events != nil {
		m.events.Publish(eventRegistered, obj)
	}
	return nil
}

// RegisterObjects bulk-inserts objs using a top-down median-split build
// (§4.I), which produces a tighter initial tree than n sequential Inserts.
func (m *Manager) RegisterObjects(objs []Object) error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)

	for _, obj := range objs {
		if _, ok := m.table.lookup(obj); ok {
			return ErrAlreadyRegistered
		}
	}

	leaves := make([]NodeHandle, 0, len(objs))
	for _, obj := range objs {
		leaf := m.tree.arena.allocate()
		n := m.tree.arena.get(leaf)
		n.bv = obj.AABB().Fattened(m.cfg.FatMargin)
		n.data = obj
		n.height = 0
		m.tree.nodeCount++
		leaves = append(leaves, leaf)
		m.table.insert(obj, leaf)
	}

	var existing []NodeHandle
	if m.tree.root != NullHandle {
		m.tree.collectLeaves(m.tree.root, &existing)
		m.tree.freeInternalNodes(m.tree.root)
	}
	leaves = append(existing, leaves...)
	m.tree.root = m.tree.buildTopDown(leaves, m.cfg.InitLevel)
	if m.tree.root != NullHandle {
		m.tree.arena.get(m.tree.root).parent = NullHandle
	}

	tracer().P("goid", gid).Debugf("dbvt: bulk-registered %d objects, tree now %d leaves", len(objs), m.tree.Size())
	if m.metrics != nil {
		m.metrics.NodeCount(m.tree.Size())
	}
	if m.events != nil {
		for _, obj := range objs {
			m.events.Publish(eventRegistered, obj)
		}
	}
	return nil
}

// UnregisterObject removes obj from the tree. Unregistering an object that
// is not registered is a no-op (§9 open question).
func (m *Manager) UnregisterObject(obj Object) error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)

	h, ok := m.table.lookup(obj)
	if !ok {
		return nil
	}
	m.tree.Remove(h)
	m.table.remove(obj)
	tracer().P("goid", gid).Debugf("dbvt: unregistered object hash=%x leaves=%d",
		m.table.diagnosticHash(obj), m.tree.Size())
	if m.metrics != nil {
		m.metrics.UnregisterTotal()
		m.metrics.NodeCount(m.tree.Size())
	}
	if m.events != nil {
		m.events.Publish(eventUnregistered, obj)
	}
	return nil
}

// Update re-synchronizes obj's leaf bv with its current AABB(), then runs
// Setup once to rebalance. If obj is not registered no leaf is touched, but
// Setup still runs.
func (m *Manager) Update(obj Object) error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)
	m.updateLocked(gid, obj)
	m.setupLocked(gid)
	return nil
}

// UpdateObjects re-synchronizes each of objs' leaf bv in turn, without an
// intervening rebalance, then runs Setup once at the end (§4.D "update(list)").
func (m *Manager) UpdateObjects(objs []Object) error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)
	for _, obj := range objs {
		m.updateLocked(gid, obj)
	}
	m.setupLocked(gid)
	return nil
}

func (m *Manager) updateLocked(gid int64, obj Object) {
	_ = gid
	h, ok := m.table.lookup(obj)
	if !ok {
		return
	}
	m.tree.Update(h, obj.AABB())
	// Update may have removed and reinserted obj under a new handle.
	m.rebuildTable()
	if m.metrics != nil {
		m.metrics.UpdateTotal()
	}
	if m.events != nil {
		m.events.Publish(eventUpdated, obj)
	}
}

// UpdateAll re-synchronizes every registered object's leaf bv, then runs
// Setup to rebalance (§4.D "per-tick update cycle").
func (m *Manager) UpdateAll() error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)

	for obj, h := range m.table.handles {
		newBV := obj.AABB()
		if !m.tree.BV(h).Contains(newBV) {
			m.tree.Update(h, newBV)
			if m.events != nil {
				m.events.Publish(eventUpdated, obj)
			}
		}
	}
	m.rebuildTable()
	m.setupLocked(gid)
	return nil
}

// rebuildTable repairs objectTable entries after bulk Update calls may have
// reinserted leaves under new handles. Update always re-registers the same
// Object key, so a full handles-map rebuild from the tree's current leaves
// is the simplest correct fix-up.
func (m *Manager) rebuildTable() {
	fresh := make(map[Object]NodeHandle, m.table.len())
	if m.tree.root != NullHandle {
		var leaves []NodeHandle
		m.tree.collectLeaves(m.tree.root, &leaves)
		for _, h := range leaves {
			fresh[m.tree.Data(h)] = h
		}
	}
	m.table.handles = fresh
}

// Setup runs one rebalancing pass, choosing between incremental rotations
// and a full top-down rebuild by comparing the tree's height against
// log2(n) + MaxNonbalancedLevel (§4.B "Setup"). A top-down rebuild is
// additionally subject to the configured rate limiter, if any.
func (m *Manager) Setup() error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)
	m.setupLocked(gid)
	return nil
}

func (m *Manager) setupLocked(gid int64) {
	n := m.tree.Size()
	if n < 2 {
		return
	}
	start := time.Now()
	height := m.tree.MaxHeight()
	balanced := int(math.Log2(float64(n)))
	strategy := "incremental"
	if height-balanced > m.cfg.MaxNonbalancedLevel && (m.limiter == nil || m.limiter.Allow()) {
		strategy = "topdown"
		m.tree.BalanceTopdown()
		m.rebuildTable()
	} else {
		m.tree.BalanceIncremental(m.cfg.IncrementalBalancePasses)
	}
	if m.metrics != nil {
		m.metrics.RebalanceDuration(strategy, time.Since(start).Seconds())
	}
	tracer().P("goid", gid).Debugf("dbvt: setup strategy=%s leaves=%d height=%d", strategy, n, m.tree.MaxHeight())
}

// Clear removes every registered object and resets the arena (§4.A
// "reset").
func (m *Manager) Clear() error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)

	m.tree.arena.reset()
	m.tree.root = NullHandle
	m.tree.nodeCount = 0
	m.table.handles = make(map[Object]NodeHandle)
	if m.metrics != nil {
		m.metrics.NodeCount(0)
	}
	if m.events != nil {
		m.events.Publish(eventCleared, nil)
	}
	return nil
}

// GetObjects returns every currently registered object, in unspecified
// order.
func (m *Manager) GetObjects() []Object {
	objs := make([]Object, 0, m.table.len())
	for obj := range m.table.handles {
		objs = append(objs, obj)
	}
	return objs
}

// Size returns the number of registered objects.
func (m *Manager) Size() int { return m.table.len() }

// Collide reports every pair of registered objects whose bvs overlap.
func (m *Manager) Collide(cb OverlapCallback, cdata any) error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)
	pairs := 0
	m.tree.CollideSelf(func(a, b Object, cdata any) bool {
		pairs++
		return cb(a, b, cdata)
	}, cdata)
	if m.metrics != nil {
		m.metrics.TraversalPairsTotal(pairs)
	}
	return nil
}

// CollideWith reports every overlapping pair between m's objects and
// other's.
func (m *Manager) CollideWith(other *Manager, cb OverlapCallback, cdata any) error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)
	m.tree.CollideTwo(other.tree, cb, cdata)
	return nil
}

// CollideObject reports every registered object overlapping query. If
// query's GeometryKind is KindOctree and the manager is not configured to
// treat octrees as opaque geometry (§6 OctreeAsGeometryCollide), the call
// is dispatched to the wired GridCollideFunc instead of the plain bv query.
func (m *Manager) CollideObject(query Object, cb OverlapCallback, cdata any) error {
	gid, err := m.lock()
	if err != nil {
		return err
	}
	defer m.unlock(gid)
	return m.collideObjectLocked(query, cb, cdata)
}

func (m *Manager) collideObjectLocked(query Object, cb OverlapCallback, cdata any) error {
	if query.GeometryKind() == KindOctree && !m.cfg.OctreeAsGeometryCollide {
		if m.gridCollideFunc() == nil {
			return nil
		}
		m.gridCollideFunc()(m.tree, query, cb, cdata)
		return nil
	}
	m.tree.CollideQuery(query.AABB(), func(obj Object, cdata any) bool {
		return cb(query, obj, cdata)
	}, cdata)
	return nil
}

// Distance reports the nearest registered pair within the tree, starting
// the search from startMinDist (+Inf for unbounded).
func (m *Manager) Distance(cb DistanceCallback, cdata any, startMinDist float64) (float64, error) {
	gid, err := m.lock()
	if err != nil {
		return startMinDist, err
	}
	defer m.unlock(gid)
	return m.tree.DistanceSelf(cb, cdata, startMinDist), nil
}

// DistanceWith is the two-manager analogue of Distance.
func (m *Manager) DistanceWith(other *Manager, cb DistanceCallback, cdata any, startMinDist float64) (float64, error) {
	gid, err := m.lock()
	if err != nil {
		return startMinDist, err
	}
	defer m.unlock(gid)
	return m.tree.DistanceTwo(other.tree, cb, cdata, startMinDist), nil
}

// DistanceObject is the nearest-to-query analogue of CollideObject.
func (m *Manager) DistanceObject(query Object, cb DistanceCallback, cdata any, startMinDist float64) (float64, error) {
	gid, err := m.lock()
	if err != nil {
		return startMinDist, err
	}
	defer m.unlock(gid)

	if query.GeometryKind() == KindOctree && !m.cfg.OctreeAsGeometryDistance {
		if m.gridDistanceFunc() == nil {
			return startMinDist, nil
		}
		return m.gridDistanceFunc()(m.tree, query, cb, cdata, startMinDist), nil
	}
	return m.tree.DistanceQuery(query.AABB(), func(obj Object, cdata any, minDist *float64) bool {
		return cb(query, obj, cdata, minDist)
	}, cdata, startMinDist), nil
}

func (m *Manager) gridCollideFunc() GridCollideFunc   { return m.gridCollide }
func (m *Manager) gridDistanceFunc() GridDistanceFunc { return m.gridDistance }

const (
	eventRegistered   = "registered"
	eventUnregistered = "unregistered"
	eventUpdated      = "updated"
	eventCleared      = "cleared"
)
