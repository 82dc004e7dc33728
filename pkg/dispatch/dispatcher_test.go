package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/dd0wney/graphscape/pkg/graph"
	"github.com/dd0wney/graphscape/pkg/layout"
)

func strengthPtr(v float64) *float64 { return &v }

func testGraph() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []graph.Edge{
		{ID: "ab", SourceID: "a", TargetID: "b", Strength: strengthPtr(0.8)},
		{ID: "bc", SourceID: "b", TargetID: "c", Strength: strengthPtr(0.8)},
	}
	return nodes, edges
}

func newTestDispatcher(t *testing.T, workers int, timeout time.Duration) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(workers, timeout)
	if err != nil {
		t.Fatalf("Failed to start dispatcher: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

// TestDispatcher_LayoutRoundTrip tests a full layout request through
// the worker socket
func TestDispatcher_LayoutRoundTrip(t *testing.T) {
	d := newTestDispatcher(t, 1, 0)
	nodes, edges := testGraph()

	cfg := layout.DefaultConfig()
	cfg.Seed = 7
	result, err := d.Layout(context.Background(), nodes, edges, cfg, nil)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(result.Positions) != 3 {
		t.Errorf("Expected 3 positions, got %d", len(result.Positions))
	}
	if !result.Outcome.Terminal() {
		t.Errorf("Expected terminal outcome, got %s", result.Outcome)
	}
}

// TestDispatcher_ForwardsProgress tests that interim progress frames
// reach the caller without completing the request
func TestDispatcher_ForwardsProgress(t *testing.T) {
	d := newTestDispatcher(t, 1, 0)
	nodes, edges := testGraph()

	milestones := make(chan layout.Progress, 64)
	cfg := layout.DefaultConfig()
	cfg.Seed = 7
	_, err := d.Layout(context.Background(), nodes, edges, cfg, func(p layout.Progress) {
		milestones <- p
	})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}

	close(milestones)
	count := 0
	var last layout.Progress
	for p := range milestones {
		count++
		last = p
	}
	if count < 2 {
		t.Fatalf("Expected multiple progress frames, got %d", count)
	}
	if !last.Phase.Terminal() {
		t.Errorf("Expected final frame terminal, got %s", last.Phase)
	}
}

// TestDispatcher_AlgorithmOperations tests the query operations end to
// end
func TestDispatcher_AlgorithmOperations(t *testing.T) {
	d := newTestDispatcher(t, 2, 0)
	nodes, edges := testGraph()
	ctx := context.Background()

	path, err := d.ShortestPath(ctx, nodes, edges, "a", "c")
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	if len(path) != 3 || path[0] != "a" || path[2] != "c" {
		t.Errorf("Expected [a b c], got %v", path)
	}

	connected, err := d.ConnectedNodes(ctx, nodes, edges, "a", 1)
	if err != nil {
		t.Fatalf("ConnectedNodes failed: %v", err)
	}
	if len(connected) != 1 || connected[0] != "b" {
		t.Errorf("Expected [b], got %v", connected)
	}

	clusters, err := d.Clusters(ctx, nodes, edges, 0.5, 0.5)
	if err != nil {
		t.Fatalf("Clusters failed: %v", err)
	}
	if len(clusters) != 1 || len(clusters[0].NodeIDs) != 3 {
		t.Errorf("Expected one 3-node cluster, got %v", clusters)
	}

	m, err := d.Metrics(ctx, nodes, edges)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if m.NodeCount != 3 || m.EdgeCount != 2 {
		t.Errorf("Expected 3 nodes and 2 edges, got %+v", m)
	}

	scores, err := d.Strengths(ctx, nodes, edges, []string{"b"}, []string{"a", "c"})
	if err != nil {
		t.Fatalf("Strengths failed: %v", err)
	}
	if scores["a"] != 0.8 || scores["c"] != 0.8 {
		t.Errorf("Expected scores 0.8, got %v", scores)
	}
}

// TestDispatcher_UnknownOperation tests the sentinel error for an
// unregistered operation
func TestDispatcher_UnknownOperation(t *testing.T) {
	d := newTestDispatcher(t, 1, 0)

	_, err := d.Submit(context.Background(), Operation("no_such_op"), nil, nil)
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Expected ErrUnknownOperation, got %v", err)
	}
}

// TestDispatcher_Timeout tests that a stuck worker produces ErrTimeout,
// leaves no pending entry behind, and later requests still work
func TestDispatcher_Timeout(t *testing.T) {
	d := newTestDispatcher(t, 1, 100*time.Millisecond)

	release := make(chan struct{})
	d.RegisterHandler(Operation("stall"), func(_ json.RawMessage, _ func(layout.Progress)) (any, error) {
		<-release
		return "late", nil
	})

	_, err := d.Submit(context.Background(), Operation("stall"), nil, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}

	for _, link := range d.links {
		link.mu.Lock()
		n := len(link.pending)
		link.mu.Unlock()
		if n != 0 {
			t.Errorf("Expected no dangling pending entries, found %d", n)
		}
	}

	// Unstick the worker; its late response must be dropped silently
	// and the link must keep serving new requests
	close(release)
	nodes, edges := testGraph()
	if _, err := d.Metrics(context.Background(), nodes, edges); err != nil {
		t.Errorf("Expected dispatcher usable after timeout, got %v", err)
	}
}

// TestDispatcher_ContextCancellation tests cooperative cancellation at
// the submit boundary
func TestDispatcher_ContextCancellation(t *testing.T) {
	d := newTestDispatcher(t, 1, time.Minute)

	release := make(chan struct{})
	defer close(release)
	d.RegisterHandler(Operation("stall"), func(_ json.RawMessage, _ func(layout.Progress)) (any, error) {
		<-release
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := d.Submit(ctx, Operation("stall"), nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestDispatcher_WorkerFaultRejectsPending tests panic containment:
// the fault is reported, and the worker pool survives for later
// requests on other links
func TestDispatcher_WorkerFaultRejectsPending(t *testing.T) {
	d := newTestDispatcher(t, 2, time.Minute)

	d.RegisterHandler(Operation("explode"), func(_ json.RawMessage, _ func(layout.Progress)) (any, error) {
		panic("handler blew up")
	})

	_, err := d.Submit(context.Background(), Operation("explode"), nil, nil)
	if !errors.Is(err, ErrWorkerFault) {
		t.Fatalf("Expected ErrWorkerFault, got %v", err)
	}

	// The pool keeps serving: round-robin will land subsequent requests
	// on a healthy link, and the faulted worker's loop also survives
	// the recovered panic
	nodes, edges := testGraph()
	for i := 0; i < 3; i++ {
		if _, err := d.Metrics(context.Background(), nodes, edges); err != nil {
			t.Errorf("Expected pool usable after fault, request %d got %v", i, err)
		}
	}
}

// TestDispatcher_SubmitAfterClose tests the closed sentinel
func TestDispatcher_SubmitAfterClose(t *testing.T) {
	d, err := NewDispatcher(1, 0)
	if err != nil {
		t.Fatalf("Failed to start dispatcher: %v", err)
	}
	d.Close()

	if _, err := d.Submit(context.Background(), OpMetrics, nil, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

// TestDispatcher_ConcurrentRequests tests correlation under interleaved
// load across multiple workers
func TestDispatcher_ConcurrentRequests(t *testing.T) {
	d := newTestDispatcher(t, 3, 0)
	nodes, edges := testGraph()

	type answer struct {
		depth int
		ids   []string
	}
	results := make(chan answer, 12)
	for i := 0; i < 12; i++ {
		depth := i%2 + 1
		go func(depth int) {
			ids, err := d.ConnectedNodes(context.Background(), nodes, edges, "a", depth)
			if err != nil {
				t.Errorf("ConnectedNodes failed: %v", err)
			}
			results <- answer{depth: depth, ids: ids}
		}(depth)
	}

	for i := 0; i < 12; i++ {
		got := <-results
		sort.Strings(got.ids)
		switch got.depth {
		case 1:
			if len(got.ids) != 1 || got.ids[0] != "b" {
				t.Errorf("Expected depth-1 answer [b], got %v", got.ids)
			}
		case 2:
			if len(got.ids) != 2 || got.ids[0] != "b" || got.ids[1] != "c" {
				t.Errorf("Expected depth-2 answer [b c], got %v", got.ids)
			}
		}
	}
}

// TestFrameCodec_RoundTrip tests the compressed envelope encoding
func TestFrameCodec_RoundTrip(t *testing.T) {
	req := &Request{ID: "req-1", Op: OpLayout, Payload: json.RawMessage(`{"x":1}`)}

	frame, err := encodeFrame(req)
	if err != nil {
		t.Fatalf("encodeFrame failed: %v", err)
	}
	var decoded Request
	if err := decodeFrame(frame, &decoded); err != nil {
		t.Fatalf("decodeFrame failed: %v", err)
	}
	if decoded.ID != req.ID || decoded.Op != req.Op {
		t.Errorf("Expected round-trip identity, got %+v", decoded)
	}

	if err := decodeFrame([]byte("not snappy"), &decoded); err == nil {
		t.Error("Expected error for corrupt frame")
	}
}
