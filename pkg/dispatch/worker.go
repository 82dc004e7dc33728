package dispatch

import (
	"encoding/json"
	"fmt"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pair"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"

	"github.com/dd0wney/graphscape/pkg/algorithms"
	"github.com/dd0wney/graphscape/pkg/layout"
	"github.com/dd0wney/graphscape/pkg/logging"
	"github.com/dd0wney/graphscape/pkg/strength"
)

// Handler computes one operation. It receives the raw request payload
// and an emit function for interim progress frames.
type Handler func(payload json.RawMessage, emitProgress func(layout.Progress)) (any, error)

// Worker processes dispatch requests on its own goroutine, connected
// to the dispatcher by an inproc pair socket. A panic inside a handler
// is caught and surfaced as a fault frame rather than crashing the
// process; the dispatcher then rejects everything pending on this
// worker.
type Worker struct {
	sock     mangos.Socket
	handlers map[Operation]Handler
	logger   logging.Logger
	done     chan struct{}
}

// newWorker dials the dispatcher's socket address and starts the
// processing loop with the standard handlers registered
func newWorker(addr string, logger logging.Logger) (*Worker, error) {
	sock, err := pair.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("creating worker socket: %w", err)
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("dialing dispatcher: %w", err)
	}

	w := &Worker{
		sock:     sock,
		handlers: make(map[Operation]Handler),
		logger:   logger,
		done:     make(chan struct{}),
	}
	w.registerStandardHandlers()

	go w.run()
	return w, nil
}

// RegisterHandler installs or replaces the handler for an operation.
// Must be called before any request of that type is submitted.
func (w *Worker) RegisterHandler(op Operation, h Handler) {
	w.handlers[op] = h
}

// registerStandardHandlers wires the engine's computations
func (w *Worker) registerStandardHandlers() {
	w.handlers[OpLayout] = func(payload json.RawMessage, emit func(layout.Progress)) (any, error) {
		var req LayoutRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("layout payload: %w", err)
		}
		eng := layout.NewEngine(req.Config)
		eng.SetProgress(emit)
		return eng.Run(req.Graph.Snapshot()), nil
	}

	w.handlers[OpMetrics] = func(payload json.RawMessage, _ func(layout.Progress)) (any, error) {
		var req MetricsRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("metrics payload: %w", err)
		}
		return algorithms.NewIndex(req.Graph.Snapshot()).Metrics(), nil
	}

	w.handlers[OpClusters] = func(payload json.RawMessage, _ func(layout.Progress)) (any, error) {
		var req ClustersRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("clusters payload: %w", err)
		}
		clusters := algorithms.NewIndex(req.Graph.Snapshot()).Clusters(algorithms.ClusterOptions{
			MinStrength:     req.MinStrength,
			DefaultStrength: req.DefaultStrength,
		})
		return ClustersResponse{Clusters: clusters}, nil
	}

	w.handlers[OpShortestPath] = func(payload json.RawMessage, _ func(layout.Progress)) (any, error) {
		var req ShortestPathRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("shortest path payload: %w", err)
		}
		path := algorithms.NewIndex(req.Graph.Snapshot()).ShortestPath(req.StartID, req.EndID)
		return ShortestPathResponse{Path: path}, nil
	}

	w.handlers[OpConnectedNodes] = func(payload json.RawMessage, _ func(layout.Progress)) (any, error) {
		var req ConnectedNodesRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("connected nodes payload: %w", err)
		}
		ids := algorithms.NewIndex(req.Graph.Snapshot()).ConnectedNodes(req.NodeID, req.MaxDepth)
		return ConnectedNodesResponse{NodeIDs: ids}, nil
	}

	w.handlers[OpStrengths] = func(payload json.RawMessage, _ func(layout.Progress)) (any, error) {
		var req StrengthsRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("strengths payload: %w", err)
		}
		scores := strength.Scores(req.Graph.Snapshot(), req.FocusIDs, req.ConnectedIDs)
		return StrengthsResponse{Scores: scores}, nil
	}
}

// run is the worker's receive loop. Requests are processed to
// completion one at a time; concurrency comes from running multiple
// workers.
func (w *Worker) run() {
	defer close(w.done)
	for {
		data, err := w.sock.Recv()
		if err != nil {
			// Socket closed, shut down quietly
			return
		}

		var req Request
		if err := decodeFrame(data, &req); err != nil {
			w.logger.Warn("dropping undecodable request", logging.Error(err))
			continue
		}
		w.handle(&req)
	}
}

// handle runs the request's handler and sends exactly one terminal
// response frame, converting a panic into a fault frame
func (w *Worker) handle(req *Request) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("worker fault",
				logging.RequestID(req.ID),
				logging.Operation(string(req.Op)),
				logging.Any("panic", fmt.Sprint(r)))
			w.send(&Response{ID: req.ID, Fault: true, Error: fmt.Sprintf("worker fault: %v", r)})
		}
	}()

	handler, ok := w.handlers[req.Op]
	if !ok {
		w.logger.Warn("unknown operation",
			logging.RequestID(req.ID),
			logging.Operation(string(req.Op)))
		w.send(&Response{ID: req.ID, Error: ErrUnknownOperation.Error()})
		return
	}

	emit := func(p layout.Progress) {
		prog := p
		w.send(&Response{ID: req.ID, Progress: &prog})
	}

	result, err := handler(req.Payload, emit)
	if err != nil {
		w.send(&Response{ID: req.ID, Error: err.Error()})
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		w.send(&Response{ID: req.ID, Error: fmt.Sprintf("encoding result: %v", err)})
		return
	}
	w.send(&Response{ID: req.ID, Payload: payload})
}

func (w *Worker) send(resp *Response) {
	frame, err := encodeFrame(resp)
	if err != nil {
		w.logger.Error("encoding response", logging.Error(err))
		return
	}
	if err := w.sock.Send(frame); err != nil {
		w.logger.Warn("sending response", logging.Error(err))
	}
}

// close shuts the worker's socket and waits for the loop to exit
func (w *Worker) close() {
	w.sock.Close()
	<-w.done
}
