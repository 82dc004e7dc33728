// Package dispatch offloads layout and graph-algorithm work onto
// background workers so the calling thread stays responsive. Callers
// and workers exchange snappy-compressed JSON envelopes over inproc
// pair sockets; every request carries a correlation ID, has an
// independent timeout, and multiple requests may be in flight at once
// with no ordering guarantees.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pair"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"

	"github.com/dd0wney/graphscape/pkg/layout"
	"github.com/dd0wney/graphscape/pkg/logging"
	"github.com/dd0wney/graphscape/pkg/metrics"
)

// DefaultRequestTimeout bounds how long a caller waits for a response
const DefaultRequestTimeout = 30 * time.Second

// pendingRequest tracks one in-flight request until its terminal
// response, timeout, or a worker fault
type pendingRequest struct {
	op       Operation
	ch       chan *Response
	progress layout.ProgressFunc
}

// workerLink is the dispatcher's side of one worker connection: the
// listening socket, the worker behind it, and the pending table for
// requests routed to it. A fault on the worker rejects everything in
// this table, and only this table.
type workerLink struct {
	sock    mangos.Socket
	worker  *Worker
	mu      sync.Mutex
	pending map[string]*pendingRequest
	done    chan struct{}
}

// Dispatcher routes computation requests to background workers and
// matches responses back to callers by correlation ID. Construct one
// per logical session; there is no global instance.
type Dispatcher struct {
	links   []*workerLink
	next    atomic.Uint64
	timeout time.Duration
	logger  logging.Logger
	metrics *metrics.Registry
	closed  atomic.Bool
}

// NewDispatcher starts the given number of workers. workers <= 0 means
// one; timeout <= 0 means DefaultRequestTimeout.
func NewDispatcher(workers int, timeout time.Duration) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	d := &Dispatcher{
		timeout: timeout,
		logger:  logging.DefaultLogger().With(logging.Component("dispatch")),
		metrics: metrics.DefaultRegistry(),
	}

	for i := 0; i < workers; i++ {
		link, err := d.startLink()
		if err != nil {
			d.Close()
			return nil, err
		}
		d.links = append(d.links, link)
	}
	return d, nil
}

// startLink opens a listening socket on a fresh inproc address, spawns
// the worker dialing it, and starts the response loop
func (d *Dispatcher) startLink() (*workerLink, error) {
	sock, err := pair.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher socket: %w", err)
	}
	addr := "inproc://graphscape-dispatch-" + uuid.NewString()
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	worker, err := newWorker(addr, d.logger.With(logging.Component("worker")))
	if err != nil {
		sock.Close()
		return nil, err
	}

	link := &workerLink{
		sock:    sock,
		worker:  worker,
		pending: make(map[string]*pendingRequest),
		done:    make(chan struct{}),
	}
	go d.receiveLoop(link)
	return link, nil
}

// RegisterHandler installs a handler for an operation on every worker
func (d *Dispatcher) RegisterHandler(op Operation, h Handler) {
	for _, link := range d.links {
		link.worker.RegisterHandler(op, h)
	}
}

// Submit sends one request and blocks until its response, its timeout,
// or context cancellation. Cancellation is cooperative at this
// boundary only: the worker may keep computing, and its late response
// is dropped.
func (d *Dispatcher) Submit(ctx context.Context, op Operation, payload any, progress layout.ProgressFunc) ([]byte, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}

	body, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}

	req := &Request{
		ID:      uuid.NewString(),
		Op:      op,
		Payload: body,
	}
	frame, err := encodeFrame(req)
	if err != nil {
		return nil, err
	}

	link := d.links[d.next.Add(1)%uint64(len(d.links))]
	pend := &pendingRequest{
		op:       op,
		ch:       make(chan *Response, 1),
		progress: progress,
	}

	link.mu.Lock()
	link.pending[req.ID] = pend
	link.mu.Unlock()
	d.metrics.DispatchPendingRequests.Inc()
	started := time.Now()

	if err := link.sock.Send(frame); err != nil {
		d.unregister(link, req.ID)
		d.metrics.RecordDispatchRequest(string(op), "error", time.Since(started))
		return nil, fmt.Errorf("sending request: %w", err)
	}

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case resp := <-pend.ch:
		status := "ok"
		var result []byte
		switch {
		case resp.Fault:
			status = "fault"
			err = ErrWorkerFault
		case resp.Error != "":
			status = "error"
			err = mapResponseError(resp.Error)
		default:
			result = resp.Payload
		}
		d.metrics.RecordDispatchRequest(string(op), status, time.Since(started))
		return result, err

	case <-timer.C:
		d.unregister(link, req.ID)
		d.metrics.RecordDispatchRequest(string(op), "timeout", time.Since(started))
		d.logger.Warn("request timed out",
			logging.RequestID(req.ID),
			logging.Operation(string(op)))
		return nil, ErrTimeout

	case <-ctx.Done():
		d.unregister(link, req.ID)
		d.metrics.RecordDispatchRequest(string(op), "cancelled", time.Since(started))
		return nil, ctx.Err()
	}
}

// unregister drops a pending entry, if it is still pending
func (d *Dispatcher) unregister(link *workerLink, id string) {
	link.mu.Lock()
	_, present := link.pending[id]
	delete(link.pending, id)
	link.mu.Unlock()
	if present {
		d.metrics.DispatchPendingRequests.Dec()
	}
}

// receiveLoop matches worker responses to pending requests. Progress
// frames are forwarded without completing the request; fault frames
// reject everything pending on the link; responses for unknown
// correlation IDs (already timed out or cancelled) are dropped.
func (d *Dispatcher) receiveLoop(link *workerLink) {
	defer close(link.done)
	for {
		data, err := link.sock.Recv()
		if err != nil {
			d.rejectAll(link, &Response{Error: ErrClosed.Error()})
			return
		}

		var resp Response
		if err := decodeFrame(data, &resp); err != nil {
			d.logger.Warn("dropping undecodable response", logging.Error(err))
			continue
		}

		if resp.Fault {
			d.metrics.DispatchWorkerFaults.Inc()
			d.logger.Error("worker fault, rejecting pending requests",
				logging.RequestID(resp.ID))
			d.rejectAll(link, &resp)
			continue
		}

		if resp.Progress != nil {
			link.mu.Lock()
			pend := link.pending[resp.ID]
			link.mu.Unlock()
			if pend != nil && pend.progress != nil {
				pend.progress(*resp.Progress)
			}
			continue
		}

		link.mu.Lock()
		pend, ok := link.pending[resp.ID]
		delete(link.pending, resp.ID)
		link.mu.Unlock()

		if !ok {
			d.logger.Debug("dropping response for unknown request",
				logging.RequestID(resp.ID))
			continue
		}
		d.metrics.DispatchPendingRequests.Dec()
		pend.ch <- &resp
	}
}

// rejectAll fails every request pending on a link and clears the table
func (d *Dispatcher) rejectAll(link *workerLink, cause *Response) {
	link.mu.Lock()
	rejected := make([]*pendingRequest, 0, len(link.pending))
	for id, pend := range link.pending {
		rejected = append(rejected, pend)
		delete(link.pending, id)
	}
	link.mu.Unlock()

	for _, pend := range rejected {
		d.metrics.DispatchPendingRequests.Dec()
		pend.ch <- &Response{Fault: cause.Fault, Error: cause.Error}
	}
}

// Close shuts down all workers and rejects anything still pending.
// The dispatcher cannot be reused after Close.
func (d *Dispatcher) Close() {
	if !d.closed.CompareAndSwap(false, true) {
		return
	}
	for _, link := range d.links {
		link.worker.close()
		link.sock.Close()
		<-link.done
	}
}

// mapResponseError restores sentinel errors that crossed the wire as
// strings so callers can use errors.Is
func mapResponseError(msg string) error {
	switch msg {
	case ErrUnknownOperation.Error():
		return ErrUnknownOperation
	case ErrClosed.Error():
		return ErrClosed
	default:
		return errors.New(msg)
	}
}

// encodePayload marshals a typed payload, passing raw bytes through
func encodePayload(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	if raw, ok := payload.([]byte); ok {
		return raw, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return body, nil
}
