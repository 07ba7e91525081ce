package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kidlingo/kidlingo/engine"
	"github.com/kidlingo/kidlingo/logging"
)

const (
	serverName    = "kidlingo"
	serverVersion = "0.1.0"

	defaultHeartbeat = 8 * time.Second
	defaultQueueSize = 32
)

// Options configure a Server.
type Options struct {
	Engine *engine.Engine
	Logger logging.Logger

	// Heartbeat is the SSE keep-alive comment interval.
	Heartbeat time.Duration
	// QueueSize bounds each stream's frame buffer.
	QueueSize int
}

// Server is the HTTP front end for the practice engine.
type Server struct {
	engine    *engine.Engine
	logger    logging.Logger
	hub       *streamHub
	heartbeat time.Duration
}

// New creates a Server. A missing engine defaults to a fully in-process one.
func New(optFns ...func(o *Options)) *Server {
	opts := Options{
		Heartbeat: defaultHeartbeat,
		QueueSize: defaultQueueSize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Engine == nil {
		opts.Engine = engine.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = defaultHeartbeat
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	return &Server{
		engine:    opts.Engine,
		logger:    opts.Logger,
		hub:       newStreamHub(opts.QueueSize),
		heartbeat: opts.Heartbeat,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/messages", s.handleMessages)
	mux.HandleFunc("/sse", s.handleSSE)
	mux.HandleFunc("/.well-known/mcp.json", s.handleManifest)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// callParams is the tools.call parameter envelope. A non-empty stream id
// routes the result onto that SSE stream instead of the HTTP response.
// Clients may spell the id as "stream" or "stream_id"; "stream" wins when
// both are set.
type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Stream    string          `json:"stream,omitempty"`
	StreamID  string          `json:"stream_id,omitempty"`
}

func (p callParams) streamID() string {
	if p.Stream != "" {
		return p.Stream
	}
	return p.StreamID
}

// handleMessages accepts one JSON-RPC request per POST. tools.call with a
// stream id is answered on the SSE stream and the POST returns 202
// immediately.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, errResponse(nil, codeParseError, "parse error"))
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeJSON(w, http.StatusOK, errResponse(req.ID, codeInvalidRequest, "invalid request"))
		return
	}

	switch req.Method {
	case methodToolsList:
		writeJSON(w, http.StatusOK, okResponse(req.ID, map[string]any{"tools": toolSpecs}))

	case methodManifest:
		writeJSON(w, http.StatusOK, okResponse(req.ID, s.manifest()))

	case methodToolsCall:
		var call callParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &call); err != nil {
				writeJSON(w, http.StatusOK, errResponse(req.ID, codeInvalidParams, "tools.call params must be an object"))
				return
			}
		}
		if call.Name == "" {
			writeJSON(w, http.StatusOK, errResponse(req.ID, codeInvalidParams, "tools.call requires a tool name"))
			return
		}

		if streamID := call.streamID(); streamID != "" {
			// Subscribers may attach after the call; the hub queues frames
			// under the stream id either way.
			go func() {
				resp := s.dispatch(context.Background(), req.ID, call)
				resp.Done = true
				frame, err := json.Marshal(resp)
				if err != nil {
					s.logger.Error("marshal stream frame", "error", err.Error())
					return
				}
				s.hub.publish(streamID, frame)
			}()
			writeJSON(w, http.StatusAccepted, map[string]any{
				"status": "accepted",
				"stream": streamID,
			})
			return
		}
		writeJSON(w, http.StatusOK, s.dispatch(r.Context(), req.ID, call))

	default:
		writeJSON(w, http.StatusOK, errResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method)))
	}
}

// dispatch routes one tools.call to its tool and maps errors onto the wire.
func (s *Server) dispatch(ctx context.Context, id any, call callParams) rpcResponse {
	if _, ok := findTool(call.Name); !ok {
		return errResponse(id, codeMethodNotFound, fmt.Sprintf("tool %q not found", call.Name))
	}

	start := time.Now()
	result, err := s.callTool(ctx, call.Name, call.Arguments)
	logging.LogToolCall(s.logger, call.Name, time.Since(start), err)
	if err != nil {
		return toRPCError(id, err)
	}
	return okResponse(id, result)
}

// handleSSE attaches the client to its stream and relays queued frames.
// Connecting without a stream id creates one and announces it first.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	requestedID := r.URL.Query().Get("stream")
	st := s.hub.subscribe(requestedID)
	defer s.hub.unsubscribe(st)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprint(w, ": connected\n\n")
	if requestedID == "" {
		fmt.Fprintf(w, "event: stream\ndata: {\"stream\":%q}\n\n", st.id)
	}
	flusher.Flush()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case frame := <-st.ch:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", frame)
			flusher.Flush()
		}
	}
}

func (s *Server) manifest() map[string]any {
	return map[string]any{
		"name":    serverName,
		"version": serverVersion,
		"endpoints": map[string]string{
			"messages": "/messages",
			"sse":      "/sse",
			"health":   "/healthz",
		},
		"tools": toolSpecs,
	}
}

// handleManifest serves the capability manifest.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manifest())
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
