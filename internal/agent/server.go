package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Server exposes JSON status endpoints for the running agent.
type Server struct {
	agent      *Agent
	queueDepth func() map[string]int
}

// NewServer creates the status server. queueDepth may be nil.
func NewServer(a *Agent, queueDepth func() map[string]int) *Server {
	return &Server{agent: a, queueDepth: queueDepth}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/flush", s.handleFlush)
	return mux
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	type status struct {
		Snapshot
		Queues map[string]int `json:"queues,omitempty"`
	}
	out := status{Snapshot: s.agent.Snapshot()}
	if s.queueDepth != nil {
		out.Queues = s.queueDepth()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	s.agent.EndTrip()
	w.WriteHeader(http.StatusAccepted)
}
