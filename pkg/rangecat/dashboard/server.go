// Package dashboard serves a small web UI for running range analyses
// from a browser. Completed analyses are broadcast to every connected
// WebSocket client so multiple viewers stay in sync.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mungbai/rangecat/pkg/rangecat"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/logging"
)

type Server struct {
	addr         string
	engine       *rangecat.Engine
	server       *http.Server
	upgrader     websocket.Upgrader
	clients      map[*websocket.Conn]bool
	clientsMutex sync.RWMutex
	maxClients   int
	analyses     chan AnalysisUpdate
	stop         chan struct{}
	history      []AnalysisUpdate
	historyMutex sync.RWMutex
	maxHistory   int
	log          zerolog.Logger
}

// AnalysisUpdate summarizes one completed analysis for the live feed.
// Full records travel only in the direct API response; the broadcast
// carries per-label match counts so the payload stays small for any
// range size.
type AnalysisUpdate struct {
	Timestamp time.Time      `json:"timestamp"`
	Min       int64          `json:"min"`
	Max       int64          `json:"max"`
	Size      uint64         `json:"size"`
	Duration  string         `json:"duration"`
	Counts    map[string]int `json:"counts"`
}

type analyzeRequest struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

func NewServer(addr string, engine *rangecat.Engine) *Server {
	port := addrPort(addr)
	return &Server{
		addr:   addr,
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return origin == fmt.Sprintf("http://localhost:%s", port) ||
					origin == fmt.Sprintf("http://127.0.0.1:%s", port)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:    make(map[*websocket.Conn]bool),
		maxClients: 100,
		analyses:   make(chan AnalysisUpdate, 100),
		stop:       make(chan struct{}),
		history:    make([]AnalysisUpdate, 0, 50),
		maxHistory: 50,
		log:        logging.GetLogger("dashboard"),
	}
}

func addrPort(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "8080"
	}
	return port
}

func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)

	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/history", s.handleHistory)

	mux.HandleFunc("/ws", s.handleWebSocket)

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	go s.broadcast()

	s.log.Info().Str("addr", s.addr).Msg("Starting dashboard")
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	close(s.stop)
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	type categoryInfo struct {
		Label  string `json:"label"`
		Source string `json:"source"`
	}
	categories := make([]categoryInfo, 0, len(s.engine.Categories()))
	for _, c := range s.engine.Categories() {
		categories = append(categories, categoryInfo{Label: c.Label(), Source: c.Source()})
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"data":   categories,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request")
		return
	}

	start := time.Now()
	records, err := s.engine.Analyze(r.Context(), req.Min, req.Max)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsErrorCode(err, errors.ErrRangeInvalid) || errors.IsErrorCode(err, errors.ErrRangeTooLarge) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	elapsed := time.Since(start)

	update := AnalysisUpdate{
		Timestamp: time.Now(),
		Min:       req.Min,
		Max:       req.Max,
		Size:      rangecat.RangeSize(req.Min, req.Max),
		Duration:  elapsed.Round(time.Microsecond).String(),
		Counts:    countLabels(records),
	}
	select {
	case s.analyses <- update:
	default:
		// Drop if channel is full
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"min":      req.Min,
			"max":      req.Max,
			"duration": update.Duration,
			"records":  records,
		},
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.historyMutex.RLock()
	history := make([]AnalysisUpdate, len(s.history))
	copy(history, s.history)
	s.historyMutex.RUnlock()

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"data":   history,
	})
}

func countLabels(records []rangecat.Record) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		for _, label := range record.Labels {
			counts[label]++
		}
	}
	return counts
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.clientsMutex.RLock()
	clientCount := len(s.clients)
	s.clientsMutex.RUnlock()

	if clientCount >= s.maxClients {
		http.Error(w, "Maximum clients reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	s.clientsMutex.Lock()
	s.clients[conn] = true
	s.clientsMutex.Unlock()

	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// The read loop exists to detect client disconnects; inbound
	// messages are ignored.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					s.log.Debug().Err(err).Msg("WebSocket read error")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			return
		case <-s.stop:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Server) broadcast() {
	for {
		select {
		case update := <-s.analyses:
			s.historyMutex.Lock()
			s.history = append(s.history, update)
			if len(s.history) > s.maxHistory {
				copy(s.history, s.history[1:])
				s.history = s.history[:s.maxHistory]
			}
			s.historyMutex.Unlock()

			s.broadcastMessage(map[string]interface{}{
				"type": "analysis",
				"data": update,
			})
		case <-s.stop:
			return
		}
	}
}

func (s *Server) broadcastMessage(message interface{}) {
	s.clientsMutex.RLock()
	if len(s.clients) == 0 {
		s.clientsMutex.RUnlock()
		return
	}

	// Copy client connections to avoid holding the lock during I/O.
	clientsCopy := make([]*websocket.Conn, 0, len(s.clients))
	for client := range s.clients {
		clientsCopy = append(clientsCopy, client)
	}
	s.clientsMutex.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to marshal broadcast message")
		return
	}

	var failedClients []*websocket.Conn
	for _, client := range clientsCopy {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			failedClients = append(failedClients, client)
		}
	}

	if len(failedClients) > 0 {
		s.clientsMutex.Lock()
		for _, client := range failedClients {
			delete(s.clients, client)
		}
		s.clientsMutex.Unlock()
	}
}
