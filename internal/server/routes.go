package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/scythe504/stopgo-backend/internal"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HelloWorldHandler)
	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/sessions", s.CreateSessionHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/sessions/{sessionId}", s.GetSessionHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{sessionId}", s.DeleteSessionHandler).Methods(http.MethodDelete, http.MethodOptions)

	r.HandleFunc("/ws/{sessionId}", s.HandleWebSocket)

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// If it's a websocket upgrade, skip further CORS checks
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, time.Now().UnixMilli(), http.StatusOK, map[string]string{"message": "Stop & Go"})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, time.Now().UnixMilli(), http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	session := s.sessions.Create()
	s.writeResponse(w, startTime, http.StatusCreated, session.Snapshot())
}

func (s *Server) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	session, ok := s.sessions.Get(mux.Vars(r)["sessionId"])
	if !ok {
		s.writeResponse(w, startTime, http.StatusNotFound, "No such session")
		return
	}
	s.writeResponse(w, startTime, http.StatusOK, session.Snapshot())
}

func (s *Server) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	if !s.sessions.Remove(mux.Vars(r)["sessionId"]) {
		s.writeResponse(w, startTime, http.StatusNotFound, "No such session")
		return
	}
	s.writeResponse(w, startTime, http.StatusOK, "Session removed")
}

func (s *Server) writeResponse(w http.ResponseWriter, startTime int64, status int, data any) {
	endTime := time.Now().UnixMilli()
	resp := internal.Response{
		StatusCode:    status,
		RespStartTime: startTime,
		RespEndTime:   endTime,
		NetRespTime:   endTime - startTime,
		Data:          data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Errorf("[writeResponse] error encoding response: %v", err)
	}
}
