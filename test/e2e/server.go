package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/fleetsync/fleetsync/internal/domain/event"
)

const socketPath = "/socket/websocket"

// fixtures maps the api paths to the files served from resources/api.
var fixtures = map[string]string{
	"/api/hosts":              "hosts.json",
	"/api/clusters":           "clusters.json",
	"/api/sap_systems":        "sap_systems.json",
	"/api/databases":          "databases.json",
	"/api/sap_systems/health": "health_summary.json",
	"/api/settings":           "settings.json",
	"/api/checks/catalog":     "catalog.json",
}

// MonitoringServer fakes the monitoring server: its api serves fixtures and its socket
// forwards every pushed frame to the connected clients.
type MonitoringServer struct {
	server *httptest.Server
	dir    string

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	joins  int
	joined chan struct{}

	executions chan string
}

func NewMonitoringServer(dir string) *MonitoringServer {
	ret := &MonitoringServer{
		dir:        dir,
		conns:      map[*websocket.Conn]struct{}{},
		joined:     make(chan struct{}),
		executions: make(chan string, 16),
	}

	router := http.NewServeMux()
	router.HandleFunc(socketPath, ret.serveSocket)
	router.HandleFunc("POST /api/clusters/{id}/checks/request_execution", ret.serveExecution)
	router.HandleFunc("/", ret.serveFixture)

	ret.server = httptest.NewServer(router)

	return ret
}

func (m *MonitoringServer) URL() string {
	return m.server.URL
}

func (m *MonitoringServer) SocketURL() string {
	return m.server.URL + socketPath
}

// Joined is closed once every topic has been joined.
func (m *MonitoringServer) Joined() <-chan struct{} {
	return m.joined
}

// Executions receives the ids of the clusters an execution was requested for.
func (m *MonitoringServer) Executions() <-chan string {
	return m.executions
}

// Push sends data as is to every connected client.
func (m *MonitoringServer) Push(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.conns {
		err := conn.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *MonitoringServer) Close() {
	m.mu.Lock()
	for conn := range m.conns {
		_ = conn.Close()
	}
	m.mu.Unlock()

	m.server.Close()
}

func (m *MonitoringServer) serveFixture(w http.ResponseWriter, r *http.Request) {
	name, ok := fixtures[r.URL.Path]
	if !ok {
		http.NotFound(w, r)

		return
	}

	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (m *MonitoringServer) serveExecution(w http.ResponseWriter, r *http.Request) {
	m.executions <- r.PathValue("id")

	w.WriteHeader(http.StatusAccepted)
}

func (m *MonitoringServer) serveSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	m.mu.Lock()
	m.conns[conn] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.conns, conn)
		m.mu.Unlock()

		_ = conn.Close()
	}()

	for {
		var frame []json.RawMessage

		err = conn.ReadJSON(&frame)
		if err != nil || len(frame) != 5 {
			return
		}

		var topic, name string

		_ = json.Unmarshal(frame[2], &topic)
		_ = json.Unmarshal(frame[3], &name)

		if name == "phx_join" {
			m.join()
		}

		m.mu.Lock()
		err = conn.WriteJSON([]interface{}{frame[0], frame[1], topic, "phx_reply", map[string]interface{}{"status": "ok", "response": map[string]interface{}{}}})
		m.mu.Unlock()

		if err != nil {
			return
		}
	}
}

func (m *MonitoringServer) join() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.joins++

	if m.joins == len(event.Topics()) {
		close(m.joined)
	}
}
