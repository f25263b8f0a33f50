// Package monitor turns a running simulation into an HTTP-introspectable
// server, grounded on the teacher's monitoring.Monitor (monitoring/monitor.go):
// a gorilla/mux router exposing a handful of read-only JSON endpoints over
// whatever the simulation registers, plus an optional browser launch for
// the dashboard URL. Unlike the teacher's Monitor, this package carries no
// pause/continue/tick control surface, since desim's Environment.Step is
// not safe to call concurrently with a running Run loop (spec.md §5: "the
// core is not reentrant").
package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/syifan/goseth"

	"github.com/desimgo/desim"
)

// StatusReporter is implemented by every resource type in this module
// (Resource, PriorityResource, PreemptiveResource, Container, Store,
// FilterStore) so the monitor can list them generically.
type StatusReporter interface {
	Status() map[string]interface{}
}

// Monitor serves JSON introspection endpoints for one Environment.
type Monitor struct {
	env        *desim.Environment
	portNumber int

	mu        sync.Mutex
	resources map[string]StatusReporter
}

// New creates a Monitor for env.
func New(env *desim.Environment) *Monitor {
	return &Monitor{env: env, resources: make(map[string]StatusReporter)}
}

// WithPortNumber sets the port the monitor listens on. A value below 1000
// falls back to a random ephemeral port, mirroring the teacher's guard
// against binding well-known ports by accident.
func (m *Monitor) WithPortNumber(port int) *Monitor {
	if port < 1000 {
		fmt.Fprintf(os.Stderr,
			"monitor: port %d is not allowed, using a random port instead\n", port)
		port = 0
	}
	m.portNumber = port
	return m
}

// RegisterResource makes a named resource visible at /api/resource/{name}
// and in the /api/resources listing.
func (m *Monitor) RegisterResource(name string, r StatusReporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[name] = r
}

// Handler builds the router serving this Monitor's JSON endpoints. It is
// exported separately from ListenAndServe so tests can drive it with
// httptest instead of binding a real listener.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/status", m.status)
	r.HandleFunc("/api/resources", m.listResources)
	r.HandleFunc("/api/resource/{name}", m.resource)
	r.HandleFunc("/api/resource/{name}/detail", m.resourceDetail)
	r.HandleFunc("/api/profile", m.collectProfile)
	return r
}

// ListenAndServe starts the HTTP server and blocks until it exits. If
// openBrowser is true, it also opens the dashboard's root URL once the
// listener is bound.
func (m *Monitor) ListenAndServe(openBrowser bool) error {
	addr := ":0"
	if m.portNumber >= 1000 {
		addr = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "desim monitor listening on %s\n", url)

	if openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "monitor: could not open browser: %v\n", err)
		}
	}

	return http.Serve(listener, m.Handler())
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]interface{}{"now": float64(m.env.Now())})
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	names := make([]string, 0, len(m.resources))
	for name := range m.resources {
		names = append(names, name)
	}
	m.mu.Unlock()

	writeJSON(w, names)
}

func (m *Monitor) resource(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	m.mu.Lock()
	r, ok := m.resources[name]
	m.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, r.Status())
}

// resourceDetail reflectively serializes a registered resource's full
// field set, rather than just the hand-curated summary Status() returns,
// grounded on the teacher's own listComponentDetails (monitoring/monitor.go):
// depth is capped at 1 the same way, since a resource's fields (queues,
// event pointers) reach back into the rest of the simulation and would
// otherwise serialize the whole object graph.
func (m *Monitor) resourceDetail(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	m.mu.Lock()
	r, ok := m.resources[name]
	m.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(r)
	serializer.SetMaxDepth(1)

	if err := serializer.Serialize(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// collectProfile captures one second of CPU profile from the running
// process and returns it as parsed JSON, grounded on the teacher's own
// collectProfile (monitoring/monitor.go): a raw pprof profile is opaque to
// anything but 'go tool pprof', so it is reparsed with google/pprof/profile
// before being served, giving callers a JSON structure they can inspect
// without that tool.
func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
