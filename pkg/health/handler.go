package health

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// LivenessHandler returns an http.HandlerFunc that always responds 204.
// Use for liveness probes: it answers "the process is running", never "it is ready".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// LivenessHandler is the package LivenessHandler with probe metrics.
func (t *Tracker) LivenessHandler() http.HandlerFunc {
	live := LivenessHandler()
	return func(w http.ResponseWriter, r *http.Request) {
		t.ObserveLiveness()
		live(w, r)
	}
}

// ReadinessHandler returns an http.HandlerFunc serving the readiness decision.
// Not ready: 400 with a JSON error body. Ready: 200 with the JSON body when
// ReturnBody is set, 204 otherwise.
func (t *Tracker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := t.Evaluate(r.Context())
		if err != nil {
			if he, ok := AsError(err); ok {
				writeJSON(w, he.StatusCode(), he)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if !t.cfg.ReturnBody {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}

// Routes mounts the liveness and readiness handlers on a chi router.
func (t *Tracker) Routes(r chi.Router) {
	r.Get(t.cfg.AliveURL, t.LivenessHandler())
	r.Get(t.cfg.ReadyURL, t.ReadinessHandler())
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
