package health

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

const checkTimeout = 5 * time.Second

// Probe is one liveness check against a backing store. It must not mutate
// data.
type Probe func(ctx context.Context) error

type namedProbe struct {
	name  string
	probe Probe
}

// Reporter runs registered probes and reports overall service health.
type Reporter struct {
	probes []namedProbe
}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) Register(name string, p Probe) {
	r.probes = append(r.probes, namedProbe{name: name, probe: p})
}

// Check runs every probe in order and returns the first failure, annotated
// with the store name. A nil return means all stores answered.
func (r *Reporter) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	for _, p := range r.probes {
		if err := p.probe(ctx); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}
	return nil
}

// Handler serves GET /health: 200 "OK" when both stores answer, otherwise
// 503 with a generic body. The underlying cause is logged, never surfaced.
func (r *Reporter) Handler(w http.ResponseWriter, req *http.Request) {
	if err := r.Check(req.Context()); err != nil {
		log.Printf("health check failed: %v", err)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "Service is not available")
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "OK")
}
