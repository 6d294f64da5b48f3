package cmd

import (
	"expvar"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

// monitor exposes a running chain's progress over HTTP via expvar, so a long
// run can be watched from a browser or curl without touching the sampler.
type monitor struct {
	info    *expvar.Map
	stopped chan struct{}
	server  *http.Server

	MaxIters   *expvar.Int
	BurnIn     *expvar.Int
	Iterations *expvar.Int
	Accepts    *expvar.Int
	AcceptRate *expvar.Float
	RunTime    *expvar.Float
}

// Start begins the monitor
func (m *monitor) Start(addr string) error {
	if m.info != nil {
		return errors.Errorf("BUG: You may only start the process monitor once")
	}

	m.info = expvar.NewMap("mnlmc-progress")
	m.stopped = make(chan struct{})
	m.server = &http.Server{
		Addr: addr,
	}

	// Help the user and redirect to the only thing currently available:
	// the handler from the expvar package
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/vars", http.StatusTemporaryRedirect)
	})

	m.MaxIters = expvar.NewInt("Max-Iterations")
	m.BurnIn = expvar.NewInt("Burn-In")
	m.Iterations = expvar.NewInt("Iterations")
	m.Accepts = expvar.NewInt("Accepts")
	m.AcceptRate = expvar.NewFloat("Accept-Rate")
	m.RunTime = expvar.NewFloat("Run-Time")

	// Actual server that will close the stopped channel on exit
	started := make(chan struct{})
	go func() {
		defer close(m.stopped)
		fmt.Fprintf(os.Stderr, "HTTP now available at %v (see debug/vars/)\n", m.server.Addr)
		close(started)
		m.server.ListenAndServe()
	}()

	<-started
	return nil
}

func (m *monitor) Stop() {
	if m.info == nil {
		return
	}

	m.server.Close()

	select {
	case <-m.stopped:
		fmt.Fprintf(os.Stderr, "HTTP Info Stopped\n")
	case <-time.After(2 * time.Second):
		fmt.Fprintf(os.Stderr, "HTTP would NOT stop: just continuing on\n")
	}
}
