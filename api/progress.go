package api

import (
	"sync"
	"time"
)

// ProgressSteps is the fixed step list shown while an analysis runs.
// The steps advance on a timer and are cosmetic: the run's real
// completion is signalled separately, whatever step the timer reached.
var ProgressSteps = []string{
	"Validando briefing",
	"Pesquisando o mercado brasileiro",
	"Escavando o avatar e suas dores",
	"Mapeando a concorrência",
	"Calculando projeções e cenários",
	"Montando o relatório final",
}

// defaultStepInterval is how often the simulated step advances.
const defaultStepInterval = 2 * time.Second

// ProgressSim advances a fixed step list per run and mirrors every
// transition onto the WebSocket hub.
type ProgressSim struct {
	mu       sync.Mutex
	runs     map[string]*progressRun
	hub      *WSHub
	interval time.Duration
}

type progressRun struct {
	step int
	stop chan struct{}
}

// NewProgressSim creates a simulator bound to a hub.
func NewProgressSim(hub *WSHub) *ProgressSim {
	return &ProgressSim{
		runs:     make(map[string]*progressRun),
		hub:      hub,
		interval: defaultStepInterval,
	}
}

// Start begins simulating progress for a run token. An existing run
// for the token is replaced.
func (p *ProgressSim) Start(token string) {
	p.mu.Lock()
	if old, ok := p.runs[token]; ok {
		close(old.stop)
	}
	run := &progressRun{stop: make(chan struct{})}
	p.runs[token] = run
	p.mu.Unlock()

	p.broadcastStep(0)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-run.stop:
				return
			case <-ticker.C:
				p.mu.Lock()
				// Park on the last step until the run really finishes.
				if run.step < len(ProgressSteps)-1 {
					run.step++
				}
				step := run.step
				p.mu.Unlock()
				p.broadcastStep(step)
			}
		}
	}()
}

// Step returns the current simulated step index for a token.
func (p *ProgressSim) Step(token string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if run, ok := p.runs[token]; ok {
		return run.step
	}
	return 0
}

// Finish stops the simulation and broadcasts completion.
func (p *ProgressSim) Finish(token string) {
	p.remove(token)
	p.hub.Broadcast(WSMessage{
		Type: "progress_complete",
		Data: map[string]interface{}{"percent": 100},
	})
}

// Fail stops the simulation and broadcasts the error text.
func (p *ProgressSim) Fail(token, errText string) {
	p.remove(token)
	p.hub.Broadcast(WSMessage{
		Type: "progress_error",
		Data: map[string]interface{}{"error": errText},
	})
}

func (p *ProgressSim) remove(token string) {
	p.mu.Lock()
	if run, ok := p.runs[token]; ok {
		close(run.stop)
		delete(p.runs, token)
	}
	p.mu.Unlock()
}

func (p *ProgressSim) broadcastStep(step int) {
	p.hub.Broadcast(WSMessage{
		Type: "progress",
		Data: map[string]interface{}{
			"step":    step,
			"label":   ProgressSteps[step],
			"percent": (step + 1) * 100 / len(ProgressSteps),
		},
	})
}
