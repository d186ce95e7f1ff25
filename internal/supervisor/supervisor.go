package supervisor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// State is the lifecycle state of a supervised process
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateFailed   State = "failed"
)

// ProcessSpec describes one process to supervise. HealthURL gates the
// transition from starting to running.
type ProcessSpec struct {
	Name      string
	Command   string
	Args      []string
	HealthURL string
}

// Process is a supervised child process with an explicit state
type Process struct {
	Spec ProcessSpec

	mu    sync.Mutex
	state State
	cmd   *exec.Cmd
}

// State returns the current lifecycle state
func (p *Process) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Process) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

// Config configures the supervisor
type Config struct {
	StartupTimeout time.Duration
	HealthPoll     time.Duration
}

// Supervisor launches the pipeline processes in order, gating each
// start on its health check. There is no restart policy: a process that
// exits is marked failed and left down for the operator.
type Supervisor struct {
	processes []*Process
	config    Config
	client    *http.Client
	log       *zap.Logger
}

// New creates a supervisor for the given process specs. Launch order
// follows the slice order.
func New(specs []ProcessSpec, config Config, log *zap.Logger) *Supervisor {
	processes := make([]*Process, len(specs))
	for i, spec := range specs {
		processes[i] = &Process{Spec: spec, state: StateStopped}
	}

	return &Supervisor{
		processes: processes,
		config:    config,
		client: &http.Client{
			Timeout: 2 * time.Second,
		},
		log: log,
	}
}

// Start launches every process in sequence. A process that fails to
// become healthy within the startup timeout stops the launch sequence.
func (s *Supervisor) Start(ctx context.Context) error {
	for _, p := range s.processes {
		if err := s.startProcess(ctx, p); err != nil {
			return fmt.Errorf("failed to start %s: %w", p.Spec.Name, err)
		}
	}
	return nil
}

func (s *Supervisor) startProcess(ctx context.Context, p *Process) error {
	p.setState(StateStarting)

	cmd := exec.Command(p.Spec.Command, p.Spec.Args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	s.log.Info("Starting process",
		zap.String("name", p.Spec.Name),
		zap.String("command", p.Spec.Command))

	if err := cmd.Start(); err != nil {
		p.setState(StateFailed)
		return fmt.Errorf("exec failed: %w", err)
	}

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	// Exit monitor: a child that dies is marked failed, never restarted
	go func() {
		err := cmd.Wait()
		p.setState(StateFailed)
		s.log.Warn("Process exited",
			zap.String("name", p.Spec.Name),
			zap.Error(err))
	}()

	if err := s.awaitHealthy(ctx, p); err != nil {
		p.setState(StateFailed)
		// The child may still be alive; do not leave it orphaned
		if cmd.Process != nil {
			if killErr := cmd.Process.Kill(); killErr != nil {
				s.log.Warn("Failed to kill unhealthy process",
					zap.String("name", p.Spec.Name),
					zap.Error(killErr))
			}
		}
		return err
	}

	p.setState(StateRunning)
	s.log.Info("Process running", zap.String("name", p.Spec.Name))
	return nil
}

// awaitHealthy polls the process health URL until it answers 200 or the
// startup timeout elapses
func (s *Supervisor) awaitHealthy(ctx context.Context, p *Process) error {
	if p.Spec.HealthURL == "" {
		return nil
	}

	deadline := time.After(s.config.StartupTimeout)
	ticker := time.NewTicker(s.config.HealthPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("not healthy after %s", s.config.StartupTimeout)
		case <-ticker.C:
			if p.State() == StateFailed {
				return fmt.Errorf("process exited during startup")
			}
			if s.probe(ctx, p.Spec.HealthURL) {
				return nil
			}
		}
	}
}

func (s *Supervisor) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.Error("Failed to close health response body", zap.Error(err))
		}
	}()

	return resp.StatusCode == http.StatusOK
}

// Stop signals all live children to terminate, in reverse launch order
func (s *Supervisor) Stop() {
	for i := len(s.processes) - 1; i >= 0; i-- {
		p := s.processes[i]

		p.mu.Lock()
		cmd := p.cmd
		state := p.state
		p.mu.Unlock()

		if cmd == nil || cmd.Process == nil {
			continue
		}
		if state != StateRunning && state != StateStarting {
			continue
		}

		s.log.Info("Stopping process", zap.String("name", p.Spec.Name))
		if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
			s.log.Error("Failed to signal process",
				zap.String("name", p.Spec.Name),
				zap.Error(err))
		}
	}
}

// States returns the current state of every supervised process by name
func (s *Supervisor) States() map[string]State {
	states := make(map[string]State, len(s.processes))
	for _, p := range s.processes {
		states[p.Spec.Name] = p.State()
	}
	return states
}
