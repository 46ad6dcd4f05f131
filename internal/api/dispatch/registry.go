package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/auth"
	"github.com/jeerawut3427/personal-system/internal/observability"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

// Registry maps action names to commands.
type Registry struct {
	commands map[string]Command
}

// NewRegistry indexes the given commands by name.
func NewRegistry(commands ...Command) *Registry {
	index := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		index[cmd.Name()] = cmd
	}
	return &Registry{commands: index}
}

// Get looks up a command by action name.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Dispatcher routes a request through session resolution and authorization
// checks to its command.
type Dispatcher struct {
	registry *Registry
	sessions *auth.SessionManager
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDispatcher builds the dispatcher.
func NewDispatcher(registry *Registry, sessions *auth.SessionManager, metrics *observability.Metrics, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// Dispatch resolves the caller's session, enforces the command's declared
// authorization, and invokes it. Order matters: unknown actions are rejected
// before any handler runs, and a locked role check can only fire after the
// auth check.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (*Result, error) {
	session, err := d.sessions.Resolve(ctx, req.Token)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	req.Session = session

	cmd, ok := d.registry.Get(req.Action)
	if !ok {
		d.metrics.RecordAction(req.Action, "unknown")
		return nil, util.NewUnknownAction(req.Action)
	}

	spec := cmd.Spec()
	if spec.AuthRequired && session == nil {
		d.metrics.RecordAction(req.Action, "unauthorized")
		return nil, util.NewUnauthorized("authentication required")
	}
	if spec.AdminOnly && !session.IsAdmin() {
		d.metrics.RecordAction(req.Action, "forbidden")
		return nil, util.NewForbidden("administrator role required")
	}

	result, err := cmd.Handle(ctx, req)
	if err != nil {
		d.metrics.RecordAction(req.Action, "error")
		return nil, err
	}
	if result == nil {
		result = &Result{}
	}
	if result.Body == nil {
		result.Body = map[string]any{}
	}
	d.metrics.RecordAction(req.Action, "ok")
	return result, nil
}
