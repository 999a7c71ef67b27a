// Package tasks provides the tagged task registry the external workflow
// engine calls into, plus the data tasks shipped with flowext. A task is
// addressed as "tag@alias" ("duckdb@count-csv") and receives a loose
// argument mapping that it decodes into its own typed parameters.
package tasks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/ddeutils/flowext/pkg/flowerrors"
	"github.com/ddeutils/flowext/pkg/logger"
	"github.com/ddeutils/flowext/pkg/metrics"
)

// Args is the loose argument mapping a task receives from the engine.
type Args map[string]any

// Result is a task's output mapping, e.g. {"records": 42}.
type Result map[string]any

// Func is a task implementation.
type Func func(ctx context.Context, args Args) (Result, error)

// Info describes a registered task.
type Info struct {
	Tag         string
	Alias       string
	Description string
}

// Ref returns the engine-facing reference "tag@alias".
func (i Info) Ref() string {
	return i.Tag + "@" + i.Alias
}

type entry struct {
	info Info
	fn   Func
}

// Registry holds task registrations keyed by "tag@alias".
type Registry struct {
	entries map[string]entry
	mu      sync.RWMutex
	logger  *zap.Logger
}

var globalRegistry = NewRegistry()

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
		logger:  logger.Get().With(zap.String("component", "task_registry")),
	}
}

// Register registers a task. Duplicate registration of the same tag@alias
// is a configuration error.
func (r *Registry) Register(info Info, fn Func) error {
	if info.Tag == "" || info.Alias == "" {
		return flowerrors.New(flowerrors.ErrorTypeConfig,
			"task registration requires a tag and an alias")
	}
	if fn == nil {
		return flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"task %s has no implementation", info.Ref())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := info.Ref()
	if _, exists := r.entries[ref]; exists {
		return flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"task %s already registered", ref)
	}
	r.entries[ref] = entry{info: info, fn: fn}
	return nil
}

// Lookup resolves a "tag@alias" reference.
func (r *Registry) Lookup(ref string) (Func, error) {
	if !strings.Contains(ref, "@") {
		return nil, flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"task reference %q must have the form tag@alias", ref)
	}

	r.mu.RLock()
	e, exists := r.entries[ref]
	r.mu.RUnlock()

	if !exists {
		return nil, flowerrors.Newf(flowerrors.ErrorTypeNotFound,
			"task %s not registered", ref)
	}
	return e.fn, nil
}

// Run resolves and executes a task, recording duration and outcome.
func (r *Registry) Run(ctx context.Context, ref string, args Args) (Result, error) {
	fn, err := r.Lookup(ref)
	if err != nil {
		return nil, err
	}

	tag, alias, _ := strings.Cut(ref, "@")
	start := time.Now()
	result, err := fn(ctx, args)
	elapsed := time.Since(start)

	metrics.TaskRuns.WithLabelValues(tag, alias, metrics.OutcomeOf(err)).Inc()
	metrics.TaskDuration.WithLabelValues(tag, alias).Observe(elapsed.Seconds())

	if err != nil {
		r.logger.Error("task failed",
			zap.String("task", ref),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}
	r.logger.Info("task finished",
		zap.String("task", ref),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

// List returns registered tasks ordered by reference.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Ref() < infos[j].Ref()
	})
	return infos
}

// Register registers a task in the global registry. Task files call this
// from init.
func Register(info Info, fn Func) error {
	return globalRegistry.Register(info, fn)
}

// Run executes a task from the global registry.
func Run(ctx context.Context, ref string, args Args) (Result, error) {
	return globalRegistry.Run(ctx, ref, args)
}

// List returns tasks registered in the global registry.
func List() []Info {
	return globalRegistry.List()
}

// DecodeArgs binds a loose argument mapping onto a task's typed parameter
// struct, rejecting arguments the task does not declare.
func DecodeArgs(args Args, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return flowerrors.Wrap(err, flowerrors.ErrorTypeInternal,
			"cannot build argument decoder")
	}
	if err := dec.Decode(map[string]any(args)); err != nil {
		return flowerrors.Wrap(err, flowerrors.ErrorTypeValidation,
			"invalid task arguments")
	}
	return nil
}
