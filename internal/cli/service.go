package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/akilivoice/pathrag"
	"github.com/akilivoice/pathrag/pkg/adapters/memory"
	redisadapter "github.com/akilivoice/pathrag/pkg/adapters/redis"
	"github.com/akilivoice/pathrag/pkg/graph"
	"github.com/akilivoice/pathrag/pkg/observability"
	"github.com/akilivoice/pathrag/pkg/persistence/middleware"
	"github.com/akilivoice/pathrag/pkg/ports"
)

// ServiceOptions carries the flags shared by every command that needs a
// running service.
type ServiceOptions struct {
	GraphPath     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionKey    string
	RedactPII     bool
	Debug         bool
}

// BuildService wires a pathrag.Service from CLI flags: built-in graph or a
// YAML script, in-memory or Redis persistence. The returned cleanup closes
// the Redis connection when one was opened; metrics is non-nil and already
// hooked into the service.
func BuildService(opts ServiceOptions, logger *slog.Logger) (*pathrag.Service, *observability.Metrics, func(), error) {
	cleanup := func() {}

	svcOpts := []pathrag.Option{pathrag.WithLogger(logger)}

	if opts.GraphPath != "" {
		g, err := graph.LoadYAMLFile(opts.GraphPath)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("loading graph from %s: %w", opts.GraphPath, err)
		}
		svcOpts = append(svcOpts, pathrag.WithGraph(g))
	}

	var store ports.SessionStore = memory.NewStore()
	if opts.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		store = redisadapter.NewFromClient(client)
		svcOpts = append(svcOpts, pathrag.WithLocker(redisadapter.NewLocker(client, "pathrag:")))
		cleanup = func() { _ = client.Close() }
	}

	var mws []middleware.Middleware
	if opts.RedactPII {
		mws = append(mws, middleware.NewPIIRedaction(middleware.DefaultPIIPatterns))
	}
	if opts.SessionKey != "" {
		key, err := hex.DecodeString(opts.SessionKey)
		if err != nil || len(key) != 32 {
			cleanup()
			return nil, nil, func() {}, fmt.Errorf("session key must be 64 hex characters (AES-256)")
		}
		mws = append(mws, middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: key}))
	}
	svcOpts = append(svcOpts, pathrag.WithStore(middleware.Chain(store, mws...)))

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = observability.Combine(hooks, createDebugHooks(logger))
	}
	svcOpts = append(svcOpts, pathrag.WithLifecycleHooks(hooks))

	svc, err := pathrag.New(svcOpts...)
	if err != nil {
		cleanup()
		return nil, nil, func() {}, err
	}

	return svc, metrics, cleanup, nil
}
