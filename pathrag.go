package pathrag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akilivoice/pathrag/internal/engine"
	"github.com/akilivoice/pathrag/internal/logging"
	"github.com/akilivoice/pathrag/pkg/adapters/assets"
	"github.com/akilivoice/pathrag/pkg/adapters/memory"
	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/graph"
	"github.com/akilivoice/pathrag/pkg/ports"
	"github.com/akilivoice/pathrag/pkg/session"
)

// Service is the high-level entry point for the PathRAG library. It wires
// the traversal engine, the session manager, and the asset catalog behind
// the four-operation control surface used by every transport adapter.
type Service struct {
	engine   *engine.Engine
	sessions *session.Manager
	catalog  ports.AssetCatalog

	graph  *graph.Graph
	store  ports.SessionStore
	locker ports.DistributedLocker
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	newID  func() string
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithGraph replaces the built-in diagnostic script.
func WithGraph(g *graph.Graph) Option {
	return func(s *Service) {
		s.graph = g
	}
}

// WithStore injects a session store; defaults to the in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLocker enables distributed locking for multi-replica deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithCatalog replaces the built-in asset catalog.
func WithCatalog(catalog ports.AssetCatalog) Option {
	return func(s *Service) {
		s.catalog = catalog
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIDGenerator overrides session id generation, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// New initializes a PathRAG Service. With no options it runs fully
// in-process: built-in graph, built-in assets, in-memory sessions.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.graph == nil {
		s.graph = graph.Default()
	}
	if err := s.graph.Validate(); err != nil {
		return nil, fmt.Errorf("diagnostic graph: %w", err)
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}
	if s.catalog == nil {
		s.catalog = assets.NewCatalog()
	}

	engineOpts := []engine.Option{
		engine.WithCatalog(s.catalog),
		engine.WithHooks(s.hooks),
		engine.WithLogger(s.logger),
	}
	if s.newID != nil {
		engineOpts = append(engineOpts, engine.WithIDGenerator(s.newID))
	}
	s.engine = engine.New(s.graph, engineOpts...)

	managerOpts := []session.Option{session.WithLogger(s.logger)}
	if s.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(s.locker))
	}
	s.sessions = session.NewManager(s.store, managerOpts...)

	return s, nil
}

// StateSnapshot is the full externally visible state of a session.
type StateSnapshot struct {
	SessionID    string                    `json:"session_id"`
	CurrentNode  *domain.DiagnosticNode    `json:"current_node"`
	Assets       []domain.RouterAsset      `json:"assets"`
	Phase        domain.Phase              `json:"phase"`
	PhaseLabel   string                    `json:"phase_label"`
	Progress     int                       `json:"progress"`
	Status       domain.Status             `json:"status"`
	Vendor       *domain.VendorProfile     `json:"vendor_profile,omitempty"`
	Escalation   *domain.EscalationPayload `json:"escalation_payload,omitempty"`
	VoiceContext string                    `json:"voice_context"`
}

// TransitionOutcome is what Process returns: the applied transition plus
// the updated snapshot.
type TransitionOutcome struct {
	StateSnapshot

	ShouldEscalate   bool   `json:"should_escalate"`
	EscalationReason string `json:"escalation_reason,omitempty"`
	Retried          bool   `json:"retried"`
}

// Create starts a new diagnostic session. A non-empty vendorHint selects
// the vendor profile up front; otherwise the profile is detected from the
// conversation later.
func (s *Service) Create(ctx context.Context, vendorHint string) (*StateSnapshot, error) {
	sess, err := s.engine.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	if vendorHint != "" {
		profile := domain.VendorProfileByID(vendorHint)
		sess.VendorProfile = &profile
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving new session: %w", err)
	}

	return s.snapshot(sess), nil
}

// Process resolves one utterance against a session and applies the
// resulting transition. At most one Process call runs per session id at a
// time; concurrent calls serialize on the session lock.
func (s *Service) Process(ctx context.Context, sessionID, utterance string) (*TransitionOutcome, error) {
	var (
		result  *domain.TraversalResult
		current string
	)
	updated, err := s.sessions.Transition(ctx, sessionID, func(ctx context.Context, sess *domain.DiagnosticSession) (*domain.DiagnosticSession, error) {
		current = sess.CurrentNodeID
		result = s.engine.Evaluate(sess, utterance)
		return s.engine.Advance(ctx, sess, utterance, result), nil
	})
	if err != nil {
		return nil, err
	}

	return &TransitionOutcome{
		StateSnapshot:    *s.snapshot(updated),
		ShouldEscalate:   result.ShouldEscalate,
		EscalationReason: result.EscalationReason,
		Retried:          result.Retry(current),
	}, nil
}

// GetState returns the full snapshot for a session.
func (s *Service) GetState(ctx context.Context, sessionID string) (*StateSnapshot, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(sess), nil
}

// GetContext returns just the next-speak briefing for the voice agent.
func (s *Service) GetContext(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return s.engine.VoiceContext(sess), nil
}

// RecordAction logs a corrective action attempt against a session.
func (s *Service) RecordAction(ctx context.Context, sessionID string, action domain.AllowedAction, result domain.ActionResult, notes string) (*StateSnapshot, error) {
	updated, err := s.sessions.Transition(ctx, sessionID, func(_ context.Context, sess *domain.DiagnosticSession) (*domain.DiagnosticSession, error) {
		return s.engine.RecordAction(sess, action, result, notes), nil
	})
	if err != nil {
		return nil, err
	}
	return s.snapshot(updated), nil
}

// Sessions exposes the session manager for transports that list or delete.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Graph exposes the diagnostic graph.
func (s *Service) Graph() *graph.Graph {
	return s.graph
}

// Engine exposes the traversal engine for embedding callers.
func (s *Service) Engine() *engine.Engine {
	return s.engine
}

func (s *Service) snapshot(sess *domain.DiagnosticSession) *StateSnapshot {
	snap := &StateSnapshot{
		SessionID:    sess.ID,
		Phase:        sess.CurrentPhase,
		PhaseLabel:   sess.CurrentPhase.Label(),
		Progress:     sess.CurrentPhase.Progress(),
		Status:       sess.Status,
		Vendor:       sess.VendorProfile,
		Escalation:   sess.Escalation,
		VoiceContext: s.engine.VoiceContext(sess),
	}
	if node, err := s.graph.Get(sess.CurrentNodeID); err == nil {
		snap.CurrentNode = node
		snap.Assets = s.catalog.AssetsFor(node.ID)
	}
	return snap
}
