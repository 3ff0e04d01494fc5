package usecase

import (
	"time"

	"github.com/seamark-lab/quartermaster/pkg/domain/interfaces"
	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

const (
	defaultSignatureMaxAge = 10 * time.Minute
	defaultDedupWindow     = 24 * time.Hour
)

// UseCases is the server-side action pipeline: catalog lookup, role policy,
// signature verification, idempotency dedup, duplicate detection, and the
// per-action handlers.
type UseCases struct {
	repo     interfaces.Repository
	registry *model.ActionRegistry
	notifier interfaces.Notifier
	storage  interfaces.StorageClient

	handlers map[types.ActionID]actionHandler

	signatureMaxAge time.Duration
	dedupWindow     time.Duration
	now             func() time.Time
}

type Option func(*UseCases)

// WithNotifier enables best-effort chat notifications after each execution
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithStorage provides the backend for actions that persist files
func WithStorage(s interfaces.StorageClient) Option {
	return func(uc *UseCases) {
		uc.storage = s
	}
}

// WithSignatureMaxAge overrides how old a signature may be at submission
func WithSignatureMaxAge(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.signatureMaxAge = d
	}
}

// WithDedupWindow overrides the idempotency dedup window
func WithDedupWindow(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.dedupWindow = d
	}
}

// WithNow fixes the clock, for tests
func WithNow(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// New creates the use case layer bound to a repository and a compiled
// action catalog
func New(repo interfaces.Repository, registry *model.ActionRegistry, options ...Option) *UseCases {
	uc := &UseCases{
		repo:            repo,
		registry:        registry,
		signatureMaxAge: defaultSignatureMaxAge,
		dedupWindow:     defaultDedupWindow,
		now:             time.Now,
	}
	uc.handlers = builtinHandlers(uc)

	for _, opt := range options {
		opt(uc)
	}
	return uc
}

// Registry exposes the compiled catalog to the HTTP controller
func (uc *UseCases) Registry() *model.ActionRegistry {
	return uc.registry
}

// Repository exposes the repository, mainly for tests and the sweep worker
func (uc *UseCases) Repository() interfaces.Repository {
	return uc.repo
}
