package ocr

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Factory constructs an Engine.
type Factory func(ctx context.Context) (Engine, error)

// Shared holds the process-wide engine. The factory runs at most once; a
// construction failure is kept for the lifetime of the process and never
// retried.
type Shared struct {
	once    sync.Once
	factory Factory
	engine  Engine
	err     error
	log     zerolog.Logger
}

// NewShared returns a Shared that builds its engine with factory.
func NewShared(factory Factory, log zerolog.Logger) *Shared {
	return &Shared{factory: factory, log: log}
}

// Init constructs the engine on first call and returns the recorded
// construction error on every call.
func (s *Shared) Init(ctx context.Context) error {
	s.once.Do(func() {
		s.engine, s.err = s.factory(ctx)
		if s.err == nil && s.engine == nil {
			s.err = ErrEngineUnavailable
		}
		if s.err != nil {
			s.engine = nil
			s.log.Error().Err(s.err).Msg("OCR engine initialization failed")
			return
		}
		s.log.Info().Str("engine", s.engine.Name()).Msg("OCR engine initialized")
	})
	return s.err
}

// Engine returns the shared engine, initializing it if Init was never
// called. The error wraps ErrEngineUnavailable.
func (s *Shared) Engine() (Engine, error) {
	if err := s.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}
	return s.engine, nil
}

// Available reports whether the engine initialized successfully.
func (s *Shared) Available() bool {
	_, err := s.Engine()
	return err == nil
}

// Close releases the engine if one was built.
func (s *Shared) Close() error {
	if s.engine == nil {
		return nil
	}
	return s.engine.Close()
}
