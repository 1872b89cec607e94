package langpref

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Persister loads and saves the raw preference value.
type Persister interface {
	Load() (string, error)
	Save(value string) error
}

// Listener is notified after every transition with the new language.
type Listener func(Language)

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger used to report absorbed persistence failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFallback sets the language adopted when nothing valid is persisted.
func WithFallback(lang Language) Option {
	return func(s *Store) {
		if lang.Valid() {
			s.fallback = lang
		}
	}
}

// Store holds the current language for one session. Transitions are serialised;
// readers never block and always see the value of the last completed transition.
type Store struct {
	persister Persister
	logger    *zap.Logger
	fallback  Language

	mu          sync.Mutex
	initialized bool
	current     atomic.Value // Language
	nextID      int
	listeners   map[int]Listener
	order       []int
}

// New builds a store backed by the persister. A nil persister keeps state in memory only.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		logger:    zap.NewNop(),
		fallback:  Default,
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize adopts the persisted value when it is valid, otherwise the fallback.
// Only the first call has any effect.
func (s *Store) Initialize() Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked()
}

func (s *Store) initLocked() Language {
	if s.initialized {
		return s.load()
	}
	lang := s.fallback
	if s.persister != nil {
		raw, err := s.persister.Load()
		if err != nil {
			s.logger.Debug("language preference load failed", zap.Error(err))
		} else if parsed, ok := Parse(raw); ok {
			lang = parsed
		}
	}
	s.current.Store(lang)
	s.initialized = true
	return lang
}

func (s *Store) load() Language {
	if v, ok := s.current.Load().(Language); ok {
		return v
	}
	return s.fallback
}

// Current returns the current language, initializing the store on first access.
func (s *Store) Current() Language {
	if v, ok := s.current.Load().(Language); ok {
		return v
	}
	return s.Initialize()
}

// Toggle switches EN to JP or JP to EN and returns the new language.
func (s *Store) Toggle() Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.initLocked().Other()
	s.transitionLocked(next)
	return next
}

// Set moves to lang. Setting the current language is a no-op. Invalid values are ignored.
func (s *Store) Set(lang Language) Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.initLocked()
	if !lang.Valid() || lang == cur {
		return cur
	}
	s.transitionLocked(lang)
	return lang
}

func (s *Store) transitionLocked(next Language) {
	s.current.Store(next)
	if s.persister != nil {
		if err := s.persister.Save(next.String()); err != nil {
			s.logger.Debug("language preference save failed",
				zap.String("lang", next.String()),
				zap.Error(err),
			)
		}
	}
	for _, id := range s.order {
		if fn := s.listeners[id]; fn != nil {
			fn(next)
		}
	}
}

// Subscribe registers fn for transition notifications. Listeners run while the
// transition lock is held: they may call Current but must not call Set or Toggle.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
