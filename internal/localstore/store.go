package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

// SchemaVersion is the current on-disk schema of the root blob. load runs
// every migration between the stored version and this one, in order.
const SchemaVersion = 3

var (
	// ErrFutureSchema means the blob on disk was written by a newer build.
	ErrFutureSchema = errors.New("local store schema is newer than this build")

	// ErrMigrationFailed wraps any failure while upgrading a prior blob.
	// The store refuses to open rather than guess at the data: a partial or
	// empty fallback would look like silent data loss to the user.
	ErrMigrationFailed = errors.New("local store migration failed")
)

// Interceptor observes every dispatched command together with the state
// before and after it ran. The change interceptor of the sync subsystem is
// registered here; interceptors run synchronously on the dispatching
// goroutine, after the state change is already durable.
type Interceptor interface {
	Intercept(cmd Command, before, after State)
}

// Store is the persisted local state container: a synchronous reducer over
// State with subscriber notification and interceptor hooks. All mutation
// goes through Dispatch; State() hands out deep copies only.
type Store struct {
	path string
	log  *logger.Logger

	mu           sync.Mutex
	state        State
	nextSubID    int
	subscribers  map[int]func(State)
	interceptors []Interceptor
}

// Open loads (and if needed migrates) the blob at path. An empty path keeps
// the store memory-only, which tests use. A missing file starts fresh; a
// malformed or unmigratable file is a startup fault.
func Open(path string, log *logger.Logger) (*Store, error) {
	s := &Store{
		path:        path,
		log:         log,
		state:       newState(),
		subscribers: make(map[int]func(State)),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies cmd atomically, persists the result, then notifies
// interceptors and subscribers with before/after copies. It returns the
// state after the command. Persistence failures are logged, never surfaced:
// the in-memory state is already updated and the next successful save will
// catch up.
func (s *Store) Dispatch(cmd Command) State {
	s.mu.Lock()
	before := s.state.Clone()
	cmd.apply(&s.state)
	after := s.state.Clone()

	if err := s.persistLocked(); err != nil {
		s.log.Error().Err(err).Str("command", string(cmd.Kind())).Msg("persist local store")
	}

	interceptors := make([]Interceptor, len(s.interceptors))
	copy(interceptors, s.interceptors)
	subscribers := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, ic := range interceptors {
		ic.Intercept(cmd, before, after)
	}
	for _, fn := range subscribers {
		fn(after.Clone())
	}

	return after
}

// Subscribe registers fn to run after every dispatch with a copy of the new
// state. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// AddInterceptor registers ic for every subsequent dispatch.
func (s *Store) AddInterceptor(ic Interceptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interceptors = append(s.interceptors, ic)
}

// rootBlob is the persisted snapshot: a versioned document holding settings
// and both collections. On disk it sits under the "root" key.
type rootBlob struct {
	Version  int                      `json:"version"`
	Settings models.Settings          `json:"settings"`
	Items    map[string]models.Item   `json:"items"`
	Recipes  map[string]models.Recipe `json:"recipes"`
}

type fileBlob struct {
	Root json.RawMessage `json:"root"`
}

func (s *Store) load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read local store file: %w", err)
	}

	var file fileBlob
	if err = json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decode local store file: %w", err)
	}
	if len(file.Root) == 0 {
		return nil
	}

	raw := make(map[string]any)
	if err = json.Unmarshal(file.Root, &raw); err != nil {
		return fmt.Errorf("decode local store root: %w", err)
	}

	raw, err = migrate(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	migrated, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: re-encode migrated root: %v", ErrMigrationFailed, err)
	}

	var root rootBlob
	if err = json.Unmarshal(migrated, &root); err != nil {
		return fmt.Errorf("%w: decode migrated root: %v", ErrMigrationFailed, err)
	}
	if root.Version > SchemaVersion {
		return fmt.Errorf("%w: stored version %d, supported %d", ErrFutureSchema, root.Version, SchemaVersion)
	}

	if root.Items == nil {
		root.Items = make(map[string]models.Item)
	}
	if root.Recipes == nil {
		root.Recipes = make(map[string]models.Recipe)
	}
	if root.Settings.SyncStatus == "" {
		root.Settings.SyncStatus = models.SyncLocal
	}

	s.state = State{Settings: root.Settings, Items: root.Items, Recipes: root.Recipes}

	return nil
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	root := rootBlob{
		Version:  SchemaVersion,
		Settings: s.state.Settings,
		Items:    s.state.Items,
		Recipes:  s.state.Recipes,
	}

	rootJSON, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("encode local store root: %w", err)
	}
	payload, err := json.MarshalIndent(fileBlob{Root: rootJSON}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local store file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create local store dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write local store file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace local store file: %w", err)
	}

	return nil
}
