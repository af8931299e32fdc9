package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// StorageKey names the single saved session. It is versionless: a schema
// change invalidates old saves.
const StorageKey = "ethics-journey"

// ErrNoSave is returned by Store.Load when nothing has been saved yet.
var ErrNoSave = errors.New("no saved session")

// ErrCorruptSave wraps every failure to decode a stored session. Other Load
// errors mean the store itself is unavailable.
var ErrCorruptSave = errors.New("corrupt saved session")

// Store persists a SessionState under StorageKey.
type Store interface {
	Load(ctx context.Context) (*SessionState, error)
	Save(ctx context.Context, s *SessionState) error
	Clear(ctx context.Context) error
}

// EncodeState renders the persisted form of a session. Pending is omitted.
func EncodeState(s *SessionState) ([]byte, error) {
	return yaml.Marshal(s)
}

// DecodeState parses a persisted session. Pending is always nil on return.
func DecodeState(data []byte) (*SessionState, error) {
	var s SessionState
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w: %v", ErrCorruptSave, err)
	}
	if s.Position == "" {
		return nil, fmt.Errorf("decode session: %w: missing position", ErrCorruptSave)
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	s.Pending = nil
	return &s, nil
}

// FileStore keeps the session as a YAML file inside Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store writing to dir/<StorageKey>.yaml.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (f *FileStore) path() string {
	return filepath.Join(f.Dir, StorageKey+".yaml")
}

func (f *FileStore) Load(ctx context.Context) (*SessionState, error) {
	data, err := os.ReadFile(f.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, err
	}
	return DecodeState(data)
}

func (f *FileStore) Save(ctx context.Context, s *SessionState) error {
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return err
	}
	data, err := EncodeState(s)
	if err != nil {
		return err
	}

	// Write a sibling temp file and rename so a crash never leaves half a save.
	tmp, err := os.CreateTemp(f.Dir, StorageKey+"-*.yaml")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path())
}

func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore keeps the encoded session in memory. Setting Fail makes every
// operation return it, which is handy for exercising storage outages.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	Fail  error
	Saves int
}

func (m *MemoryStore) Load(ctx context.Context) (*SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	if m.data == nil {
		return nil, ErrNoSave
	}
	return DecodeState(m.data)
}

func (m *MemoryStore) Save(ctx context.Context, s *SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	data, err := EncodeState(s)
	if err != nil {
		return err
	}
	m.data = data
	m.Saves++
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.data = nil
	return nil
}

// SetRaw replaces the stored bytes verbatim.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

// Raw returns the stored bytes, or nil when empty.
func (m *MemoryStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}
