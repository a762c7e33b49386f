package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/kickoffhq/kickoff-client/internal/domain"
)

// document is the on-disk layout. Field names match the platform's
// client-side storage keys.
type document struct {
	Token        string          `json:"token,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
	KeepLoggedIn string          `json:"keepLoggedIn,omitempty"`
}

// FileStore persists credentials in a single JSON file. When a secret is
// configured the file content is sealed with NaCl secretbox, keyed via
// scrypt from the secret.
type FileStore struct {
	mu     sync.Mutex
	path   string
	secret string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed credential store at path. secret may be
// empty, in which case the file is stored as plain JSON.
func NewFileStore(path, secret string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("credential file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}
	return &FileStore{path: path, secret: secret}, nil
}

func (s *FileStore) Get() (domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return domain.Credentials{}, err
	}

	return domain.Credentials{
		AccessToken:  doc.Token,
		RefreshToken: doc.RefreshToken,
		KeepLoggedIn: doc.KeepLoggedIn == "true",
	}, nil
}

func (s *FileStore) SetTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if accessToken != "" {
		doc.Token = accessToken
	}
	if refreshToken != "" {
		doc.RefreshToken = refreshToken
	}
	return s.write(doc)
}

func (s *FileStore) SetKeepLoggedIn(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if on {
		doc.KeepLoggedIn = "true"
	} else {
		doc.KeepLoggedIn = "false"
	}
	return s.write(doc)
}

func (s *FileStore) User() (*domain.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	if len(doc.User) == 0 {
		return nil, nil
	}

	var user domain.SessionUser
	if err := json.Unmarshal(doc.User, &user); err != nil || !user.Valid() {
		// A torn or foreign snapshot is discarded, not surfaced.
		doc.User = nil
		_ = s.write(doc)
		return nil, nil
	}
	return &user, nil
}

func (s *FileStore) SetUser(user *domain.SessionUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if user == nil {
		doc.User = nil
	} else {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user snapshot: %w", err)
		}
		doc.User = raw
	}
	return s.write(doc)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Token = ""
	doc.RefreshToken = ""
	doc.User = nil
	return s.write(doc)
}

func (s *FileStore) read() (document, error) {
	var doc document

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read credential file: %w", err)
	}
	if len(raw) == 0 {
		return doc, nil
	}

	if s.secret != "" {
		raw, err = open(s.secret, raw)
		if err != nil {
			return doc, fmt.Errorf("failed to open sealed credential file: %w", err)
		}
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return document{}, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return doc, nil
}

func (s *FileStore) write(doc document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal credential file: %w", err)
	}

	if s.secret != "" {
		raw, err = seal(s.secret, raw)
		if err != nil {
			return fmt.Errorf("failed to seal credential file: %w", err)
		}
	}

	// Write-then-rename keeps a reader from ever seeing a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
