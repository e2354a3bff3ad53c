package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-ini/ini"
	"github.com/spf13/afero"
)

const keyExpiresAt = "token_expires_at"

// Store reads and writes a Credential in an INI file.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a Store for the file at path. A nil fs uses the OS
// filesystem.
func NewStore(fs afero.Fs, path string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultFile
	}
	return &Store{fs: fs, path: path}
}

// Path returns the location of the credentials file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the credential. A missing file or section is a *ConfigError.
func (s *Store) Load() (*Credential, error) {
	file, err := s.read()
	if err != nil {
		return nil, err
	}

	sec, err := file.GetSection(Section)
	if err != nil {
		return nil, &ConfigError{
			Path:   s.path,
			Reason: fmt.Sprintf("missing [%s] section", Section),
		}
	}

	cred := &Credential{}
	if err := sec.MapTo(cred); err != nil {
		return nil, fmt.Errorf("error mapping [%s] section of %s: %w", Section, s.path, err)
	}
	if cred.RedirectURI == "" {
		cred.RedirectURI = DefaultRedirectURI
	}

	if raw := sec.Key(keyExpiresAt).String(); raw != "" {
		// Unparseable expiries are treated as absent.
		if t, err := dateparse.ParseIn(raw, time.Local); err == nil {
			cred.ExpiresAt = t
		}
	}

	return cred, nil
}

// Save writes the credential into the [teamsnap] section, keeping any other
// sections and keys already in the file. The file is replaced atomically.
func (s *Store) Save(cred *Credential) error {
	if cred == nil {
		return errors.New("credential is nil")
	}

	file, err := s.read()
	if err != nil {
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			return err
		}
		file = ini.Empty()
	}

	sec := file.Section(Section)
	if err := sec.ReflectFrom(cred); err != nil {
		return fmt.Errorf("error encoding credential: %w", err)
	}
	if !cred.ExpiresAt.IsZero() {
		sec.Key(keyExpiresAt).SetValue(cred.ExpiresAt.Format(time.RFC3339))
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return fmt.Errorf("error encoding credentials file: %w", err)
	}

	return writeFileAtomic(s.fs, s.path, buf.Bytes(), 0o600)
}

func (s *Store) read() (*ini.File, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Path:   s.path,
				Reason: fmt.Sprintf("file not found (expected a [%s] section)", Section),
			}
		}
		return nil, fmt.Errorf("error reading credentials file %s: %w", s.path, err)
	}

	file, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing credentials file %s: %w", s.path, err)
	}
	return file, nil
}

func writeFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, perm); err != nil {
		return fmt.Errorf("error writing %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("error replacing %s: %w", path, err)
	}
	return nil
}
