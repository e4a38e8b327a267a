package textfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/logger"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat accepts a format name, or empty to mean "from the path".
func ParseFormat(name, path string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DetectFormat(path), nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, name)
	}
}

// DetectFormat picks a format from the file extension, defaulting to text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatText
	}
}

func Write(w io.Writer, state *domain.State, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(state)
	default:
		return Encode(w, state)
	}
}

func Read(r io.Reader, format Format) (*domain.State, error) {
	switch format {
	case FormatJSON, FormatTOML:
		state := domain.NewState()
		var err error
		if format == FormatJSON {
			err = json.NewDecoder(r).Decode(state)
		} else {
			_, err = toml.NewDecoder(r).Decode(state)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStateCorrupted, err)
		}
		return state, nil
	default:
		return Decode(r)
	}
}

// Repository stores the snapshot in a single file. Saves go through a
// temporary file and a rename so a crash never leaves a half-written file.
type Repository struct {
	path   string
	format Format
}

func NewRepository(path string) *Repository {
	return &Repository{path: path, format: DetectFormat(path)}
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Save(state *domain.State) error {
	return WriteFile(r.path, state, r.format)
}

// Load returns an empty state when the file does not exist yet.
func (r *Repository) Load() (*domain.State, error) {
	state, err := ReadFile(r.path, r.format)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No saved state found, starting fresh", logger.String("path", r.path))
			return domain.NewState(), nil
		}
		return nil, err
	}
	return state, nil
}

func WriteFile(path string, state *domain.State, format Format) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, state, format); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func ReadFile(path string, format Format) (*domain.State, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, format)
}
