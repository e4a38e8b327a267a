package decoder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/playwise/playwise/internal/domain"
)

// Registry maps file extensions to probers
type Registry struct {
	probers map[string]Prober
}

// NewRegistry creates a registry with every built-in prober
func NewRegistry() *Registry {
	r := &Registry{
		probers: make(map[string]Prober),
	}
	r.Register("mp3", MP3Prober{})
	r.Register("flac", FLACProber{})
	return r
}

// Register installs p for files ending in ext
func (r *Registry) Register(ext string, p Prober) {
	r.probers[normalizeExt(ext)] = p
}

func (r *Registry) SupportsFile(path string) bool {
	_, ok := r.probers[normalizeExt(filepath.Ext(path))]
	return ok
}

// SupportedFormats returns the registered extensions, sorted
func (r *Registry) SupportedFormats() []string {
	formats := make([]string, 0, len(r.probers))
	for ext := range r.probers {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}

// ProbeFile opens path and extracts its metadata. A missing title falls
// back to the file name.
func (r *Registry) ProbeFile(path string) (*Metadata, error) {
	ext := normalizeExt(filepath.Ext(path))
	prober, ok := r.probers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return nil, err
	}
	defer file.Close()

	metadata, err := prober.Probe(file)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	if strings.TrimSpace(metadata.Title) == "" {
		metadata.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return metadata, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

var defaultRegistry = NewRegistry()

// ProbeFile probes path with the built-in probers
func ProbeFile(path string) (*Metadata, error) {
	return defaultRegistry.ProbeFile(path)
}

// SupportsFile checks if a file format is supported
func SupportsFile(path string) bool {
	return defaultRegistry.SupportsFile(path)
}
