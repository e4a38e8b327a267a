package library

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/playwise/playwise/internal/audio/decoder"
	"github.com/playwise/playwise/internal/config"
	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/logger"
)

// ImportResult represents the result of an import run
type ImportResult struct {
	TotalFiles int            `json:"total_files"`
	Imported   int            `json:"imported"`
	Failed     int            `json:"failed"`
	Skipped    int            `json:"skipped"`
	Duration   time.Duration  `json:"duration"`
	Songs      []*domain.Song `json:"songs"`
	Errors     []error        `json:"-"`
}

type ImportOptions struct {
	Workers         int
	Recursive       bool
	FollowSymlinks  bool
	FilePatterns    []string
	ExcludePatterns []string
	DefaultGenre    string
}

func ImportOptionsFromConfig(cfg *config.Config) ImportOptions {
	return ImportOptions{
		Workers:         cfg.Import.Workers,
		Recursive:       cfg.Import.Recursive,
		FilePatterns:    cfg.Import.FilePatterns,
		ExcludePatterns: cfg.Import.ExcludePatterns,
		DefaultGenre:    cfg.Import.DefaultGenre,
	}
}

// Importer walks a directory tree, probes audio files on a worker pool and
// adds what it finds to a Library
type Importer struct {
	library *Library
	opts    ImportOptions
	probe   func(path string) (*decoder.Metadata, error)

	isImporting bool
	cancelFunc  context.CancelFunc
	currentFile string
	mu          sync.RWMutex
}

type probed struct {
	path     string
	metadata *decoder.Metadata
	err      error
}

func NewImporter(library *Library, opts ImportOptions) *Importer {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if len(opts.FilePatterns) == 0 {
		opts.FilePatterns = []string{"*.mp3", "*.flac"}
	}
	if opts.DefaultGenre == "" {
		opts.DefaultGenre = domain.UnknownGenre
	}
	return &Importer{
		library: library,
		opts:    opts,
		probe:   decoder.ProbeFile,
	}
}

// Import probes every matching file under root. Songs are appended in path
// order so that repeated imports of the same tree are reproducible. A song
// whose title and artist are already in the library is skipped.
func (i *Importer) Import(ctx context.Context, root string) (*ImportResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewDomainErrorWithDetails(domain.ErrCodeNotFound, "import root does not exist", root, domain.ErrFileNotFound)
		}
		return nil, domain.NewDomainErrorWithDetails(domain.ErrCodeFileSystem, "cannot open import root", root, err)
	}
	if !info.IsDir() {
		return nil, domain.NewDomainErrorWithDetails(domain.ErrCodeInvalidInput, "import root is not a directory", root, domain.ErrInvalidInput)
	}

	i.mu.Lock()
	if i.isImporting {
		i.mu.Unlock()
		return nil, domain.ErrImportRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	i.isImporting = true
	i.cancelFunc = cancel
	i.mu.Unlock()

	defer func() {
		cancel()
		i.mu.Lock()
		i.isImporting = false
		i.cancelFunc = nil
		i.currentFile = ""
		i.mu.Unlock()
	}()

	startTime := time.Now()
	result := &ImportResult{
		Songs:  make([]*domain.Song, 0),
		Errors: make([]error, 0),
	}

	paths := make(chan string, 100)
	results := make(chan probed, 100)

	var workers sync.WaitGroup
	for w := 0; w < i.opts.Workers; w++ {
		workers.Add(1)
		go i.probeWorker(ctx, &workers, paths, results)
	}

	collected := make([]probed, 0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			collected = append(collected, r)
		}
	}()

	logger.Info("Starting import", logger.String("path", root), logger.Int("workers", i.opts.Workers))

	walkErr := i.walk(ctx, root, paths, result)
	close(paths)
	workers.Wait()
	close(results)
	<-done

	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(collected, func(a, b int) bool {
		return collected[a].path < collected[b].path
	})
	for _, r := range collected {
		i.add(r, result)
	}

	result.Duration = time.Since(startTime)
	logger.Info("Import completed",
		logger.Int("total_files", result.TotalFiles),
		logger.Int("imported", result.Imported),
		logger.Int("skipped", result.Skipped),
		logger.Int("failed", result.Failed),
		logger.Duration("duration", result.Duration),
	)
	return result, nil
}

func (i *Importer) walk(ctx context.Context, root string, paths chan<- string, result *ImportResult) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			result.Errors = append(result.Errors,
				domain.NewDomainErrorWithDetails(domain.ErrCodeFileSystem, "cannot access path", path, err))
			logger.Warn("Error accessing path", logger.String("path", path), logger.Error(err))
			return nil
		}

		if d.IsDir() {
			if path != root && !i.opts.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !i.opts.FollowSymlinks && d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if !i.matchesPattern(path) || i.isExcluded(path) {
			return nil
		}

		result.TotalFiles++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case paths <- path:
			i.mu.Lock()
			i.currentFile = path
			i.mu.Unlock()
		}
		return nil
	})
}

func (i *Importer) probeWorker(ctx context.Context, wg *sync.WaitGroup, paths <-chan string, results chan<- probed) {
	defer wg.Done()

	for path := range paths {
		if ctx.Err() != nil {
			continue
		}
		metadata, err := i.probe(path)
		results <- probed{path: path, metadata: metadata, err: err}
	}
}

func (i *Importer) add(r probed, result *ImportResult) {
	if r.err != nil {
		result.Failed++
		result.Errors = append(result.Errors,
			domain.NewDomainErrorWithDetails(domain.ErrCodeImport, "cannot read file", r.path, r.err))
		logger.Warn("Failed to probe file", logger.String("path", r.path), logger.Error(r.err))
		return
	}

	m := r.metadata
	if existing, ok := i.library.FindByTitle(m.Title); ok && existing.Artist == m.Artist {
		result.Skipped++
		return
	}

	genre := m.Genre
	if strings.TrimSpace(genre) == "" {
		genre = i.opts.DefaultGenre
	}
	song, _, err := i.library.AddSong(m.Title, m.Artist, genre, m.Seconds())
	if err != nil {
		result.Failed++
		result.Errors = append(result.Errors,
			domain.NewDomainErrorWithDetails(domain.ErrCodeImport, "cannot add song", r.path, err))
		return
	}
	result.Imported++
	result.Songs = append(result.Songs, song)
}

func (i *Importer) matchesPattern(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, pattern := range i.opts.FilePatterns {
		if matched, _ := filepath.Match(strings.ToLower(pattern), name); matched {
			return true
		}
	}
	return false
}

func (i *Importer) isExcluded(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, pattern := range i.opts.ExcludePatterns {
		if matched, _ := filepath.Match(strings.ToLower(pattern), name); matched {
			return true
		}
	}
	return false
}

// Cancel stops the running import, if any
func (i *Importer) Cancel() {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.cancelFunc != nil {
		i.cancelFunc()
	}
}

func (i *Importer) IsImporting() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.isImporting
}

// CurrentFile returns the file most recently handed to a worker
func (i *Importer) CurrentFile() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.currentFile
}

// ErrorSummary joins the per-file errors of an import, or returns nil
func (r *ImportResult) ErrorSummary() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	return errors.Join(r.Errors...)
}
