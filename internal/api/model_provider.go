package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samcharles93/ngram/internal/logger"
	"github.com/samcharles93/ngram/internal/ngram"
)

const (
	envModelsDir = "NGRAM_MODELS_DIR"
	modelExt     = ".json"
)

// ModelHandle is what a provider hands to callers while they hold the
// model's lock.
type ModelHandle struct {
	Name  string
	Path  string
	Model *ngram.Model
}

type ModelProvider interface {
	// WithModel runs fn with the named model locked: shared when write is
	// false, exclusive when true. An empty name selects the default model.
	WithModel(ctx context.Context, name string, write bool, fn func(h ModelHandle) error) error
	ListModels() ([]string, error)
}

type ProviderConfig struct {
	DefaultModelPath string
	ModelsPath       string
	// Config is used for every model opened. A zero ContextSize is taken
	// from each model file.
	Config ngram.Config
	Seed   int64
	Logger logger.Logger
}

// CachedModelProvider opens models from disk on first use and keeps them in
// memory. Each model is guarded by its own reader/writer lock, since the
// n-gram core itself is single-threaded.
type CachedModelProvider struct {
	cfg   ProviderConfig
	mu    sync.Mutex
	cache map[string]*modelEntry
}

type modelEntry struct {
	mu    sync.RWMutex
	name  string
	path  string
	model *ngram.Model
}

func NewCachedModelProvider(cfg ProviderConfig) *CachedModelProvider {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &CachedModelProvider{
		cfg:   cfg,
		cache: make(map[string]*modelEntry),
	}
}

func (p *CachedModelProvider) WithModel(ctx context.Context, name string, write bool, fn func(h ModelHandle) error) error {
	path, err := p.resolveModelPath(name)
	if err != nil {
		return err
	}
	entry, err := p.getOrLoad(path)
	if err != nil {
		return err
	}

	if write {
		entry.mu.Lock()
		defer entry.mu.Unlock()
	} else {
		entry.mu.RLock()
		defer entry.mu.RUnlock()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ModelHandle{Name: entry.name, Path: entry.path, Model: entry.model})
}

func (p *CachedModelProvider) ListModels() ([]string, error) {
	seen := make(map[string]struct{})
	var names []string
	add := func(path string) {
		name := modelName(path)
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if p.cfg.DefaultModelPath != "" {
		add(p.cfg.DefaultModelPath)
	}
	if dir := p.modelsDir(); dir != "" {
		models, err := DiscoverModels(dir)
		if err != nil {
			return nil, err
		}
		for _, m := range models {
			add(m)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (p *CachedModelProvider) getOrLoad(path string) (*modelEntry, error) {
	p.mu.Lock()
	entry, ok := p.cache[path]
	p.mu.Unlock()
	if ok {
		return entry, nil
	}

	model, err := p.open(path)
	if err != nil {
		return nil, err
	}
	newEntry := &modelEntry{name: modelName(path), path: path, model: model}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.cache[path]; ok {
		return existing, nil
	}
	p.cache[path] = newEntry
	return newEntry, nil
}

func (p *CachedModelProvider) open(path string) (*ngram.Model, error) {
	log := p.cfg.Logger.With("path", path)
	opts := []ngram.Option{
		ngram.WithChooser(newLockedChooser(p.cfg.Seed)),
		ngram.WithLogger(log),
	}

	model, err := ngram.Open(path, p.cfg.Config, opts...)
	if err == nil {
		log.Info("loaded model", "contexts", model.Stats().Contexts)
		return model, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// A model file that does not exist yet starts empty and is written by
	// the first save.
	cfg := p.cfg.Config
	if cfg.ContextSize == 0 {
		cfg.ContextSize = ngram.DefaultConfig().ContextSize
	}
	model, err = ngram.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	log.Info("created empty model", "context_size", cfg.ContextSize)
	return model, nil
}

func (p *CachedModelProvider) resolveModelPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		if looksLikePath(name) {
			return p.confinePath(name)
		}
		if p.cfg.DefaultModelPath != "" && modelName(p.cfg.DefaultModelPath) == name {
			return filepath.Clean(p.cfg.DefaultModelPath), nil
		}
		modelsDir := p.modelsDir()
		if modelsDir == "" {
			return "", modelNotFoundError{msg: fmt.Sprintf("model %q not found", name)}
		}
		if resolved := resolveInDir(modelsDir, name); resolved != "" {
			return resolved, nil
		}
		return "", modelNotFoundError{msg: fmt.Sprintf("model %q not found in %s", name, modelsDir)}
	}

	if p.cfg.DefaultModelPath != "" {
		return filepath.Clean(p.cfg.DefaultModelPath), nil
	}
	modelsDir := p.modelsDir()
	if modelsDir == "" {
		return "", newInvalidRequest("model is required")
	}
	models, err := DiscoverModels(modelsDir)
	if err != nil {
		return "", err
	}
	switch len(models) {
	case 1:
		return models[0], nil
	case 0:
		return "", modelNotFoundError{msg: fmt.Sprintf("no %s models found in %s", modelExt, modelsDir)}
	default:
		return "", newInvalidRequest(fmt.Sprintf("multiple models found in %s; specify model", modelsDir))
	}
}

// confinePath accepts a path-like model name only when it is the default
// model or names a file inside the models directory. Relative names are
// taken relative to the models directory.
func (p *CachedModelProvider) confinePath(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if p.cfg.DefaultModelPath != "" && cleaned == filepath.Clean(p.cfg.DefaultModelPath) {
		return cleaned, nil
	}
	notFound := modelNotFoundError{msg: fmt.Sprintf("model %q not found", name)}
	dir := p.modelsDir()
	if dir == "" {
		return "", notFound
	}
	if !filepath.IsAbs(cleaned) {
		cleaned = filepath.Join(dir, cleaned)
	}
	if !withinDir(dir, cleaned) {
		return "", notFound
	}
	return cleaned, nil
}

// withinDir reports whether path lies strictly inside dir.
func withinDir(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (p *CachedModelProvider) modelsDir() string {
	if dir := strings.TrimSpace(p.cfg.ModelsPath); dir != "" {
		return dir
	}
	return strings.TrimSpace(os.Getenv(envModelsDir))
}

// DiscoverModels lists the model files in dir, sorted by name.
func DiscoverModels(dir string) ([]string, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("models path is not a directory: %s", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	models := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), modelExt) {
			continue
		}
		models = append(models, filepath.Join(dir, e.Name()))
	}
	sort.Strings(models)
	return models, nil
}

func modelName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(base), modelExt) {
		base = base[:len(base)-len(modelExt)]
	}
	return base
}

func looksLikePath(v string) bool {
	if strings.Contains(v, string(filepath.Separator)) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(v), modelExt)
}

func resolveInDir(dir, name string) string {
	cand := filepath.Join(dir, name)
	if fileExists(cand) {
		return cand
	}
	if !strings.HasSuffix(strings.ToLower(name), modelExt) {
		cand = filepath.Join(dir, name+modelExt)
		if fileExists(cand) {
			return cand
		}
	}
	return ""
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// lockedChooser lets readers holding a shared model lock predict at the
// same time without racing on the random source.
type lockedChooser struct {
	mu      sync.Mutex
	chooser ngram.Chooser
}

func newLockedChooser(seed int64) *lockedChooser {
	return &lockedChooser{chooser: ngram.NewRandChooser(seed)}
}

func (c *lockedChooser) Choose(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chooser.Choose(n)
}
