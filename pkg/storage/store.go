package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/resume"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

const (
	// DefaultPrefix namespaces every key the gateway writes.
	DefaultPrefix = "resume_builder_"
	// FormatVersion is stamped on saved resumes and bundles.
	FormatVersion = "1.0"
	// UnknownTemplate labels summaries whose template is missing.
	UnknownTemplate = "Unknown Template"

	keyResumes   = "resumes"
	keyCurrent   = "current"
	keyCurrentID = "current_id"
	keySettings  = "settings"
)

// Saved is one named resume in the index.
type Saved struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Data     formdata.Data    `json:"data"`
	Template *schema.Template `json:"template,omitempty"`
	Theme    string           `json:"theme"`
	Metadata SavedMetadata    `json:"metadata"`
}

// SavedMetadata carries the bookkeeping timestamps of a saved resume.
type SavedMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   string    `json:"version"`
}

// Snapshot converts s into a resume snapshot.
func (s Saved) Snapshot() resume.Snapshot {
	return resume.Snapshot{
		Data:     s.Data.Clone(),
		Template: s.Template.Clone(),
		Theme:    s.Theme,
	}
}

// Summary is the listing view of a saved resume.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Template   string    `json:"template"`
	Theme      string    `json:"theme"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	HasContent bool      `json:"hasContent"`
}

// Working is the auto-saved working copy.
type Working struct {
	Data      formdata.Data    `json:"data"`
	Template  *schema.Template `json:"template,omitempty"`
	Theme     string           `json:"theme"`
	LastSaved time.Time        `json:"lastSaved"`
}

// Snapshot converts w into a resume snapshot.
func (w Working) Snapshot() resume.Snapshot {
	return resume.Snapshot{
		Data:     w.Data.Clone(),
		Template: w.Template.Clone(),
		Theme:    w.Theme,
	}
}

// Bundle is the full export of saved resumes and settings.
type Bundle struct {
	Resumes    map[string]Saved `json:"resumes"`
	Settings   *Settings        `json:"settings,omitempty"`
	ExportDate time.Time        `json:"exportDate,omitzero"`
	Version    string           `json:"version,omitempty"`
}

// Info reports store usage.
type Info struct {
	Available   bool   `json:"available"`
	ResumeCount int    `json:"resumeCount"`
	SizeInBytes int    `json:"sizeInBytes"`
	SizeInKB    string `json:"sizeInKB"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger. Read failures are reported through it.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithIDSuffix overrides the generator used when a resume id collides.
func WithIDSuffix(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.suffix = next
		}
	}
}

// Store is the persistence gateway. Reads degrade to "nothing found" on any
// failure; writes report failures to the caller.
type Store struct {
	kv     KV
	prefix string
	now    func() time.Time
	suffix func() string
	logger *zap.Logger

	mu sync.Mutex
}

// New wraps kv. A nil kv behaves like Unavailable.
func New(kv KV, options ...Option) *Store {
	if kv == nil {
		kv = Unavailable()
	}
	s := &Store{
		kv:     kv,
		prefix: DefaultPrefix,
		now:    time.Now,
		suffix: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Available reports whether writes can currently succeed.
func (s *Store) Available(ctx context.Context) bool {
	return s.kv.Available(ctx)
}

// Save stores snap under name and makes it the current resume. The returned
// id never replaces another resume.
func (s *Store) Save(ctx context.Context, name string, snap resume.Snapshot) (string, error) {
	if !s.kv.Available(ctx) {
		return "", ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex(ctx)
	if err != nil {
		return "", fmt.Errorf("storage: save: %w", err)
	}
	now := s.now().UTC()
	id := ResumeID(name, now)
	for {
		if _, taken := index[id]; !taken {
			break
		}
		id = id + "_" + s.suffix()
	}

	index[id] = Saved{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Data:     snap.Data.Clone(),
		Template: snap.Template.Clone(),
		Theme:    themeOrDefault(snap.Theme),
		Metadata: SavedMetadata{CreatedAt: now, UpdatedAt: now, Version: FormatVersion},
	}
	if err := s.writeIndex(ctx, index); err != nil {
		return "", fmt.Errorf("storage: save: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(keyCurrentID), []byte(id)); err != nil {
		return id, fmt.Errorf("storage: save: set current: %w", err)
	}
	return id, nil
}

// Update replaces the content of an existing resume, keeping its name and
// creation time.
func (s *Store) Update(ctx context.Context, id string, snap resume.Snapshot) error {
	if !s.kv.Available(ctx) {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex(ctx)
	if err != nil {
		return fmt.Errorf("storage: update: %w", err)
	}
	saved, ok := index[id]
	if !ok {
		return ErrNotFound
	}
	saved.Data = snap.Data.Clone()
	saved.Template = snap.Template.Clone()
	saved.Theme = themeOrDefault(snap.Theme)
	saved.Metadata.UpdatedAt = s.now().UTC()
	saved.Metadata.Version = FormatVersion
	index[id] = saved
	if err := s.writeIndex(ctx, index); err != nil {
		return fmt.Errorf("storage: update: %w", err)
	}
	return nil
}

// Load returns the saved resume with id.
func (s *Store) Load(ctx context.Context, id string) (Saved, error) {
	saved, ok := s.readIndex(ctx)[id]
	if !ok {
		return Saved{}, ErrNotFound
	}
	return saved, nil
}

// List returns summaries of every saved resume, most recently updated first.
func (s *Store) List(ctx context.Context) []Summary {
	index := s.readIndex(ctx)
	out := make([]Summary, 0, len(index))
	for _, saved := range index {
		summary := Summary{
			ID:         saved.ID,
			Name:       saved.Name,
			Template:   UnknownTemplate,
			Theme:      themeOrDefault(saved.Theme),
			CreatedAt:  saved.Metadata.CreatedAt,
			UpdatedAt:  saved.Metadata.UpdatedAt,
			HasContent: resume.HasContent(saved.Data),
		}
		if saved.Template != nil && saved.Template.Name != "" {
			summary.Template = saved.Template.Name
		}
		out = append(out, summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete removes the resume with id. It reports false when nothing was
// removed. Deleting the current resume also clears the working copy.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if !s.kv.Available(ctx) {
		return false, ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex(ctx)
	if err != nil {
		return false, fmt.Errorf("storage: delete: %w", err)
	}
	if _, ok := index[id]; !ok {
		return false, nil
	}
	delete(index, id)
	if err := s.writeIndex(ctx, index); err != nil {
		return false, fmt.Errorf("storage: delete: %w", err)
	}
	if s.CurrentID(ctx) == id {
		if err := s.kv.Delete(ctx, s.key(keyCurrentID)); err != nil {
			return true, fmt.Errorf("storage: delete: clear current id: %w", err)
		}
		if err := s.kv.Delete(ctx, s.key(keyCurrent)); err != nil {
			return true, fmt.Errorf("storage: delete: clear current: %w", err)
		}
	}
	return true, nil
}

// CurrentID returns the id of the last saved or opened resume.
func (s *Store) CurrentID(ctx context.Context) string {
	raw, ok := s.read(ctx, keyCurrentID)
	if !ok {
		return ""
	}
	return string(raw)
}

// SetCurrentID records id as the current resume.
func (s *Store) SetCurrentID(ctx context.Context, id string) error {
	if !s.kv.Available(ctx) {
		return ErrUnavailable
	}
	if err := s.kv.Set(ctx, s.key(keyCurrentID), []byte(id)); err != nil {
		return fmt.Errorf("storage: set current id: %w", err)
	}
	return nil
}

// SaveCurrent stores snap as the working copy.
func (s *Store) SaveCurrent(ctx context.Context, snap resume.Snapshot) error {
	if !s.kv.Available(ctx) {
		return ErrUnavailable
	}
	working := Working{
		Data:      snap.Data.Clone(),
		Template:  snap.Template.Clone(),
		Theme:     themeOrDefault(snap.Theme),
		LastSaved: s.now().UTC(),
	}
	raw, err := json.Marshal(working)
	if err != nil {
		return fmt.Errorf("storage: save current: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(keyCurrent), raw); err != nil {
		return fmt.Errorf("storage: save current: %w", err)
	}
	return nil
}

// LoadCurrent returns the working copy, or nil when none is stored.
func (s *Store) LoadCurrent(ctx context.Context) *Working {
	raw, ok := s.read(ctx, keyCurrent)
	if !ok {
		return nil
	}
	var working Working
	if err := json.Unmarshal(raw, &working); err != nil {
		s.logger.Warn("storage: discarding unreadable working copy", zap.Error(err))
		return nil
	}
	return &working
}

// ClearCurrent removes the working copy.
func (s *Store) ClearCurrent(ctx context.Context) error {
	if !s.kv.Available(ctx) {
		return ErrUnavailable
	}
	if err := s.kv.Delete(ctx, s.key(keyCurrent)); err != nil {
		return fmt.Errorf("storage: clear current: %w", err)
	}
	return nil
}

// UniqueName returns base, or "base (n)" with the smallest n that no saved
// resume uses. Names compare case-insensitively.
func (s *Store) UniqueName(ctx context.Context, base string) string {
	taken := make(map[string]struct{})
	for _, saved := range s.readIndex(ctx) {
		taken[strings.ToLower(saved.Name)] = struct{}{}
	}
	name := base
	for n := 1; ; n++ {
		if _, ok := taken[strings.ToLower(name)]; !ok {
			return name
		}
		name = base + " (" + strconv.Itoa(n) + ")"
	}
}

// NameExists reports whether a saved resume already uses name.
func (s *Store) NameExists(ctx context.Context, name string) bool {
	for _, saved := range s.readIndex(ctx) {
		if strings.EqualFold(saved.Name, name) {
			return true
		}
	}
	return false
}

// ExportAll bundles every saved resume with the effective settings.
func (s *Store) ExportAll(ctx context.Context) Bundle {
	settings := s.Settings(ctx)
	return Bundle{
		Resumes:    s.readIndex(ctx),
		Settings:   &settings,
		ExportDate: s.now().UTC(),
		Version:    FormatVersion,
	}
}

// ImportAll replaces the index and settings with the parts present in b.
func (s *Store) ImportAll(ctx context.Context, b Bundle) error {
	if !s.kv.Available(ctx) {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Resumes != nil {
		if err := s.writeIndex(ctx, b.Resumes); err != nil {
			return fmt.Errorf("storage: import: %w", err)
		}
	}
	if b.Settings != nil {
		raw, err := json.Marshal(b.Settings)
		if err != nil {
			return fmt.Errorf("storage: import: %w", err)
		}
		if err := s.kv.Set(ctx, s.key(keySettings), raw); err != nil {
			return fmt.Errorf("storage: import: settings: %w", err)
		}
	}
	return nil
}

// ClearAll removes every key under the gateway prefix.
func (s *Store) ClearAll(ctx context.Context) error {
	if !s.kv.Available(ctx) {
		return ErrUnavailable
	}
	keys, err := s.kv.Keys(ctx, s.prefix)
	if err != nil {
		return fmt.Errorf("storage: clear: %w", err)
	}
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("storage: clear %s: %w", key, err)
		}
	}
	return nil
}

// Info sums the size of every key under the gateway prefix.
func (s *Store) Info(ctx context.Context) Info {
	info := Info{Available: s.kv.Available(ctx), SizeInKB: "0.00"}
	if !info.Available {
		return info
	}
	info.ResumeCount = len(s.readIndex(ctx))
	keys, err := s.kv.Keys(ctx, s.prefix)
	if err != nil {
		s.logger.Warn("storage: list keys failed", zap.Error(err))
		return info
	}
	for _, key := range keys {
		if raw, ok, err := s.kv.Get(ctx, key); err == nil && ok {
			info.SizeInBytes += len(key) + len(raw)
		}
	}
	info.SizeInKB = strconv.FormatFloat(float64(info.SizeInBytes)/1024, 'f', 2, 64)
	return info
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) read(ctx context.Context, name string) ([]byte, bool) {
	raw, ok, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		s.logger.Warn("storage: read failed", zap.String("key", name), zap.Error(err))
		return nil, false
	}
	return raw, ok
}

// readIndex is the lenient read used by queries: an unreadable index reads
// as empty.
func (s *Store) readIndex(ctx context.Context) map[string]Saved {
	index, err := s.loadIndex(ctx)
	if err != nil {
		s.logger.Warn("storage: treating unreadable resume index as empty", zap.Error(err))
		return make(map[string]Saved)
	}
	return index
}

// loadIndex is the strict read used before rewriting the index. Any failure
// aborts the write so existing entries survive.
func (s *Store) loadIndex(ctx context.Context) (map[string]Saved, error) {
	index := make(map[string]Saved)
	raw, ok, err := s.kv.Get(ctx, s.key(keyResumes))
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if !ok {
		return index, nil
	}
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	return index, nil
}

func (s *Store) writeIndex(ctx context.Context, index map[string]Saved) error {
	raw, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key(keyResumes), raw)
}

func themeOrDefault(theme string) string {
	if theme == "" {
		return resume.DefaultTheme
	}
	return theme
}

var (
	nonSlug          = regexp.MustCompile(`[^a-z0-9]`)
	repeatUnderscore = regexp.MustCompile(`_+`)
)

// ResumeID derives "<slug>_<unix millis>" from name. The slug lowercases the
// name, maps every other character to an underscore and collapses runs.
func ResumeID(name string, at time.Time) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(name), "_")
	slug = strings.Trim(repeatUnderscore.ReplaceAllString(slug, "_"), "_")
	if slug == "" {
		slug = "resume"
	}
	return slug + "_" + strconv.FormatInt(at.UnixMilli(), 10)
}
