package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/resume"
	"github.com/goliatone/go-resumegen/pkg/storage"
)

// DefaultResumeName is suggested when the owner has no name.
const DefaultResumeName = "My Resume"

func (o *Orchestrator) scheduleAutoSaveLocked() {
	if !o.settings.AutoSave {
		return
	}
	o.autosave.Schedule(o.autoSave)
}

func (o *Orchestrator) autoSave() {
	err := o.SaveCurrentState(context.Background())
	o.mu.Lock()
	o.lastSaveErr = err
	o.mu.Unlock()
	if err != nil {
		o.logger.Warn("orchestrator: auto-save failed", zap.Error(err))
	}
}

// AutoSavePending reports whether a working-copy save is scheduled.
func (o *Orchestrator) AutoSavePending() bool {
	return o.autosave.Pending()
}

// LastAutoSaveError returns the outcome of the most recent auto-save.
func (o *Orchestrator) LastAutoSaveError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSaveErr
}

// SaveCurrentState writes the working copy.
func (o *Orchestrator) SaveCurrentState(ctx context.Context) error {
	o.mu.Lock()
	snap := o.resume.Export()
	o.mu.Unlock()
	if err := o.store.SaveCurrent(ctx, snap); err != nil {
		return fmt.Errorf("orchestrator: save current state: %w", err)
	}
	return nil
}

// LoadSavedState restores the working copy. It reports false when there is
// none.
func (o *Orchestrator) LoadSavedState(ctx context.Context) (bool, error) {
	working := o.store.LoadCurrent(ctx)
	if working == nil || working.Data == nil {
		return false, nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.applyLocked(working.Snapshot()); err != nil {
		return false, err
	}
	return true, nil
}

// applyLocked loads snap into the engine and the resume. A snapshot template
// replaces the current one; data and theme apply only when present.
func (o *Orchestrator) applyLocked(snap resume.Snapshot) error {
	if snap.Template != nil {
		if err := o.selectTemplateLocked(snap.Template, false); err != nil {
			return err
		}
	}
	if snap.Data != nil {
		o.engine.SetData(snap.Data)
	}
	o.resume.SetData(o.engine.Data())
	if snap.Theme != "" {
		o.resume.SetTheme(o.catalog.Normalize(snap.Theme))
	}
	return nil
}

// SuggestName returns an unused name derived from the owner's name.
func (o *Orchestrator) SuggestName(ctx context.Context) string {
	o.mu.Lock()
	base := DefaultResumeName
	if owner := o.resume.OwnerName(); owner != "" {
		base = owner + " Resume"
	}
	o.mu.Unlock()
	return o.store.UniqueName(ctx, base)
}

// SaveAs stores the resume under name and makes it current.
func (o *Orchestrator) SaveAs(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	snap := o.Snapshot()
	id, err := o.store.Save(ctx, name, snap)
	if err != nil {
		return "", fmt.Errorf("orchestrator: save %q: %w", name, err)
	}
	o.mu.Lock()
	o.currentID = id
	o.mu.Unlock()
	o.logger.Info("orchestrator: resume saved", zap.String("id", id), zap.String("name", name))
	return id, nil
}

// Save updates the current saved resume, or reports storage.ErrNotFound
// when nothing has been saved or opened yet.
func (o *Orchestrator) Save(ctx context.Context) error {
	id := o.CurrentID()
	if id == "" {
		return storage.ErrNotFound
	}
	if err := o.store.Update(ctx, id, o.Snapshot()); err != nil {
		return fmt.Errorf("orchestrator: save %s: %w", id, err)
	}
	return nil
}

// Open loads the saved resume with id into the session.
func (o *Orchestrator) Open(ctx context.Context, id string) error {
	saved, err := o.store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("orchestrator: open %s: %w", id, err)
	}
	o.mu.Lock()
	err = o.applyLocked(saved.Snapshot())
	if err == nil {
		o.currentID = id
	}
	o.mu.Unlock()
	if err != nil {
		return err
	}
	if err := o.store.SetCurrentID(ctx, id); err != nil && !errors.Is(err, storage.ErrUnavailable) {
		return fmt.Errorf("orchestrator: open %s: %w", id, err)
	}
	return nil
}

// List returns the saved resumes, most recent first.
func (o *Orchestrator) List(ctx context.Context) []storage.Summary {
	return o.store.List(ctx)
}

// Delete removes a saved resume.
func (o *Orchestrator) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := o.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("orchestrator: delete %s: %w", id, err)
	}
	if removed {
		o.mu.Lock()
		if o.currentID == id {
			o.currentID = ""
		}
		o.mu.Unlock()
	}
	return removed, nil
}
