package orchestrator

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/form"
	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
	"github.com/goliatone/go-resumegen/pkg/themes"
)

// handleChange runs inside engine mutations, so o.mu is already held.
func (o *Orchestrator) handleChange(data formdata.Data) {
	o.resume.SetData(data)
	o.scheduleAutoSaveLocked()
}

// SelectTemplate switches to the template with id and adopts its theme.
// Data of sections that exist in both templates is carried over; the rest
// is discarded.
func (o *Orchestrator) SelectTemplate(id string) error {
	tpl, ok := o.templates.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectTemplateLocked(tpl, true)
}

func (o *Orchestrator) selectTemplateLocked(tpl *schema.Template, carry bool) error {
	previous := o.engine.Data()
	if err := o.engine.Init(tpl); err != nil {
		return fmt.Errorf("orchestrator: select template: %w", err)
	}
	normalized := o.engine.Template()

	if carry && len(previous) > 0 {
		kept := formdata.New()
		var dropped []string
		for id, entry := range previous {
			if normalized.HasSection(id) {
				kept[id] = entry
				continue
			}
			if !entry.Empty() {
				dropped = append(dropped, id)
			}
		}
		if len(dropped) > 0 {
			sort.Strings(dropped)
			o.logger.Info("orchestrator: template switch discarded sections",
				zap.String("template", normalized.ID),
				zap.Strings("sections", dropped),
			)
		}
		o.engine.SetData(kept)
	}

	o.resume.SetTemplate(normalized)
	o.resume.SetTheme(o.catalog.Normalize(normalized.Theme))
	o.resume.SetData(o.engine.Data())
	if carry {
		o.scheduleAutoSaveLocked()
	}
	return nil
}

// SetTheme selects a registered theme.
func (o *Orchestrator) SetTheme(name string) error {
	if !o.catalog.Has(name) {
		return fmt.Errorf("orchestrator: set theme %q: %w", name, themes.ErrUnknownTheme)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resume.SetTheme(o.catalog.Normalize(name))
	o.scheduleAutoSaveLocked()
	return nil
}

// UpdateField writes one value.
func (o *Orchestrator) UpdateField(key formdata.Key, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.engine.UpdateField(key, value)
}

// UpdateFields writes several values in one turn, notifying per value.
func (o *Orchestrator) UpdateFields(values map[formdata.Key]any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]formdata.Key, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ElementID() < keys[j].ElementID() })
	for _, key := range keys {
		o.engine.UpdateField(key, values[key])
	}
}

// AddItem appends an empty item to a repeatable section.
func (o *Orchestrator) AddItem(sectionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.engine.AddItem(sectionID)
}

// RemoveItem removes one item and reindexes the rest.
func (o *Orchestrator) RemoveItem(sectionID string, index int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.engine.RemoveItem(sectionID, index)
}

// Toggle flips a section between expanded and collapsed.
func (o *Orchestrator) Toggle(sectionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.Toggle(sectionID)
}

// SetData replaces the form data.
func (o *Orchestrator) SetData(data formdata.Data) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.engine.SetData(data)
	o.resume.SetData(o.engine.Data())
	o.scheduleAutoSaveLocked()
}

// Data returns a copy of the form data.
func (o *Orchestrator) Data() formdata.Data {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.Data()
}

// Validate checks required sections and fields.
func (o *Orchestrator) Validate() form.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.Validate()
}

// Edit runs fn with exclusive access to the form engine. Changes made
// through the engine reach the resume and auto-save like any other edit.
func (o *Orchestrator) Edit(fn func(*form.Engine) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.engine.Template() == nil {
		return ErrNoTemplate
	}
	return fn(o.engine)
}

// ApplyForm writes submitted values for every control of the current form.
// lookup returns the submitted value for a control id. A checkbox missing
// from the submission is cleared; other missing controls are left alone. It
// returns the number of values that changed.
func (o *Orchestrator) ApplyForm(lookup func(id string) (string, bool)) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	var controls []*form.Control
	for _, section := range o.engine.Sections() {
		controls = append(controls, section.Controls...)
		for _, item := range section.Items {
			controls = append(controls, item.Controls...)
		}
	}

	changed := 0
	for _, ctrl := range controls {
		raw, ok := lookup(ctrl.ID)
		var value any = raw
		switch {
		case ctrl.Kind.IsBoolean():
			value = ok && formdata.Bool(raw)
			if value == ctrl.Checked() {
				continue
			}
		case !ok || raw == ctrl.Text():
			continue
		}
		o.engine.UpdateField(ctrl.Key, value)
		changed++
	}
	return changed
}
