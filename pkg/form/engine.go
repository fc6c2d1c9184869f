package form

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// Engine maintains form state for one template. It is not safe for concurrent
// use; drivers serialise access per editing session.
type Engine struct {
	template *schema.Template
	sections []*SectionState
	index    map[string]*SectionState
	data     formdata.Data

	onChange ChangeFunc
	onToggle ToggleFunc
	logger   *zap.Logger
}

// New constructs an empty Engine. Call Init before use.
func New(options ...Option) *Engine {
	e := &Engine{
		index:  make(map[string]*SectionState),
		data:   formdata.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Init discards all prior state and builds one SectionState per template
// section in order. Every repeatable section starts with a single empty item.
// The template is copied and normalised; malformed templates return an error
// and leave the engine empty.
func (e *Engine) Init(tpl *schema.Template) error {
	e.Reset()

	normalized := tpl.Clone()
	if err := schema.Normalize(normalized); err != nil {
		return fmt.Errorf("form: init: %w", err)
	}

	e.template = normalized
	for _, section := range normalized.Sections {
		state := &SectionState{Schema: section, Expanded: true}
		if section.Repeatable {
			state.Items = []*ItemState{}
		} else {
			state.Controls = buildControls(section, formdata.NoItem)
		}
		e.sections = append(e.sections, state)
		e.index[section.ID] = state
		if section.Repeatable {
			e.appendItem(state, formdata.Fields{})
		}
	}

	e.logger.Debug("form initialised",
		zap.String("template", normalized.ID),
		zap.Int("sections", len(normalized.Sections)),
	)
	return nil
}

// Reset drops the template, runtime state and data.
func (e *Engine) Reset() {
	e.template = nil
	e.sections = nil
	e.index = make(map[string]*SectionState)
	e.data = formdata.New()
}

// Template returns the normalised template the engine was initialised with.
func (e *Engine) Template() *schema.Template {
	return e.template
}

// Sections returns runtime state in template order. Callers must treat the
// returned values as read-only.
func (e *Engine) Sections() []*SectionState {
	return e.sections
}

// Section returns runtime state for id.
func (e *Engine) Section(id string) (*SectionState, bool) {
	state, ok := e.index[id]
	return state, ok
}

// OnChange registers the change observer, replacing any previous one.
func (e *Engine) OnChange(fn ChangeFunc) {
	e.onChange = fn
}

// OnToggle registers the section toggle observer, replacing any previous one.
func (e *Engine) OnToggle(fn ToggleFunc) {
	e.onToggle = fn
}

// AddItem appends a new empty item to a repeatable section. Unknown or
// non-repeatable sections are ignored.
func (e *Engine) AddItem(sectionID string) {
	state, ok := e.index[sectionID]
	if !ok || !state.Repeatable() {
		return
	}
	e.appendItem(state, formdata.Fields{})
	e.notifyChange()
}

func (e *Engine) appendItem(state *SectionState, fields formdata.Fields) *ItemState {
	item := newItem(state.Schema, len(state.Items), fields)
	state.Items = append(state.Items, item)

	entry := e.entry(state.Schema.ID)
	if entry.Items == nil {
		entry.Items = make(map[int]formdata.Fields)
	}
	entry.Items[item.Index] = fields
	return item
}

// RemoveItem deletes the item at index from a repeatable section and
// reindexes the remaining items to 0..n-1 in their previous order. Each
// remaining item keeps its own data under its new index.
func (e *Engine) RemoveItem(sectionID string, index int) {
	state, ok := e.index[sectionID]
	if !ok || !state.Repeatable() {
		return
	}

	pos := -1
	for i, item := range state.Items {
		if item.Index == index {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}

	remaining := make([]*ItemState, 0, len(state.Items)-1)
	remaining = append(remaining, state.Items[:pos]...)
	remaining = append(remaining, state.Items[pos+1:]...)
	if entry := e.data[sectionID]; entry != nil {
		delete(entry.Items, index)
	}

	e.reindex(state, remaining)
	e.notifyChange()
}

func (e *Engine) reindex(state *SectionState, items []*ItemState) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Index < items[j].Index
	})

	rebuilt := make(map[int]formdata.Fields, len(items))
	for newIndex, item := range items {
		if item.Index != newIndex {
			item.assignIndex(state.Schema, newIndex)
		}
		rebuilt[newIndex] = item.fields
	}
	state.Items = items

	entry := e.entry(state.Schema.ID)
	if dropped := len(entry.Items) - len(items); dropped > 0 {
		e.logger.Debug("dropping item data without a form item",
			zap.String("section", state.Schema.ID),
			zap.Int("slots", dropped),
		)
	}
	entry.Items = rebuilt
}

// UpdateField writes value at key and notifies the change observer. Keys for
// known sections are aligned with the section shape: non-repeatable sections
// ignore the item index and repeatable sections default to item 0. Keys for
// unknown sections are stored as given.
func (e *Engine) UpdateField(key formdata.Key, value any) {
	state, known := e.index[key.Section]
	if known {
		if state.Repeatable() && !key.HasItem() {
			key.Item = 0
		}
		if !state.Repeatable() {
			key.Item = formdata.NoItem
		}
		if field, ok := state.Schema.Field(key.Field); ok {
			value = coerce(field.Kind, value)
		}
	}

	if known && state.Repeatable() {
		if item := itemAt(state, key.Item); item != nil {
			item.fields[key.Field] = formdata.Normalize(value)
			e.entry(key.Section).Items[key.Item] = item.fields
			if ctrl := item.Control(key.Field); ctrl != nil {
				ctrl.Value = coerce(ctrl.Kind, value)
			}
			e.notifyChange()
			return
		}
	}

	e.data.Set(key, value)
	if known && !state.Repeatable() {
		if ctrl := state.Control(key.Field); ctrl != nil {
			ctrl.Value = coerce(ctrl.Kind, value)
		}
	}
	e.notifyChange()
}

func itemAt(state *SectionState, index int) *ItemState {
	for _, item := range state.Items {
		if item.Index == index {
			return item
		}
	}
	return nil
}

// SetData replaces the form data and rebuilds the UI for every section present
// in data. Repeatable sections get one item per incoming index in ascending
// order, compacted to 0..n-1. Template sections absent from data keep their
// current items and values.
func (e *Engine) SetData(data formdata.Data) {
	incoming := data.Clone()
	if incoming == nil {
		incoming = formdata.New()
	}

	for _, state := range e.sections {
		id := state.Schema.ID
		entry, present := incoming[id]
		if !present {
			if current, ok := e.data[id]; ok {
				incoming[id] = current
			}
			continue
		}
		if entry == nil {
			entry = &formdata.Entry{}
			incoming[id] = entry
		}

		if state.Repeatable() {
			e.populateItems(state, entry)
			continue
		}
		state.Controls = buildControls(state.Schema, formdata.NoItem)
		writeControls(state.Controls, entry.Fields)
	}

	e.data = incoming
}

func (e *Engine) populateItems(state *SectionState, entry *formdata.Entry) {
	var slots []formdata.Fields
	switch {
	case entry.Items != nil:
		for _, idx := range entry.Indices() {
			fields := entry.Items[idx]
			if fields == nil {
				fields = formdata.Fields{}
			}
			slots = append(slots, fields)
		}
	case len(entry.Fields) > 0:
		slots = append(slots, entry.Fields)
	}

	state.Items = make([]*ItemState, 0, len(slots))
	entry.Fields = nil
	entry.Items = make(map[int]formdata.Fields, len(slots))
	for i, fields := range slots {
		item := newItem(state.Schema, i, fields)
		writeControls(item.Controls, fields)
		state.Items = append(state.Items, item)
		entry.Items[i] = fields
	}
}

// Data returns an independent copy of the form data.
func (e *Engine) Data() formdata.Data {
	return e.data.Clone()
}

// Toggle flips the expanded state of a section and notifies the toggle
// observer. It returns the new state; unknown sections return false.
func (e *Engine) Toggle(sectionID string) bool {
	state, ok := e.index[sectionID]
	if !ok {
		return false
	}
	state.Expanded = !state.Expanded
	if e.onToggle != nil {
		e.onToggle(sectionID, state.Expanded)
	}
	return state.Expanded
}

// Expanded reports whether a section is expanded.
func (e *Engine) Expanded(sectionID string) bool {
	state, ok := e.index[sectionID]
	return ok && state.Expanded
}

func (e *Engine) entry(sectionID string) *formdata.Entry {
	entry := e.data[sectionID]
	if entry == nil {
		entry = &formdata.Entry{}
		e.data[sectionID] = entry
	}
	return entry
}

func (e *Engine) notifyChange() {
	if e.onChange != nil {
		e.onChange(e.Data())
	}
}
