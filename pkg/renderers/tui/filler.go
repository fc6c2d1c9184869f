// Package tui fills a Form Engine from the terminal. Each section is prompted
// in template order; repeatable sections ask whether to add another item
// after each one.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/form"
	"github.com/goliatone/go-resumegen/pkg/formdata"
	"github.com/goliatone/go-resumegen/pkg/schema"
)

// Filler drives prompts against a form.Engine.
type Filler struct {
	driver   PromptDriver
	theme    Theme
	only     map[string]struct{}
	maxItems int
	logger   *zap.Logger
}

// New returns a Filler using the survey driver unless overridden.
func New(options ...Option) *Filler {
	f := &Filler{
		driver: NewSurveyDriver(nil),
		theme:  DefaultTheme,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every control of engine and writes the answers back
// through UpdateField. Unchanged answers are not written. It returns the
// validation result of the filled form and reports each error through the
// driver.
func (f *Filler) Fill(ctx context.Context, engine *form.Engine) (form.Result, error) {
	if engine == nil || engine.Template() == nil {
		return form.Result{}, ErrNoForm
	}

	for _, section := range engine.Sections() {
		if !f.wanted(section.Schema.ID) {
			continue
		}
		if err := f.driver.Info(ctx, f.theme.SectionPrefix+section.Schema.Name); err != nil {
			return form.Result{}, err
		}
		if err := f.fillSection(ctx, engine, section); err != nil {
			return form.Result{}, err
		}
	}

	result := engine.Validate()
	for _, message := range result.Errors {
		if err := f.driver.Info(ctx, f.theme.ErrorPrefix+message); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (f *Filler) wanted(id string) bool {
	if f.only == nil {
		return true
	}
	_, ok := f.only[id]
	return ok
}

func (f *Filler) fillSection(ctx context.Context, engine *form.Engine, section *form.SectionState) error {
	if !section.Repeatable() {
		return f.fillControls(ctx, engine, section.Controls)
	}

	for i := 0; ; i++ {
		if i >= len(section.Items) {
			engine.AddItem(section.Schema.ID)
		}
		item := section.Items[i]
		if err := f.driver.Info(ctx, f.theme.InfoPrefix+item.Title); err != nil {
			return err
		}
		if err := f.fillControls(ctx, engine, item.Controls); err != nil {
			return err
		}

		if f.maxItems > 0 && i+1 >= f.maxItems {
			break
		}
		if i+1 < len(section.Items) {
			continue
		}
		more, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add another %s?", section.Schema.Name),
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	return nil
}

func (f *Filler) fillControls(ctx context.Context, engine *form.Engine, controls []*form.Control) error {
	for _, control := range controls {
		value, err := f.ask(ctx, control)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return err
			}
			return fmt.Errorf("tui: prompt %s: %w", control.ID, err)
		}
		if formdata.Normalize(value) == formdata.Normalize(control.Value) {
			continue
		}
		f.logger.Debug("field answered", zap.String("field", control.ID))
		engine.UpdateField(control.Key, value)
	}
	return nil
}

func (f *Filler) ask(ctx context.Context, control *form.Control) (any, error) {
	message := control.Label
	if control.Required {
		message += " *"
	}

	switch {
	case control.Kind.IsBoolean():
		return f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: control.Checked()})
	case control.Kind == schema.FieldSelect && len(control.Options) > 0:
		labels := make([]string, len(control.Options))
		current := 0
		for i, opt := range control.Options {
			labels[i] = opt.Label
			if labels[i] == "" {
				labels[i] = opt.Value
			}
			if opt.Value == control.Text() {
				current = i
			}
		}
		idx, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: current})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(control.Options) {
			return control.Value, nil
		}
		return control.Options[idx].Value, nil
	case control.Kind.IsMultiline():
		return f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: control.Text(), Help: control.Placeholder})
	default:
		return f.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   control.Text(),
			Help:      control.Placeholder,
			Validator: validatorFor(control),
		})
	}
}

func validatorFor(control *form.Control) func(string) error {
	required := control.Required
	kind := control.Kind
	return func(answer string) error {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			if required {
				return errors.New("this field is required")
			}
			return nil
		}
		if kind == schema.FieldEmail {
			if _, err := mail.ParseAddress(answer); err != nil {
				return errors.New("enter a valid email address")
			}
		}
		return nil
	}
}
