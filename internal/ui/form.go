package ui

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
)

// FormField is one text input of an interactive form
type FormField struct {
	Key         string
	Title       string
	Description string
	Placeholder string
	Value       string
	// Validate returns a message for a bad value, or "".
	Validate func(string) string
}

// RunInputForm shows one input per field and returns the entered text keyed
// by FormField.Key. Aborting the form returns apperr.ErrCancelled.
func RunInputForm(title, intro string, fields []FormField) (map[string]string, error) {
	values := make(map[string]*string, len(fields))
	inputs := make([]huh.Field, 0, len(fields))

	for _, f := range fields {
		v := f.Value
		values[f.Key] = &v
		validate := f.Validate
		inputs = append(inputs, huh.NewInput().
			Title(f.Title).
			Description(f.Description).
			Placeholder(f.Placeholder).
			Value(values[f.Key]).
			Validate(func(s string) error {
				if validate == nil {
					return nil
				}
				if msg := validate(s); msg != "" {
					return errors.New(msg)
				}
				return nil
			}))
	}

	groups := []*huh.Group{}
	if intro != "" {
		groups = append(groups, huh.NewGroup(huh.NewNote().Title(title).Description(intro)))
	}
	groups = append(groups, huh.NewGroup(inputs...))

	if err := runForm(huh.NewForm(groups...)); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = *v
	}
	return out, nil
}

// SelectOption is one choice of RunSelect
type SelectOption struct {
	Label string
	Value string
}

// RunSelect asks the user to pick one option and returns its value.
func RunSelect(title, description string, options []SelectOption, initial string) (string, error) {
	choice := initial
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Description(description).
			Options(opts...).
			Value(&choice),
	))
	if err := runForm(form); err != nil {
		return "", err
	}
	return choice, nil
}

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return apperr.ErrCancelled
		}
		return err
	}
	return nil
}
