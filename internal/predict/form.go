package predict

// Form is one prediction-form session: the raw text per column plus the
// errors of the last submit. Typing into a field clears that field's error
// without revalidating it; errors are recomputed only by Submit.
type Form struct {
	schema Schema
	opts   Options
	values map[string]string
	errs   FieldErrors
}

// NewForm starts a session with every schema column empty.
func NewForm(s Schema, opts Options) *Form {
	f := &Form{
		schema: s,
		opts:   opts,
		values: make(map[string]string, len(s.Columns)),
		errs:   FieldErrors{},
	}
	for _, c := range s.Columns {
		f.values[c] = ""
	}
	return f
}

// Schema returns the schema the form was built from.
func (f *Form) Schema() Schema { return f.schema }

// Set records the raw text for column and clears its error.
func (f *Form) Set(column, value string) {
	f.values[column] = value
	delete(f.errs, column)
}

// Value returns the raw text of column.
func (f *Form) Value(column string) string { return f.values[column] }

// Values returns a copy of all raw values.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Error returns the current error of column, or "".
func (f *Form) Error(column string) string { return f.errs[column] }

// Errors returns a copy of the current error map.
func (f *Form) Errors() FieldErrors {
	out := make(FieldErrors, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Submit validates every field. On failure the error map replaces the
// previous one and is returned; the caller must not send anything.
func (f *Form) Submit() (map[string]float64, error) {
	record, errs := ValidateWith(f.schema, f.values, f.opts)
	if errs != nil {
		f.errs = errs
		return nil, errs
	}
	f.errs = FieldErrors{}
	return record, nil
}
