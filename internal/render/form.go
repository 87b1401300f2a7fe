package render

import "net/url"

// NonFieldKey holds errors that belong to the form as a whole.
const NonFieldKey = "__all__"

// Form carries submitted values and their errors back to a page.
type Form struct {
	Values map[string]string
	Errors map[string]string
}

// NewForm builds a form pre-filled with values.
func NewForm(values map[string]string) *Form {
	if values == nil {
		values = map[string]string{}
	}
	return &Form{Values: values, Errors: map[string]string{}}
}

// FormFromValues copies the named fields out of submitted values.
func FormFromValues(v url.Values, fields ...string) *Form {
	f := NewForm(nil)
	for _, name := range fields {
		f.Values[name] = v.Get(name)
	}
	return f
}

// Value returns the submitted value of a field.
func (f *Form) Value(name string) string {
	if f == nil {
		return ""
	}
	return f.Values[name]
}

// Error returns the error bound to a field, if any.
func (f *Form) Error(name string) string {
	if f == nil {
		return ""
	}
	return f.Errors[name]
}

// NonFieldError returns the form-wide error, if any.
func (f *Form) NonFieldError() string {
	return f.Error(NonFieldKey)
}

// SetError binds msg to a field.
func (f *Form) SetError(name, msg string) *Form {
	f.Errors[name] = msg
	return f
}

// Valid reports whether the form has no errors.
func (f *Form) Valid() bool {
	return f == nil || len(f.Errors) == 0
}
