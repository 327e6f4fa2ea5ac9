package model

// Decorator adjusts a form configuration after it has been loaded and before
// it is assembled.
type Decorator interface {
	Decorate(*FormConfig) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormConfig) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormConfig) error {
	return fn(form)
}

// FillLabels returns a decorator that derives missing field labels from the
// field name using labeler. A nil labeler falls back to DefaultLabeler.
func FillLabels(labeler func(string) string) Decorator {
	if labeler == nil {
		labeler = DefaultLabeler
	}
	return DecoratorFunc(func(form *FormConfig) error {
		for si := range form.Sections {
			fields := form.Sections[si].Fields
			for fi := range fields {
				if fields[fi].Label == "" {
					fields[fi].Label = labeler(fields[fi].Name)
				}
			}
		}
		return nil
	})
}
