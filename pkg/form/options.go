package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/validation"
	"github.com/goliatone/go-formengine/pkg/visibility"
)

// Option configures Assemble.
type Option func(*options)

type options struct {
	logger         *zap.Logger
	evaluator      *validation.Evaluator
	visibility     visibility.Evaluator
	formValidators []FormValidator
}

func defaultOptions() options {
	return options{
		logger:     zap.NewNop(),
		evaluator:  validation.Default(),
		visibility: visibility.Conditional{},
	}
}

// WithLogger attaches a logger. Instances log configuration rejections and
// ignored patch keys at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEvaluator replaces the rule evaluator, typically to register custom
// predicates.
func WithEvaluator(eval *validation.Evaluator) Option {
	return func(o *options) {
		if eval != nil {
			o.evaluator = eval
		}
	}
}

// WithVisibility replaces the conditional display evaluator.
func WithVisibility(eval visibility.Evaluator) Option {
	return func(o *options) {
		if eval != nil {
			o.visibility = eval
		}
	}
}

// WithFormValidator registers cross-field validators evaluated by
// Instance.ValidateForm.
func WithFormValidator(validators ...FormValidator) Option {
	return func(o *options) {
		for _, v := range validators {
			if v != nil {
				o.formValidators = append(o.formValidators, v)
			}
		}
	}
}
