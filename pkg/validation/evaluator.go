package validation

import (
	"strings"
	"time"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

// Failure describes a rule that rejected a value.
type Failure struct {
	Field   string               `json:"field,omitempty"`
	Kind    model.ValidationKind `json:"type"`
	Message string               `json:"message"`
}

// Predicate backs custom rules. It receives the field value and the rule so a
// predicate can read extra parameters from the rule definition.
type Predicate func(value any, rule model.ValidationRule) bool

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithPredicate registers a named predicate for custom rules. A custom rule
// selects its predicate through the rule value.
func WithPredicate(name string, fn Predicate) Option {
	return func(e *Evaluator) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		e.predicates[name] = fn
	}
}

// WithPredicateMessage sets the default message of custom rules naming
// predicate. "{param}" in template is replaced with the rule parameter.
func WithPredicateMessage(predicate, template string) Option {
	return func(e *Evaluator) {
		predicate = strings.TrimSpace(predicate)
		if predicate == "" {
			return
		}
		e.predicateMessages[predicate] = template
	}
}

// WithMessages overrides the default message templates per rule kind.
func WithMessages(messages map[model.ValidationKind]string) Option {
	return func(e *Evaluator) {
		for kind, msg := range messages {
			e.messages[kind] = msg
		}
	}
}

// Evaluator checks values against validation rules.
type Evaluator struct {
	predicates        map[string]Predicate
	messages          map[model.ValidationKind]string
	predicateMessages map[string]string
	patterns          *patternCache
}

// New returns an Evaluator without any custom predicates.
func New(options ...Option) *Evaluator {
	e := &Evaluator{
		predicates:        make(map[string]Predicate),
		messages:          defaultMessages(),
		predicateMessages: make(map[string]string),
		patterns:          newPatternCache(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Default returns an Evaluator with the built-in predicates (url, phone,
// creditCard, strongPassword, minAge, fileSize, fileType) and their messages
// registered ahead of the supplied options.
func Default(options ...Option) *Evaluator {
	builtins := []Option{
		WithPredicate(PredicateURL, IsURL),
		WithPredicate(PredicatePhone, IsPhone),
		WithPredicate(PredicateCreditCard, IsCreditCard),
		WithPredicate(PredicateStrongPassword, IsStrongPassword),
		WithPredicate(PredicateMinAge, MinAge(time.Now)),
		WithPredicate(PredicateFileSize, FileSize),
		WithPredicate(PredicateFileType, FileType),
	}
	for name, template := range defaultPredicateMessages() {
		builtins = append(builtins, WithPredicateMessage(name, template))
	}
	return New(append(builtins, options...)...)
}

// Evaluate runs every rule and returns the failures in declared order.
func (e *Evaluator) Evaluate(value any, fieldType model.FieldType, rules []model.ValidationRule) []Failure {
	var failures []Failure
	for _, rule := range rules {
		if e.Passes(value, fieldType, rule) {
			continue
		}
		failures = append(failures, Failure{
			Kind:    rule.Kind,
			Message: e.message(rule),
		})
	}
	return failures
}

// First returns the first failing rule, or nil when the value is valid.
func (e *Evaluator) First(value any, fieldType model.FieldType, rules []model.ValidationRule) *Failure {
	failures := e.Evaluate(value, fieldType, rules)
	if len(failures) == 0 {
		return nil
	}
	return &failures[0]
}

// Passes evaluates a single rule.
func (e *Evaluator) Passes(value any, fieldType model.FieldType, rule model.ValidationRule) bool {
	if rule.Kind == model.ValidationRequired {
		return !coerce.IsEmpty(value)
	}
	// Optional values are only checked once the user has entered something.
	if coerce.IsEmpty(value) {
		return true
	}

	switch rule.Kind {
	case model.ValidationEmail:
		return checkEmail(value)
	case model.ValidationMinLength:
		return checkLength(value, rule.Value, func(length, bound int) bool { return length >= bound })
	case model.ValidationMaxLength:
		return checkLength(value, rule.Value, func(length, bound int) bool { return length <= bound })
	case model.ValidationMin:
		return checkBound(value, rule.Value, fieldType, func(v, bound float64) bool { return v >= bound })
	case model.ValidationMax:
		return checkBound(value, rule.Value, fieldType, func(v, bound float64) bool { return v <= bound })
	case model.ValidationPattern:
		return e.checkPattern(value, rule.Value)
	case model.ValidationCustom:
		return e.checkCustom(value, rule)
	default:
		return true
	}
}
