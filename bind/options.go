package bind

import (
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"xpathbind/node"
	"xpathbind/options"
	"xpathbind/query"
)

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger receiving per-member debug records.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithEvaluator replaces the XPath evaluator.
func WithEvaluator(e query.Evaluator) Option {
	return func(b *Binder) {
		if e != nil {
			b.eval = e
		}
	}
}

// WithParser replaces the document parser used by Bind and BindInto.
func WithParser(p query.Parser) Option {
	return func(b *Binder) {
		if p != nil {
			b.parse = p
		}
	}
}

// WithHTML parses input as HTML instead of XML.
func WithHTML() Option {
	return WithParser(query.ParseHTML)
}

// WithCategories sets the text conversions the binder may perform.
func WithCategories(c options.CategoryEnum) Option {
	return func(b *Binder) {
		b.allowed = c
	}
}

// WithOverlay attaches directives to types without struct tags.
func WithOverlay(o node.Overlay) Option {
	return func(b *Binder) {
		b.discoverer = node.NewDiscoverer(o)
	}
}

// WithValidator validates the top-level target after a successful bind.
func WithValidator(v StructValidator) Option {
	return func(b *Binder) {
		b.validator = v
	}
}

// StructValidator checks a fully bound target.
type StructValidator interface {
	// ValidateStruct validates the given struct pointer.
	ValidateStruct(any) error
	// Engine returns the underlying validator instance.
	Engine() any
}

// DefaultValidator validates `validate` struct tags with go-playground/validator.
var DefaultValidator StructValidator = &defaultValidator{}

type defaultValidator struct {
	one      sync.Once
	validate *validator.Validate
}

func (d *defaultValidator) ValidateStruct(obj any) error {
	d.lazyInit()
	return d.validate.Struct(obj)
}

func (d *defaultValidator) Engine() any {
	d.lazyInit()
	return d.validate
}

func (d *defaultValidator) lazyInit() {
	d.one.Do(func() {
		d.validate = validator.New(validator.WithRequiredStructEnabled())
	})
}
