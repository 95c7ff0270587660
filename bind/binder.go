package bind

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"xpathbind/node"
	"xpathbind/options"
	"xpathbind/query"
)

var sharedDiscoverer = node.NewDiscoverer(nil)

// Binder binds documents into structs. A Binder holds no per-call state and is
// safe for concurrent use on distinct targets.
type Binder struct {
	log        *slog.Logger
	eval       query.Evaluator
	parse      query.Parser
	allowed    options.CategoryEnum
	discoverer *node.Discoverer
	validator  StructValidator
}

// New creates a Binder. Without options it parses XML, evaluates with
// query.XPath, allows options.CategoryDefault conversions and logs nothing.
func New(opts ...Option) *Binder {
	b := &Binder{
		log:        slog.New(slog.DiscardHandler),
		eval:       query.XPath{},
		parse:      query.ParseXML,
		allowed:    options.CategoryDefault,
		discoverer: sharedDiscoverer,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Bind allocates a T and populates it from r.
func Bind[T any](r io.Reader, opts ...Option) (*T, error) {
	return BindWith[T](New(opts...), r)
}

// BindInto populates target, a non-nil pointer to a struct, from r.
func BindInto(r io.Reader, target any, opts ...Option) error {
	return New(opts...).BindInto(r, target)
}

// BindNode populates target from an already parsed document.
func BindNode(root query.Node, target any, opts ...Option) error {
	return New(opts...).BindNode(root, target)
}

// BindWith allocates a T and populates it from r using b.
func BindWith[T any](b *Binder, r io.Reader) (*T, error) {
	if isNil(r) {
		return nil, newError("bind failed", ErrNilInput)
	}

	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, newError(fmt.Sprintf("create %s failed", node.TypeName(t)), ErrNotStructPointer)
	}

	out := new(T)
	if err := b.BindInto(r, out); err != nil {
		return nil, err
	}

	return out, nil
}

// BindInto populates target, a non-nil pointer to a struct, from r.
func (b *Binder) BindInto(r io.Reader, target any) error {
	if isNil(r) {
		return newError("bind failed", ErrNilInput)
	}

	rv, err := targetValue(target)
	if err != nil {
		return err
	}

	root, err := wrapValue(
		func() string { return "parse document failed" },
		func() (query.Node, error) { return b.parse(r) })
	if err != nil {
		return err
	}

	return b.bind(root, rv)
}

// BindNode populates target from an already parsed document. The document is
// only read, so many binds may share it.
func (b *Binder) BindNode(root query.Node, target any) error {
	if root.IsZero() {
		return newError("bind failed", ErrNilInput)
	}

	rv, err := targetValue(target)
	if err != nil {
		return err
	}

	return b.bind(root, rv)
}

func (b *Binder) bind(root query.Node, rv reflect.Value) error {
	crumb := rv.Type().Name()
	if crumb == "" {
		crumb = "<root>"
	}

	b.log.Debug("bind started", slog.String("target", node.TypeName(rv.Type())))

	if err := b.populate(root, rv, crumb); err != nil {
		return err
	}

	if b.validator != nil {
		err := wrap(
			func() string { return fmt.Sprintf("validate %s failed", crumb) },
			func() error { return b.validator.ValidateStruct(rv.Addr().Interface()) })
		if err != nil {
			return err
		}
	}

	b.log.Debug("bind finished", slog.String("target", node.TypeName(rv.Type())))

	return nil
}

// isNil reports whether r is absent, including typed nils such as (*os.File)(nil).
func isNil(r io.Reader) bool {
	if r == nil {
		return true
	}

	switch v := reflect.ValueOf(r); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}

	return false
}

func targetValue(target any) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, newError("bind failed", ErrNilTarget)
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Type().Elem().Kind() != reflect.Struct {
		return reflect.Value{}, newError(fmt.Sprintf("bind into %T failed", target), ErrNotStructPointer)
	}

	if rv.IsNil() {
		return reflect.Value{}, newError(fmt.Sprintf("bind into %T failed", target), ErrNilTarget)
	}

	return rv.Elem(), nil
}
