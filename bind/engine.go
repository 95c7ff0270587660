package bind

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"xpathbind/node"
	"xpathbind/options"
	"xpathbind/primitive"
	"xpathbind/query"
)

// itemPath is evaluated against each element of an array of primitives or strings.
const itemPath = "./text()"

// resolved is the outcome of binding one member.
type resolved struct {
	value reflect.Value
	found bool // false when a nested target matched no node
	same  bool // value is the member's current instance, populated in place
}

// populate binds every member of target, an addressable struct, against ctx.
func (b *Binder) populate(ctx query.Node, target reflect.Value, crumb string) error {
	for _, m := range b.discoverer.Members(target.Type()) {
		if err := b.member(ctx, target, m, crumb+"."+shortName(m)); err != nil {
			return err
		}
	}

	return nil
}

func (b *Binder) member(ctx query.Node, target reflect.Value, m node.Member, crumb string) error {
	dispatch, err := b.discoverer.Validate(m)
	if err != nil {
		return newError(fmt.Sprintf("%s: invalid member", crumb), err)
	}

	b.log.Debug("binding member",
		slog.String("member", crumb),
		slog.String("path", m.Directive.Path),
		slog.String("dispatch", dispatch.String()))

	if m.IsSetter() {
		return b.setter(ctx, target, m, dispatch, crumb)
	}

	field, err := wrapValue(
		func() string { return fmt.Sprintf("%s: get field on %s failed", crumb, node.TypeName(target.Type())) },
		func() (reflect.Value, error) { return fieldByIndex(target, m.Index) })
	if err != nil {
		return err
	}

	res, err := b.resolve(ctx, field, m.Type, m.Directive, dispatch, crumb)
	if err != nil {
		return err
	}

	if !res.found || res.same {
		return nil
	}

	if !field.CanSet() {
		return newError(fmt.Sprintf("%s: cannot set field on %s", crumb, node.TypeName(target.Type())), ErrUnexported)
	}

	return wrap(
		func() string { return fmt.Sprintf("%s: set field on %s failed", crumb, node.TypeName(target.Type())) },
		func() error { field.Set(res.value); return nil })
}

func (b *Binder) setter(ctx query.Node, target reflect.Value, m node.Member, dispatch node.DispatcherEnum, crumb string) error {
	recv, err := wrapValue(
		func() string { return fmt.Sprintf("%s: get receiver on %s failed", crumb, node.TypeName(target.Type())) },
		func() (reflect.Value, error) { return receiverByIndex(target, m.Index) })
	if err != nil {
		return err
	}

	call := func(arg reflect.Value) error {
		return wrap(
			func() string { return fmt.Sprintf("invoke %s on %s failed", crumb, node.TypeName(recv.Type())) },
			func() error { return m.Setter.Call(recv, arg) })
	}

	if m.Type == nil {
		return call(reflect.Value{})
	}

	res, err := b.resolve(ctx, reflect.Value{}, m.Type, m.Directive, dispatch, crumb)
	if err != nil {
		return err
	}

	if !res.found {
		return nil
	}

	return call(res.value)
}

// resolve produces the value of a member of type t. cur is the member's
// current value, invalid for setters.
func (b *Binder) resolve(
	ctx query.Node, cur reflect.Value, t reflect.Type, dir node.Directive, dispatch node.DispatcherEnum, crumb string,
) (resolved, error) {
	switch dispatch {
	case node.DispatcherPrimitive:
		res, err := b.evaluate(dir.Path, ctx, query.ShapeString, crumb)
		if err != nil {
			return resolved{}, err
		}

		v, err := b.coerce(t, dir, strings.TrimSpace(res.String), crumb)
		if err != nil {
			return resolved{}, err
		}

		return resolved{value: v, found: true}, nil

	case node.DispatcherString:
		res, err := b.evaluate(dir.Path, ctx, query.ShapeString, crumb)
		if err != nil {
			return resolved{}, err
		}

		return resolved{value: text(t, res.String, dir.Trim), found: true}, nil

	case node.DispatcherArray:
		res, err := b.evaluate(dir.Path, ctx, query.ShapeNodeSet, crumb)
		if err != nil {
			return resolved{}, err
		}

		v, err := b.array(res.Nodes, t, dir, crumb)
		if err != nil {
			return resolved{}, err
		}

		return resolved{value: v, found: true}, nil

	case node.DispatcherTarget:
		res, err := b.evaluate(dir.Path, ctx, query.ShapeNode, crumb)
		if err != nil {
			return resolved{}, err
		}

		if !res.Found {
			b.log.Debug("no node matched, member left unchanged",
				slog.String("member", crumb),
				slog.String("path", dir.Path))
			return resolved{}, nil
		}

		return b.target(res.Node, cur, t, dir, crumb)

	default:
		return resolved{}, newError(fmt.Sprintf("%s: unsupported type %s", crumb, node.TypeName(t)), ErrUnsupportedType)
	}
}

// target binds a nested struct, reusing the current instance when appending.
func (b *Binder) target(n query.Node, cur reflect.Value, t reflect.Type, dir node.Directive, crumb string) (resolved, error) {
	if t.Kind() == reflect.Ptr {
		inst := reflect.New(t.Elem())
		same := false
		if dir.Append && cur.IsValid() && !cur.IsNil() {
			inst, same = cur, true
		}

		if err := b.populate(n, inst.Elem(), crumb); err != nil {
			return resolved{}, err
		}

		return resolved{value: inst, found: true, same: same}, nil
	}

	if dir.Append && cur.IsValid() && cur.CanAddr() {
		if err := b.populate(n, cur, crumb); err != nil {
			return resolved{}, err
		}

		return resolved{value: cur, found: true, same: true}, nil
	}

	inst := reflect.New(t).Elem()
	if err := b.populate(n, inst, crumb); err != nil {
		return resolved{}, err
	}

	return resolved{value: inst, found: true}, nil
}

// array builds a slice sized to the node list, or fills a fixed array.
func (b *Binder) array(nodes []query.Node, t reflect.Type, dir node.Directive, crumb string) (reflect.Value, error) {
	at := node.Base(t)
	n := len(nodes)

	var out reflect.Value
	switch at.Kind() {
	case reflect.Array:
		if !b.allowed.Has(options.CategorySafeArray) && !b.allowed.Has(options.CategoryUnsafeArray) {
			return reflect.Value{}, newError(fmt.Sprintf("%s: bind %s failed", crumb, node.TypeName(at)), ErrFixedArray)
		}

		if n > at.Len() {
			if !b.allowed.Has(options.CategoryUnsafeArray) {
				return reflect.Value{}, newError(
					fmt.Sprintf("%s: %d nodes for %s", crumb, n, node.TypeName(at)), ErrArrayOverflow)
			}

			b.log.Debug("node list truncated",
				slog.String("member", crumb),
				slog.Int("nodes", n),
				slog.Int("len", at.Len()))
			n = at.Len()
		}

		out = reflect.New(at).Elem()
	default:
		out = reflect.MakeSlice(at, n, n)
	}

	for i := 0; i < n; i++ {
		itemCrumb := fmt.Sprintf("%s[%d]", crumb, i)

		item, err := b.item(nodes[i], at.Elem(), dir, itemCrumb)
		if err != nil {
			return reflect.Value{}, err
		}

		err = wrap(
			func() string { return fmt.Sprintf("%s: set array item failed", itemCrumb) },
			func() error { out.Index(i).Set(item); return nil })
		if err != nil {
			return reflect.Value{}, err
		}
	}

	return ptrTo(out, t), nil
}

// item binds one array element. Primitive and string items read the node's
// own text, the member's path is not used.
func (b *Binder) item(n query.Node, elem reflect.Type, dir node.Directive, crumb string) (reflect.Value, error) {
	switch b.discoverer.Classify(elem) {
	case node.DispatcherPrimitive:
		s, err := b.itemText(n, crumb)
		if err != nil {
			return reflect.Value{}, err
		}
		return b.coerce(elem, dir, strings.TrimSpace(s), crumb)

	case node.DispatcherString:
		s, err := b.itemText(n, crumb)
		if err != nil {
			return reflect.Value{}, err
		}
		return text(elem, s, dir.Trim), nil

	case node.DispatcherTarget:
		res, err := b.target(n, reflect.Value{}, elem, node.Directive{}, crumb)
		if err != nil {
			return reflect.Value{}, err
		}
		return res.value, nil

	case node.DispatcherArray:
		return reflect.Value{}, newError(fmt.Sprintf("%s: bind %s failed", crumb, node.TypeName(elem)), ErrArrayOfArray)

	default:
		return reflect.Value{}, newError(fmt.Sprintf("%s: unsupported type %s", crumb, node.TypeName(elem)), ErrUnsupportedType)
	}
}

// itemText reads the direct text of an element, or the value of an attribute
// or text node.
func (b *Binder) itemText(n query.Node, crumb string) (string, error) {
	if !n.IsElement() {
		return n.Text(), nil
	}

	res, err := b.evaluate(itemPath, n, query.ShapeString, crumb)
	if err != nil {
		return "", err
	}

	return res.String, nil
}

func (b *Binder) evaluate(expr string, ctx query.Node, shape query.Shape, crumb string) (query.Result, error) {
	return wrapValue(
		func() string { return fmt.Sprintf("%s: evaluate %s %q failed", crumb, shape, expr) },
		func() (query.Result, error) { return b.eval.Evaluate(expr, ctx, shape) })
}

func (b *Binder) coerce(t reflect.Type, dir node.Directive, s string, crumb string) (reflect.Value, error) {
	kind := node.PrimitiveKind(t, dir)

	v, err := wrapValue(
		func() string { return fmt.Sprintf("%s: parse '%s' to %s failed", crumb, s, node.TypeName(t)) },
		func() (reflect.Value, error) { return primitive.Parse(kind, node.Base(t), s, b.allowed) })
	if err != nil {
		return reflect.Value{}, err
	}

	return ptrTo(v, t), nil
}

func text(t reflect.Type, s string, trim bool) reflect.Value {
	if trim {
		s = strings.TrimSpace(s)
	}

	v := reflect.New(node.Base(t)).Elem()
	v.SetString(s)

	return ptrTo(v, t)
}

// ptrTo returns v as a value of t, boxing it when t is a pointer type.
func ptrTo(v reflect.Value, t reflect.Type) reflect.Value {
	if t.Kind() != reflect.Ptr {
		return v
	}

	p := reflect.New(t.Elem())
	p.Elem().Set(v)

	return p
}

// fieldByIndex is reflect.Value.FieldByIndex that allocates nil embedded pointers.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 {
			var err error
			if v, err = deref(v); err != nil {
				return reflect.Value{}, err
			}
		}
		v = v.Field(x)
	}

	return v, nil
}

// receiverByIndex walks to the struct owning a setter.
func receiverByIndex(v reflect.Value, index []int) (reflect.Value, error) {
	v, err := fieldByIndex(v, index)
	if err != nil {
		return reflect.Value{}, err
	}

	return deref(v)
}

func deref(v reflect.Value) (reflect.Value, error) {
	if v.Kind() != reflect.Ptr {
		return v, nil
	}

	if v.IsNil() {
		if !v.CanSet() {
			return reflect.Value{}, fmt.Errorf("%w: cannot allocate embedded %s", ErrUnexported, node.TypeName(v.Type()))
		}
		v.Set(reflect.New(v.Type().Elem()))
	}

	return v.Elem(), nil
}

// shortName drops the type prefix from a member name.
func shortName(m node.Member) string {
	_, name, ok := strings.Cut(m.Name, ".")
	if !ok {
		return m.Name
	}
	return name
}
