package node

import "reflect"

// Target marks a struct as a bindable target. Embed it in structs that have no
// directives of their own but must still be accepted as nested members.
type Target struct{}

func (Target) xpathTarget() {}

type targetMarker interface{ xpathTarget() }

var targetMarkerType = reflect.TypeFor[targetMarker]()

// SetterTag attaches a directive tag to a method of the same type.
type SetterTag struct {
	Method string
	Tag    string
}

// SetterTagger is implemented by targets that bind through methods.
// The list is read once per type from a zero value, order is binding order.
//
// Each list belongs to the type declaring it and binds against that type, so
// setters of an embedded struct follow the embedding type's own members. A list
// reached only through method promotion is not read twice. A type redeclaring
// XPathSetters with the very list of an embedded type is treated as inheriting it.
type SetterTagger interface {
	XPathSetters() []SetterTag
}

var setterTaggerType = reflect.TypeFor[SetterTagger]()

// ownSetters returns the setter list declared on t itself.
func ownSetters(t reflect.Type) []SetterTag {
	if !reflect.PointerTo(t).Implements(setterTaggerType) {
		return nil
	}

	own := setterTags(t)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		bt := Base(f.Type)
		if bt.Kind() != reflect.Struct || !reflect.PointerTo(bt).Implements(setterTaggerType) {
			continue
		}

		if reflect.DeepEqual(own, setterTags(bt)) {
			return nil
		}
	}

	return own
}

// setterTags reads the list from a zero t whose embedded pointers are allocated,
// so promoted methods never see a nil receiver.
func setterTags(t reflect.Type) []SetterTag {
	v := reflect.New(t)
	allocEmbedded(v.Elem(), map[reflect.Type]bool{})

	return v.Interface().(SetterTagger).XPathSetters()
}

func allocEmbedded(v reflect.Value, seen map[reflect.Type]bool) {
	t := v.Type()
	if seen[t] {
		return
	}
	seen[t] = true

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		fv := v.Field(i)
		switch {
		case f.Type.Kind() == reflect.Struct:
			allocEmbedded(fv, seen)
		case f.Type.Kind() == reflect.Ptr && f.Type.Elem().Kind() == reflect.Struct && fv.CanSet():
			fv.Set(reflect.New(f.Type.Elem()))
			allocEmbedded(fv.Elem(), seen)
		}
	}
}

