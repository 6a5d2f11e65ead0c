package savedata

import "reflect"

// newValue returns something the codec can decode into: a fresh *Elem when T
// is a pointer type, otherwise a *T.
func newValue[T any]() any {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	return new(T)
}

func derefIfNeeded[T any](v any) any {
	if reflect.TypeFor[T]().Kind() == reflect.Pointer {
		return v
	}
	return *(v.(*T))
}
