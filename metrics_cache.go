package calendar

import "reflect"

// identityKey ключ кеша для ссылочных реализаций интерфейса
type identityKey struct {
	typ reflect.Type
	ptr uintptr
}

// metricsCacheKey возвращает ключ, по которому кешируются метрики для reg/mp.
// Указатели сравниваются по адресу, сравнимые значения по значению;
// для несравнимых значений (структуры со срезами, картами) ok == false.
func metricsCacheKey(v any) (key any, ok bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		return identityKey{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Invalid:
		return nil, false
	}

	if !rv.Comparable() {
		return nil, false
	}
	return v, true
}
