package pipeline

import (
	"fmt"

	"github.com/goccy/go-reflect"
)

// CacheKey возвращает полное имя типа запроса вида "<путь пакета>.<Имя>".
// Указатели разыменовываются, поэтому *Q и Q дают один ключ.
//
// Ключ зависит только от типа, а не от значений полей: два запроса одного типа
// с разными полями разделяют одну запись кеша.
func CacheKey(q any) string {
	t := reflect.TypeOf(q)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// isNil сообщает, отсутствует ли запрос.
func isNil(q any) bool {
	if q == nil {
		return true
	}
	v := reflect.ValueOf(q)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// getRequestTypeAndID извлекает короткое имя типа и ID запроса с помощью рефлексии.
// ID берется из поля ID, если оно есть.
func getRequestTypeAndID(q any) (string, string) {
	val := reflect.ValueOf(q)
	if !val.IsValid() {
		return "nil", "unknown"
	}
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return val.Type().String(), "unknown"
		}
		val = val.Elem()
	}

	requestType := val.Type().Name()
	if requestType == "" {
		requestType = val.Type().String()
	}
	requestID := "unknown"

	if val.Kind() == reflect.Struct {
		if idField := val.FieldByName("ID"); idField.IsValid() && idField.CanInterface() {
			requestID = fmt.Sprintf("%v", idField.Interface())
		}
	}

	return requestType, requestID
}
