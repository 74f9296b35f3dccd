package model

import (
	"reflect"
	"testing"
	"time"
)

func TestVehicleDBTags(t *testing.T) {
	// получаем тип структуры Vehicle для анализа рефлексией
	typ := reflect.TypeOf(Vehicle{})
	// проверяем поле DateAdded и его теги db/json
	field, found := typ.FieldByName("DateAdded")
	if !found {
		t.Errorf("Поле DateAdded не найдено в структуре Vehicle")
	}
	// ожидаем, что тег db соответствует столбцу date_added в базе
	if field.Tag.Get("db") != "date_added" {
		t.Errorf("Ожидался тег db:'date_added' для поля DateAdded, получили '%s'", field.Tag.Get("db"))
	}
	// в JSON поле сериализуется camelCase-именем dateAdded
	if field.Tag.Get("json") != "dateAdded" {
		t.Errorf("Ожидался тег json:'dateAdded' для поля DateAdded, получили '%s'", field.Tag.Get("json"))
	}
	// проверяем поле Vin на соответствие тега db
	field, _ = typ.FieldByName("Vin")
	if field.Tag.Get("db") != "vin" {
		t.Errorf("Ожидался тег db:'vin' для поля Vin, получили '%s'", field.Tag.Get("db"))
	}
}

func TestFormatDateAdded(t *testing.T) {
	// проверяем формат сериализации даты добавления в ответах API
	v := Vehicle{DateAdded: time.Date(2022, 3, 11, 1, 59, 39, 0, time.UTC)}
	if got := v.FormatDateAdded(); got != "2022-03-11 01:59:39 UTC" {
		t.Errorf("FormatDateAdded() = %q", got)
	}
}
