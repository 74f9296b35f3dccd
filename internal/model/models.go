package model

import "time"

// DateAddedLayout задаёт формат сериализации поля dateAdded в ответах API
// Пример: "2022-03-11 01:59:39 UTC"
const DateAddedLayout = "2006-01-02 15:04:05 MST"

// Vehicle представляет сущность транспортного средства (таблица vehicles)
// Msrp хранится строкой, чтобы сохранить точное значение decimal(20,2)
type Vehicle struct {
	ID        int       `db:"id" json:"id"`
	DateAdded time.Time `db:"date_added" json:"dateAdded"`
	Type      string    `db:"type" json:"type"`
	Msrp      string    `db:"msrp" json:"msrp"`
	Year      int       `db:"year" json:"year"`
	Make      string    `db:"make" json:"make"`
	Model     string    `db:"model" json:"model"`
	Miles     int       `db:"miles" json:"miles"`
	Vin       string    `db:"vin" json:"vin"`
	Deleted   bool      `db:"deleted" json:"deleted"`
}

// FormatDateAdded возвращает dateAdded в формате API
func (v *Vehicle) FormatDateAdded() string {
	return v.DateAdded.Format(DateAddedLayout)
}

// Действия, публикуемые сервисом в журнал событий
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// VehicleEvent представляет событие изменения транспортного средства
// Action — тип операции (create/update/delete), Vehicle — полный снимок записи
type VehicleEvent struct {
	Action  string  `json:"action"`
	Vehicle Vehicle `json:"vehicle"`
}
