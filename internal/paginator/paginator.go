// Пакет paginator преобразует недоверенные query-параметры списка
// в проверенный план запроса (колонка сортировки, направление, limit/offset, поиск)
package paginator

import (
	"net/url"
	"strconv"
	"strings"
)

// Сообщения об ошибках валидации параметров пагинации
const (
	msgNotBlank = "This value should not be blank."
	msgDigit    = "This value should be of type digit."
	msgPositive = "This value should be positive."
	msgOrder    = "Only id/dateAdded/msrp/year/make/model/miles/vin options are allowed."
	msgSort     = "Only ASC/DESC/asc/desc options are allowed."
)

// orderColumns отображает допустимые значения параметра order на столбцы таблицы vehicles
var orderColumns = map[string]string{
	"id":        "id",
	"dateAdded": "date_added",
	"msrp":      "msrp",
	"year":      "year",
	"make":      "make",
	"model":     "model",
	"miles":     "miles",
	"vin":       "vin",
}

// Request хранит параметры одного запроса списка в исходном строковом виде
// Значения не сохраняются между запросами и валидируются перед использованием
type Request struct {
	Page   string
	Max    string
	Order  string
	Sort   string
	Search string
}

// FromQuery читает параметры пагинации из query строки запроса
// Отсутствующие параметры заменяются значениями по умолчанию:
// page="1", max="20", order="dateAdded", sort="ASC", search=""
func FromQuery(q url.Values) Request {
	r := Request{
		Page:   q.Get("page"),
		Max:    q.Get("max"),
		Order:  q.Get("order"),
		Sort:   q.Get("sort"),
		Search: q.Get("search"),
	}
	if r.Page == "" {
		r.Page = "1"
	}
	if r.Max == "" {
		r.Max = "20"
	}
	if r.Order == "" {
		r.Order = "dateAdded"
	}
	if r.Sort == "" {
		r.Sort = "ASC"
	}
	return r
}

// Validate проверяет все параметры и возвращает карту ошибок по полям
// Пустая карта означает, что параметры корректны
// Нарушения собираются по всем полям сразу, без остановки на первом
func (r Request) Validate() map[string][]string {
	errs := map[string][]string{}
	validatePositiveDigit(errs, "page", r.Page)
	validatePositiveDigit(errs, "max", r.Max)
	if _, ok := orderColumns[r.Order]; !ok {
		errs["order"] = append(errs["order"], msgOrder)
	}
	switch r.Sort {
	case "ASC", "DESC", "asc", "desc":
	default:
		errs["sort"] = append(errs["sort"], msgSort)
	}
	// search всегда строка по построению query-параметров, отдельная проверка не требуется
	return errs
}

// validatePositiveDigit проверяет, что значение — непустая строка из цифр больше нуля
func validatePositiveDigit(errs map[string][]string, field, value string) {
	if value == "" {
		errs[field] = append(errs[field], msgNotBlank, msgDigit)
		return
	}
	if !isDigits(value) {
		errs[field] = append(errs[field], msgDigit)
		return
	}
	if n, _ := strconv.Atoi(value); n <= 0 {
		errs[field] = append(errs[field], msgPositive)
	}
}

// isDigits возвращает true, если строка непуста и состоит только из цифр
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Plan — конкретный план запроса списка, готовый для слоя репозитория
// Column — столбец сортировки, Direction — ASC или DESC,
// Search — исходный поисковый термин (экранирование выполняет репозиторий через bind-параметр)
type Plan struct {
	Column    string
	Direction string
	Limit     int
	Offset    int
	Search    string
}

// Plan строит план запроса из валидированного Request
// offset = max * (page - 1); направление приводится к верхнему регистру
func (r Request) Plan() Plan {
	page, _ := strconv.Atoi(r.Page)
	max, _ := strconv.Atoi(r.Max)
	return Plan{
		Column:    orderColumns[r.Order],
		Direction: strings.ToUpper(r.Sort),
		Limit:     max,
		Offset:    max * (page - 1),
		Search:    r.Search,
	}
}

// Pages возвращает общее число страниц: ceil(total / max)
func Pages(total, max int) int {
	if total <= 0 {
		return 0
	}
	return (total + max - 1) / max
}
