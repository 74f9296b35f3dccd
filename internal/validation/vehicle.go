// Пакет validation реализует пофилевую валидацию транспортного средства:
// явные композируемые функции-проверки вместо аннотаций и рефлексии.
// Вход — карта полей запроса (string / json.Number / bool после декодирования JSON),
// выход — карта нарушений: имя поля -> упорядоченный список сообщений.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"VehicleInventoryAPI/internal/model"
)

// Сообщения о нарушениях, совместимые с текстами исходного API
const (
	msgNotBlank   = "This value should not be blank."
	msgDigit      = "This value should be of type digit."
	msgTypeChoice = "Only new/used options are allowed."
	msgMsrp       = "MSRP must be decimal(20,2), up to 2 decimal places."
	msgVin        = "VIN must contain only letter and numbers"
	msgVinUnique  = "This value is already used."
	msgDeleted    = "Only true/false/t/f/0/1 options are allowed."
)

// Границы допустимого года выпуска
const yearMin = 1900

var (
	msrpRe = regexp.MustCompile(`^\d{1,18}(\.\d{1,2})?$`)
	vinRe  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// FieldErrors — карта ошибок: имя поля -> список сообщений о нарушениях
// Пустая карта означает валидную запись
type FieldErrors map[string][]string

// Add добавляет сообщение о нарушении для указанного поля
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// VinTakenFunc проверяет, занят ли VIN другой записью
// Реализация предоставляется сервисным слоем (запрос к хранилищу с исключением обновляемой записи)
type VinTakenFunc func(vin string) (bool, error)

// ValidateVehicle применяет присутствующие в fields поля к записи vehicle
// и валидирует получившуюся запись целиком по всему набору ограничений.
// Нарушения собираются по всем полям, без остановки на первом.
// Запись изменяется только при полностью успешной валидации — частичное
// применение невозможно.
// Второй результат — ошибка инфраструктуры (например, недоступность БД при
// проверке уникальности VIN), не связанная с нарушениями полей.
func ValidateVehicle(fields map[string]any, vehicle *model.Vehicle, vinTaken VinTakenFunc) (FieldErrors, error) {
	// создаваемая запись ещё не имеет идентификатора хранилища
	isNew := vehicle.ID == 0

	errs := FieldErrors{}

	vType, typeSet := effective(fields, "type", vehicle.Type, isNew)
	validateRequiredChoice(errs, "type", vType, typeSet, []string{"new", "used"}, msgTypeChoice)

	msrp, msrpSet := effective(fields, "msrp", vehicle.Msrp, isNew)
	validateRequiredPattern(errs, "msrp", msrp, msrpSet, msrpRe, msgMsrp)

	yearMax := time.Now().Year() + 1
	year, yearSet := effective(fields, "year", strconv.Itoa(vehicle.Year), isNew)
	yearVal := validateRequiredDigit(errs, "year", year, yearSet)
	if yearSet && isDigits(year) && (yearVal < yearMin || yearVal > yearMax) {
		errs.Add("year", fmt.Sprintf("The vehicle year should be between %d and %d.", yearMin, yearMax))
	}

	mk, mkSet := effective(fields, "make", vehicle.Make, isNew)
	validateRequiredBlank(errs, "make", mk, mkSet)

	mdl, mdlSet := effective(fields, "model", vehicle.Model, isNew)
	validateRequiredBlank(errs, "model", mdl, mdlSet)

	miles, milesSet := effective(fields, "miles", strconv.Itoa(vehicle.Miles), isNew)
	milesVal := validateRequiredDigit(errs, "miles", miles, milesSet)

	vin, vinSet := effective(fields, "vin", vehicle.Vin, isNew)
	validateRequiredPattern(errs, "vin", vin, vinSet, vinRe, msgVin)
	if vinSet && vin != "" && vinRe.MatchString(vin) {
		taken, err := vinTaken(vin)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("vin", msgVinUnique)
		}
	}

	// deleted — необязательное поле; проверяем только если оно передано
	rawDeleted, deletedPresent := fields["deleted"]
	if deletedPresent && !isDeletedToken(rawDeleted) {
		errs.Add("deleted", msgDeleted)
	}

	if len(errs) > 0 {
		return errs, nil
	}

	// все ограничения выполнены — применяем слитые значения к записи
	vehicle.Type = vType
	vehicle.Msrp = msrp
	vehicle.Year = yearVal
	vehicle.Make = mk
	vehicle.Model = mdl
	vehicle.Miles = milesVal
	vehicle.Vin = vin
	if deletedPresent {
		vehicle.Deleted = normalizeDeleted(rawDeleted)
	}
	return errs, nil
}

// effective возвращает значение поля для валидации:
// - если поле присутствует в карте — строковая форма переданного значения
// - для существующей записи — сохранённое значение
// - для новой записи отсутствующее поле считается незаполненным (set=false)
func effective(fields map[string]any, name, stored string, isNew bool) (value string, set bool) {
	if raw, ok := fields[name]; ok {
		return stringify(raw), true
	}
	if isNew {
		return "", false
	}
	return stored, true
}

// stringify приводит декодированное JSON-значение к строковой форме
func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// validateRequiredBlank проверяет обязательность непустого значения
func validateRequiredBlank(errs FieldErrors, field, value string, set bool) {
	if !set || value == "" {
		errs.Add(field, msgNotBlank)
	}
}

// validateRequiredChoice проверяет обязательность и принадлежность набору допустимых значений
func validateRequiredChoice(errs FieldErrors, field, value string, set bool, choices []string, msg string) {
	if !set {
		errs.Add(field, msgNotBlank)
		return
	}
	if value == "" {
		errs.Add(field, msgNotBlank)
	}
	for _, c := range choices {
		if value == c {
			return
		}
	}
	errs.Add(field, msg)
}

// validateRequiredPattern проверяет обязательность и соответствие регулярному выражению
func validateRequiredPattern(errs FieldErrors, field, value string, set bool, re *regexp.Regexp, msg string) {
	if !set {
		errs.Add(field, msgNotBlank)
		return
	}
	if value == "" {
		errs.Add(field, msgNotBlank)
	}
	if !re.MatchString(value) {
		errs.Add(field, msg)
	}
}

// validateRequiredDigit проверяет обязательность и что значение — строка из цифр
// Возвращает разобранное число (0, если разбор невозможен)
func validateRequiredDigit(errs FieldErrors, field, value string, set bool) int {
	if !set {
		errs.Add(field, msgNotBlank)
		return 0
	}
	if value == "" {
		errs.Add(field, msgNotBlank)
	}
	if !isDigits(value) {
		errs.Add(field, msgDigit)
		return 0
	}
	n, _ := strconv.Atoi(value)
	return n
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

// deletedTokens — допустимые строковые написания флага deleted
var deletedTokens = map[string]bool{
	"true": true, "false": true, "1": true, "0": true, "t": true, "f": true,
}

// isDeletedToken проверяет значение флага deleted:
// допустимы булевы литералы и строковые токены true/false/t/f/0/1
func isDeletedToken(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return true
	case string:
		return deletedTokens[v]
	default:
		return false
	}
}

// normalizeDeleted приводит значение флага к bool.
// Булево значение сохраняет собственную истинность, строка считается истинной
// при принадлежности множеству {"true", "t", "1"} — прочие токены дают false.
func normalizeDeleted(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "t" || v == "1"
	default:
		return false
	}
}
