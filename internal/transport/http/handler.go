package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"VehicleInventoryAPI/internal/model"
	"VehicleInventoryAPI/internal/paginator"
	"VehicleInventoryAPI/internal/repository"
	"VehicleInventoryAPI/internal/service"
	"VehicleInventoryAPI/internal/validation"
)

// Сообщения единого конверта ответа
const (
	msgSuccess = "success"
	msgErrors  = "Errors found!"
	msgNoData  = "No data sent to update."
)

// VehicleService задаёт интерфейс бизнес-логики для HTTP-слоя, используемый хендлером
// Методы соответствуют CRUD-операциям и выборке списка с пагинацией
type VehicleService interface {
	Create(ctx context.Context, fields map[string]any) (*model.Vehicle, validation.FieldErrors, error)
	Get(ctx context.Context, id int) (*model.Vehicle, error)
	Update(ctx context.Context, id int, fields map[string]any) (validation.FieldErrors, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, req paginator.Request) ([]model.Vehicle, int, int, error)
}

// Handler содержит зависимости и реализует HTTP-эндпоинты для операций с транспортными средствами
type Handler struct {
	srv VehicleService
}

// NewHandler создаёт новый HTTP Handler
func NewHandler(srv VehicleService) *Handler {
	return &Handler{srv: srv}
}

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Эндпоинты для проверки здоровья и готовности сервиса
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.HandleFunc("/readyz", h.Readyz).Methods("GET")
	r.HandleFunc("/vehicles/", h.List).Methods("GET")
	r.HandleFunc("/vehicles/show/{id}", h.Show).Methods("GET")
	r.HandleFunc("/vehicles/create", h.Create).Methods("POST")
	r.HandleFunc("/vehicles/update/{id}", h.Update).Methods("PATCH")
	r.HandleFunc("/vehicles/delete/{id}", h.Delete).Methods("DELETE")
}

// envelope — единая форма ответа всех эндпоинтов: {message, data, errors}
// errors держит разные формы карт ошибок (по полям, по id, глобальные)
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
	Errors  any    `json:"errors"`
}

// writeEnvelope сериализует конверт ответа с указанным статусом
func writeEnvelope(w http.ResponseWriter, status int, message string, data, errs any) {
	if data == nil {
		data = map[string]any{}
	}
	if errs == nil {
		errs = map[string][]string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Message: message, Data: data, Errors: errs})
}

// writeGlobalError отправляет непредвиденную ошибку через глобальный ключ конверта
// Единственное место, где внутренний текст ошибки достигает клиента
func writeGlobalError(w http.ResponseWriter, err error) {
	writeEnvelope(w, http.StatusInternalServerError, msgErrors, nil, map[string][]string{"global": {err.Error()}})
}

// notFoundMessage формирует текст ошибки отсутствующей записи
func notFoundMessage(id string) string {
	return fmt.Sprintf("No product found for id %s", id)
}

// decodeFields декодирует JSON-тело запроса в карту полей
// Числа сохраняются как json.Number, чтобы не терять точность msrp
// Нечитаемое или пустое тело даёт пустую карту (ошибка "нет данных" у сервиса)
func decodeFields(r *http.Request) map[string]any {
	fields := map[string]any{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return map[string]any{}
	}
	return fields
}

// List обрабатывает GET /vehicles/
// 1. Читает параметры page, max, order, sort, search с значениями по умолчанию
// 2. Валидирует их и при нарушениях возвращает карту ошибок по полям
// 3. Запрашивает страницу записей у сервиса
// 4. Возвращает {pages, total, vehicles} в поле data конверта
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := paginator.FromQuery(r.URL.Query())
	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, msgErrors, nil, errs)
		return
	}
	vehicles, total, pages, err := h.srv.List(r.Context(), req)
	if err != nil {
		writeGlobalError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		items = append(items, map[string]any{
			"id":        v.ID,
			"dateAdded": v.FormatDateAdded(),
			"msrp":      v.Msrp,
			"year":      v.Year,
			"make":      v.Make,
			"model":     v.Model,
			"miles":     v.Miles,
			"vin":       v.Vin,
		})
	}
	data := map[string]any{
		"pages":    pages,
		"total":    total,
		"vehicles": items,
	}
	writeEnvelope(w, http.StatusOK, msgSuccess, data, nil)
}

// Show обрабатывает GET /vehicles/show/{id}
// Возвращает плоскую карту полей записи, включая флаг deleted
// Отсутствующая запись или запись чужой партиции — ошибка по ключу id
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeEnvelope(w, http.StatusNotFound, msgErrors, nil, map[string]string{"id": notFoundMessage(idStr)})
		return
	}
	v, err := h.srv.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeEnvelope(w, http.StatusNotFound, msgErrors, nil, map[string]string{"id": notFoundMessage(idStr)})
		} else {
			writeGlobalError(w, err)
		}
		return
	}
	data := map[string]any{
		"dateAdded": v.FormatDateAdded(),
		"msrp":      v.Msrp,
		"year":      v.Year,
		"make":      v.Make,
		"model":     v.Model,
		"miles":     v.Miles,
		"vin":       v.Vin,
		"deleted":   v.Deleted,
	}
	writeEnvelope(w, http.StatusOK, msgSuccess, data, nil)
}

// Create обрабатывает POST /vehicles/create
// 1. Декодирует тело запроса в карту полей
// 2. Пустая карта — ошибка "No data sent to update." по ключу data
// 3. Нарушения валидации возвращаются картой ошибок по полям
// 4. При успехе возвращает {id} созданной записи
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	fields := decodeFields(r)
	v, fieldErrs, err := h.srv.Create(r.Context(), fields)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			writeEnvelope(w, http.StatusBadRequest, msgErrors, nil, map[string][]string{"data": {msgNoData}})
		} else {
			writeGlobalError(w, err)
		}
		return
	}
	if len(fieldErrs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, msgErrors, nil, fieldErrs)
		return
	}
	writeEnvelope(w, http.StatusOK, msgSuccess, map[string]any{"id": v.ID}, nil)
}

// Update обрабатывает PATCH /vehicles/update/{id}
// 1. Отсутствующая запись — ошибка по ключу id (проверяется до тела запроса)
// 2. Пустая карта полей — ошибка "No data sent to update." по ключу data
// 3. Переданные поля сливаются с записью, запись валидируется целиком
// 4. При успехе возвращает пустой data
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeEnvelope(w, http.StatusNotFound, msgErrors, nil, map[string][]string{"id": {notFoundMessage(idStr)}})
		return
	}
	fields := decodeFields(r)
	fieldErrs, err := h.srv.Update(r.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeEnvelope(w, http.StatusNotFound, msgErrors, nil, map[string][]string{"id": {notFoundMessage(idStr)}})
		case errors.Is(err, service.ErrNoData):
			writeEnvelope(w, http.StatusBadRequest, msgErrors, nil, map[string][]string{"data": {msgNoData}})
		default:
			writeGlobalError(w, err)
		}
		return
	}
	if len(fieldErrs) > 0 {
		writeEnvelope(w, http.StatusBadRequest, msgErrors, nil, fieldErrs)
		return
	}
	writeEnvelope(w, http.StatusOK, msgSuccess, nil, nil)
}

// Delete обрабатывает DELETE /vehicles/delete/{id}
// Удаление физическое: запись исчезает из таблицы, а не помечается флагом deleted
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeEnvelope(w, http.StatusNotFound, msgErrors, nil, map[string][]string{"id": {notFoundMessage(idStr)}})
		return
	}
	if err := h.srv.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeEnvelope(w, http.StatusNotFound, msgErrors, nil, map[string][]string{"id": {notFoundMessage(idStr)}})
		} else {
			writeGlobalError(w, err)
		}
		return
	}
	writeEnvelope(w, http.StatusOK, msgSuccess, nil, nil)
}

// Healthz возвращает статус работы сервиса
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz возвращает готовность сервиса
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
