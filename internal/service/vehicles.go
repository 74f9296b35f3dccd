package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"VehicleInventoryAPI/internal/model"
	"VehicleInventoryAPI/internal/paginator"
	"VehicleInventoryAPI/internal/repository"
	"VehicleInventoryAPI/internal/validation"
)

// ErrNoData возвращается, когда в запросе создания или обновления не передано ни одного поля
var ErrNoData = errors.New("no data sent to update")

// Repo определяет интерфейс репозитория для операций с транспортными средствами
// Реализация может быть на основе базы данных Postgres
type Repo interface {
	CreateVehicle(ctx context.Context, v *model.Vehicle) error
	GetVehicle(ctx context.Context, id int) (*model.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *model.Vehicle) error
	DeleteVehicle(ctx context.Context, id int) error
	VinExists(ctx context.Context, vin string, excludeID int) (bool, error)
	ListVehicles(ctx context.Context, vehicleType string, plan paginator.Plan) ([]model.Vehicle, int, error)
}

// EventPublisher определяет интерфейс публикации событий изменения записей (NATS)
type EventPublisher interface {
	PublishEvent(data []byte) error
}

// VehicleService реализует бизнес-логику для сущности транспортного средства:
// - проверка входных полей (валидация)
// - вызовы репозитория для CRUD операций
// - фильтрация списка по партиции (тип new/used из конфигурации развертывания)
// - публикация событий изменения в журнал
type VehicleService struct {
	repo        Repo
	events      EventPublisher
	vehicleType string
}

// NewVehicleService создаёт новый сервис транспортных средств
// vehicleType — значение партиции (new или used), задаётся конфигурацией, не запросом
func NewVehicleService(r Repo, p EventPublisher, vehicleType string) *VehicleService {
	return &VehicleService{repo: r, events: p, vehicleType: vehicleType}
}

// Create создаёт новую запись и возвращает её:
// 1. Пустая карта полей — ошибка ErrNoData, до пофилевой валидации
// 2. Новая запись получает dateAdded в момент создания, id назначает хранилище
// 3. Валидирует запись целиком; нарушения возвращаются картой по полям
// 4. Публикует событие create с полным снимком записи
func (s *VehicleService) Create(ctx context.Context, fields map[string]any) (*model.Vehicle, validation.FieldErrors, error) {
	if len(fields) == 0 {
		return nil, nil, ErrNoData
	}
	v := &model.Vehicle{DateAdded: time.Now()}
	errs, err := validation.ValidateVehicle(fields, v, func(vin string) (bool, error) {
		return s.repo.VinExists(ctx, vin, 0)
	})
	if err != nil {
		return nil, nil, err
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}
	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		return nil, nil, err
	}
	s.publish(model.ActionCreate, v)
	return v, nil, nil
}

// Get возвращает запись по id
// Запись чужой партиции считается отсутствующей, флаг deleted на показ не влияет
func (s *VehicleService) Get(ctx context.Context, id int) (*model.Vehicle, error) {
	v, err := s.repo.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Type != s.vehicleType {
		// запись чужой партиции не раскрывается
		return nil, repository.ErrNotFound
	}
	return v, nil
}

// Update выполняет частичное обновление записи:
// 1. Отсутствующая запись — ошибка репозитория ErrNotFound
// 2. Пустая карта полей — ErrNoData
// 3. Присутствующие поля сливаются с записью, после чего запись
//    валидируется целиком — обновление может не пройти из-за полей,
//    которых запрос не касался
// 4. Публикует событие update с полным снимком записи
func (s *VehicleService) Update(ctx context.Context, id int, fields map[string]any) (validation.FieldErrors, error) {
	v, err := s.repo.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoData
	}
	errs, err := validation.ValidateVehicle(fields, v, func(vin string) (bool, error) {
		return s.repo.VinExists(ctx, vin, id)
	})
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return errs, nil
	}
	if err := s.repo.UpdateVehicle(ctx, v); err != nil {
		return nil, err
	}
	s.publish(model.ActionUpdate, v)
	return nil, nil
}

// Delete окончательно удаляет запись и публикует событие delete:
// 1. Получает существующую запись (снимок для события)
// 2. Вызывает DeleteVehicle для физического удаления строки
// 3. Публикует событие delete с последним снимком записи
func (s *VehicleService) Delete(ctx context.Context, id int) error {
	v, err := s.repo.GetVehicle(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	data, _ := json.Marshal(model.VehicleEvent{Action: model.ActionDelete, Vehicle: *v})
	if err := s.events.PublishEvent(data); err != nil {
		return err
	}
	return nil
}

// List возвращает одну страницу записей партиции вместе с общим числом
// записей и числом страниц; параметры приходят уже валидированными
func (s *VehicleService) List(ctx context.Context, req paginator.Request) ([]model.Vehicle, int, int, error) {
	plan := req.Plan()
	vehicles, total, err := s.repo.ListVehicles(ctx, s.vehicleType, plan)
	if err != nil {
		return nil, 0, 0, err
	}
	return vehicles, total, paginator.Pages(total, plan.Limit), nil
}

// publish сериализует событие и отправляет его в журнал
// Ошибка публикации не прерывает основную операцию
func (s *VehicleService) publish(action string, v *model.Vehicle) {
	data, _ := json.Marshal(model.VehicleEvent{Action: action, Vehicle: *v})
	_ = s.events.PublishEvent(data)
}
