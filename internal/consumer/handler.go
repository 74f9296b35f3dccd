package consumer

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"VehicleInventoryAPI/internal/model"
)

// Repo описывает интерфейс репозитория ClickHouse для пакетной записи событий
// Метод BatchInsertEvents записывает слайс событий model.VehicleEvent
type Repo interface {
	BatchInsertEvents(ctx context.Context, events []model.VehicleEvent) error
}

// Consumer буферизует события и отправляет их пакетно в ClickHouse
// batchSize определяет макс. количество событий до отправки
// mutex защищает доступ к буферу events
type Consumer struct {
	repo      Repo
	batchSize int
	events    []model.VehicleEvent
	mu        sync.Mutex
}

// NewConsumer создаёт Consumer с указанным репозиторием и размером пакета
func NewConsumer(repo Repo, batchSize int) *Consumer {
	return &Consumer{repo: repo, batchSize: batchSize, events: make([]model.VehicleEvent, 0, batchSize)}
}

// HandleMessage обрабатывает сообщение из NATS: парсит JSON, добавляет событие в буфер
// и при достижении batchSize отправляет пакет в ClickHouse
func (c *Consumer) HandleMessage(ctx context.Context, data []byte) error {
	var e model.VehicleEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	log.Printf("Получено событие %s для записи id=%d", e.Action, e.Vehicle.ID)
	c.mu.Lock()
	c.events = append(c.events, e)
	// если достигли batchSize, сбрасываем буфер
	if len(c.events) >= c.batchSize {
		eventsCopy := make([]model.VehicleEvent, len(c.events))
		copy(eventsCopy, c.events)
		c.events = c.events[:0]
		c.mu.Unlock()
		// отправляем пакет событий
		return c.repo.BatchInsertEvents(ctx, eventsCopy)
	}
	c.mu.Unlock()
	return nil
}

// Flush отправляет все накопленные события, если они есть
func (c *Consumer) Flush(ctx context.Context) error {
	c.mu.Lock()
	if len(c.events) == 0 {
		c.mu.Unlock()
		return nil
	}
	eventsCopy := make([]model.VehicleEvent, len(c.events))
	copy(eventsCopy, c.events)
	c.events = c.events[:0]
	c.mu.Unlock()
	return c.repo.BatchInsertEvents(ctx, eventsCopy)
}
