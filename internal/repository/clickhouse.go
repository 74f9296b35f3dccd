package repository

import (
	"context"
	"database/sql"
	"log"
	"time"

	"VehicleInventoryAPI/internal/model"
)

// ClickhouseRepo реализует пакетную запись событий изменения записей в ClickHouse
type ClickhouseRepo struct {
	db *sql.DB
}

// NewClickhouseRepo создаёт новый репозиторий для ClickHouse
func NewClickhouseRepo(db *sql.DB) *ClickhouseRepo {
	return &ClickhouseRepo{db: db}
}

// BatchInsertEvents записывает пакет событий в таблицу vehicle_events в ClickHouse
// Событие содержит действие, снимок записи и время вставки
func (r *ClickhouseRepo) BatchInsertEvents(ctx context.Context, events []model.VehicleEvent) error {
	// начинаем 'транзакцию' для batch insert (clickhouse-go собирает блок при PrepareContext)
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	log.Printf("Начало пакетной вставки %d событий в ClickHouse", len(events))
	// PrepareContext для одной строки; clickhouse-go соберёт несколько Exec в один блок
	query := `INSERT INTO vehicle_events (Id, Action, Type, Msrp, Year, Make, Model, Miles, Vin, Deleted, EventTime) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range events {
		v := e.Vehicle
		_, err := stmt.ExecContext(ctx,
			v.ID, e.Action, v.Type, v.Msrp, v.Year,
			v.Make, v.Model, v.Miles, v.Vin, boolToUInt8(v.Deleted),
			time.Now(),
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Успешно вставлено %d событий в ClickHouse", len(events))
	return nil
}

// boolToUInt8 конвертирует bool в UInt8 (0/1)
func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
