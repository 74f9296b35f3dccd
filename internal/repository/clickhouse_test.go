package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"VehicleInventoryAPI/internal/model"
)

func TestBatchInsertEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewClickhouseRepo(db)
	defer db.Close()

	events := []model.VehicleEvent{
		{
			Action: model.ActionUpdate,
			Vehicle: model.Vehicle{
				ID: 5, Type: "new", Msrp: "45999.99", Year: 2024,
				Make: "Ford", Model: "F150", Miles: 5,
				Vin: "1FTEW1EP5JKF51234", Deleted: true,
			},
		},
	}

	// Ожидаем начало транзакции
	mock.ExpectBegin()
	// Ожидаем подготовку запроса и вставку строки события
	mock.ExpectPrepare("INSERT INTO vehicle_events").
		ExpectExec().
		WithArgs(5, model.ActionUpdate, "new", "45999.99", 2024, "Ford", "F150", 5, "1FTEW1EP5JKF51234", uint8(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Ожидаем коммит
	mock.ExpectCommit()

	err = repo.BatchInsertEvents(context.Background(), events)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestBatchInsertEvents_ExecError: ошибка вставки откатывает транзакцию
func TestBatchInsertEvents_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewClickhouseRepo(db)
	defer db.Close()

	events := []model.VehicleEvent{
		{Action: model.ActionDelete, Vehicle: model.Vehicle{ID: 9}},
	}

	execErr := errors.New("exec failed")
	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO vehicle_events").
		ExpectExec().
		WillReturnError(execErr)
	mock.ExpectRollback()

	err = repo.BatchInsertEvents(context.Background(), events)
	require.ErrorIs(t, err, execErr)
	require.NoError(t, mock.ExpectationsWereMet())
}
