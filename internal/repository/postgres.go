package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"VehicleInventoryAPI/internal/model"
	"VehicleInventoryAPI/internal/paginator"
)

// ErrNotFound возвращается при отсутствии записи
var ErrNotFound = errors.New("record not found")

// vehicleColumns — список столбцов таблицы vehicles в порядке сканирования
const vehicleColumns = `id, date_added, type, msrp, year, make, model, miles, vin, deleted`

// VehicleRepository реализует доступ к таблице vehicles
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository создает новый репозиторий транспортных средств
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// CreateVehicle добавляет новую запись в таблицу vehicles
// id назначается базой данных и записывается в переданную структуру
func (r *VehicleRepository) CreateVehicle(ctx context.Context, v *model.Vehicle) error {
	query := `INSERT INTO vehicles(date_added, type, msrp, year, make, model, miles, vin, deleted)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		v.DateAdded, v.Type, v.Msrp, v.Year, v.Make, v.Model, v.Miles, v.Vin, v.Deleted).
		Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return nil
}

// GetVehicle возвращает запись по id без учёта партиции и флага deleted
// Фильтрацию по типу выполняет сервисный слой
func (r *VehicleRepository) GetVehicle(ctx context.Context, id int) (*model.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)
	var v model.Vehicle
	err := row.Scan(&v.ID, &v.DateAdded, &v.Type, &v.Msrp, &v.Year, &v.Make, &v.Model, &v.Miles, &v.Vin, &v.Deleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &v, nil
}

// UpdateVehicle перезаписывает изменяемые поля записи, с блокировкой и транзакцией
func (r *VehicleRepository) UpdateVehicle(ctx context.Context, v *model.Vehicle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	// проверка существования с блокировкой
	var existingID int
	row := tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id=$1 FOR UPDATE`, v.ID)
	if err := row.Scan(&existingID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to select vehicle for update: %w", err)
	}
	// обновление полей
	updateQuery := `UPDATE vehicles SET type=$1, msrp=$2, year=$3, make=$4, model=$5, miles=$6, vin=$7, deleted=$8 WHERE id=$9`
	_, err = tx.ExecContext(ctx, updateQuery,
		v.Type, v.Msrp, v.Year, v.Make, v.Model, v.Miles, v.Vin, v.Deleted, v.ID)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteVehicle окончательно удаляет запись из таблицы (hard delete)
// Флаг deleted управляет только видимостью в списке и записью не управляется здесь
func (r *VehicleRepository) DeleteVehicle(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// VinExists проверяет, занят ли VIN другой записью
// excludeID исключает обновляемую запись из проверки (0 для создания)
func (r *VehicleRepository) VinExists(ctx context.Context, vin string, excludeID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM vehicles WHERE vin=$1 AND id<>$2)`
	if err := r.db.QueryRowContext(ctx, query, vin, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check vin uniqueness: %w", err)
	}
	return exists, nil
}

// ListVehicles возвращает одну страницу записей партиции vehicleType и общее число
// записей, попадающих под фильтр (без учёта limit/offset)
// Записи с deleted=true исключаются; поисковый термин связывается bind-параметром
func (r *VehicleRepository) ListVehicles(ctx context.Context, vehicleType string, plan paginator.Plan) ([]model.Vehicle, int, error) {
	where := `WHERE type=$1 AND deleted <> true`
	args := []any{vehicleType}
	if plan.Search != "" {
		where += ` AND (make ILIKE $2 OR model ILIKE $2 OR vin ILIKE $2)`
		args = append(args, "%"+plan.Search+"%")
	}
	// общее число записей по фильтру
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	// колонка и направление сортировки приходят из белого списка пагинатора;
	// вторичная сортировка по id даёт стабильный порядок при равных значениях
	query := fmt.Sprintf(`SELECT %s FROM vehicles %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		vehicleColumns, where, plan.Column, plan.Direction, len(args)+1, len(args)+2)
	args = append(args, plan.Limit, plan.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select vehicles list: %w", err)
	}
	defer rows.Close()
	var vehicles []model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.DateAdded, &v.Type, &v.Msrp, &v.Year, &v.Make, &v.Model, &v.Miles, &v.Vin, &v.Deleted); err != nil {
			return nil, 0, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, total, nil
}
