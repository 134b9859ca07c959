package facility

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/psqlbuilder"
)

var typeColumns = []string{
	"t.id",
	"t.club_id",
	"t.name",
	"t.description",
	"t.booking_interval_minutes",
	"t.created_at",
	"t.updated_at",
}

var facilityColumns = []string{
	"f.id",
	"f.club_id",
	"f.facility_type_id",
	"f.name",
	"f.capacity",
	"f.is_active",
	"f.created_at",
	"f.updated_at",
}

// Repository репозиторий площадок и их типов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория площадок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWithType получает площадку вместе с её типом
// Внутри транзакции строка площадки блокируется (FOR UPDATE OF f): все операции
// бронирования одной площадки выполняются последовательно.
func (r *Repository) GetWithType(ctx context.Context, id string) (*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, facilityColumns...), typeColumns...)
	selectBuilder := psqlbuilder.Select(columns...).
		From("facilities f").
		Join("facility_types t ON t.id = f.facility_type_id").
		Where(squirrel.Eq{"f.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF f")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithType - build select query: %v", ErrBuildQuery, err)
	}

	var (
		f domain.Facility
		t domain.FacilityType
	)
	dest := append(facilityDest(&f), typeDest(&t)...)

	err = executor.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithType - scan facility: %v", ErrScanRow, err)
	}

	f.Type = &t
	return &f, nil
}

// GetType получает тип площадки по ID
// Внутри транзакции строка блокируется, административные изменения типа сериализуются
func (r *Repository) GetType(ctx context.Context, id string) (*domain.FacilityType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(typeColumns...).
		From("facility_types t").
		Where(squirrel.Eq{"t.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetType - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.FacilityType
	err = executor.QueryRowContext(ctx, query, args...).Scan(typeDest(&t)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFacilityTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetType - scan facility type: %v", ErrScanRow, err)
	}

	return &t, nil
}

// ListTypes возвращает типы площадок клуба
func (r *Repository) ListTypes(ctx context.Context, clubID string) ([]*domain.FacilityType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(typeColumns...).
		From("facility_types t").
		Where(squirrel.Eq{"t.club_id": clubID}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTypes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTypes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	types := make([]*domain.FacilityType, 0)
	for rows.Next() {
		var t domain.FacilityType
		if err := rows.Scan(typeDest(&t)...); err != nil {
			return nil, fmt.Errorf("%w: ListTypes - scan facility type: %v", ErrScanRow, err)
		}
		types = append(types, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTypes - rows iteration: %v", ErrScanRow, err)
	}

	return types, nil
}

// ListByClub возвращает площадки клуба, включая неактивные
func (r *Repository) ListByClub(ctx context.Context, clubID string) ([]*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(facilityColumns...).
		From("facilities f").
		Where(squirrel.Eq{"f.club_id": clubID}).
		OrderBy("f.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClub - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClub - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	facilities := make([]*domain.Facility, 0)
	for rows.Next() {
		var f domain.Facility
		if err := rows.Scan(facilityDest(&f)...); err != nil {
			return nil, fmt.Errorf("%w: ListByClub - scan facility: %v", ErrScanRow, err)
		}
		facilities = append(facilities, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByClub - rows iteration: %v", ErrScanRow, err)
	}

	return facilities, nil
}

// UpdateBookingInterval меняет шаг бронирования типа площадки
func (r *Repository) UpdateBookingInterval(ctx context.Context, typeID string, minutes int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("facility_types").
		Set("booking_interval_minutes", minutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": typeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingInterval - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingInterval - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingInterval - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrFacilityTypeNotFound
	}

	return nil
}

func facilityDest(f *domain.Facility) []interface{} {
	return []interface{}{
		&f.ID,
		&f.ClubID,
		&f.FacilityTypeID,
		&f.Name,
		&f.Capacity,
		&f.IsActive,
		&f.CreatedAt,
		&f.UpdatedAt,
	}
}

func typeDest(t *domain.FacilityType) []interface{} {
	return []interface{}{
		&t.ID,
		&t.ClubID,
		&t.Name,
		&t.Description,
		&t.BookingIntervalMinutes,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}
