package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/psqlbuilder"
)

var hoursColumns = []string{
	"id",
	"facility_type_id",
	"facility_id",
	"day_of_week",
	"start_time",
	"end_time",
}

var closureColumns = []string{
	"id",
	"club_id",
	"facility_type_id",
	"facility_id",
	"start_date",
	"end_date",
	"reason",
	"created_at",
}

// Repository репозиторий часов работы и закрытий площадок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListOpeningHours возвращает часы работы на день недели, заданные для площадки ИЛИ её типа
func (r *Repository) ListOpeningHours(
	ctx context.Context,
	facilityID, facilityTypeID string,
	day domain.DayOfWeek,
) ([]domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(hoursColumns...).
		From("facility_opening_hours").
		Where(squirrel.Eq{"day_of_week": day}).
		Where(squirrel.Or{
			squirrel.Eq{"facility_id": facilityID},
			squirrel.Eq{"facility_type_id": facilityTypeID},
		}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpeningHours - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryHours(ctx, executor, "ListOpeningHours", query, args)
}

// ListOpeningHoursByTypes возвращает все часы работы перечисленных типов площадок
func (r *Repository) ListOpeningHoursByTypes(ctx context.Context, typeIDs []string) ([]domain.OpeningHours, error) {
	if len(typeIDs) == 0 {
		return []domain.OpeningHours{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(hoursColumns...).
		From("facility_opening_hours").
		Where(squirrel.Eq{"facility_type_id": typeIDs}).
		OrderBy("facility_type_id", "day_of_week", "start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpeningHoursByTypes - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryHours(ctx, executor, "ListOpeningHoursByTypes", query, args)
}

// ReplaceTypeOpeningHours удаляет все часы работы типа площадки и записывает новые
func (r *Repository) ReplaceTypeOpeningHours(ctx context.Context, typeID string, hours []domain.OpeningHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("facility_opening_hours").
		Where(squirrel.Eq{"facility_type_id": typeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceTypeOpeningHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceTypeOpeningHours - execute delete: %v", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("facility_opening_hours").
		Columns("id", "facility_type_id", "day_of_week", "start_time", "end_time")
	for i := range hours {
		hours[i].ID = uuid.NewString()
		hours[i].FacilityTypeID = &typeID
		insertBuilder = insertBuilder.Values(hours[i].ID, typeID, hours[i].DayOfWeek, hours[i].StartTime, hours[i].EndTime)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceTypeOpeningHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceTypeOpeningHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListClosures возвращает закрытия клуба
// Если заданы FacilityID/FacilityTypeID - только закрытия площадки ИЛИ её типа.
// Если задан Date - только закрытия, покрывающие эту дату (границы включительно).
func (r *Repository) ListClosures(ctx context.Context, filter domain.ClosureFilter) ([]domain.Closure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(closureColumns...).
		From("facility_closures").
		Where(squirrel.Eq{"club_id": filter.ClubID}).
		OrderBy("start_date ASC")

	scope := squirrel.Or{}
	if filter.FacilityID != "" {
		scope = append(scope, squirrel.Eq{"facility_id": filter.FacilityID})
	}
	if filter.FacilityTypeID != "" {
		scope = append(scope, squirrel.Eq{"facility_type_id": filter.FacilityTypeID})
	}
	if len(scope) > 0 {
		selectBuilder = selectBuilder.Where(scope)
	}

	if filter.Date != nil {
		date := filter.Date.Format(domain.DateFormat)
		selectBuilder = selectBuilder.
			Where(squirrel.Expr("start_date <= ?::date", date)).
			Where(squirrel.Expr("end_date >= ?::date", date))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosures - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosures - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]domain.Closure, 0)
	for rows.Next() {
		var c domain.Closure
		if err := rows.Scan(closureDest(&c)...); err != nil {
			return nil, fmt.Errorf("%w: ListClosures - scan closure: %v", ErrScanRow, err)
		}
		closures = append(closures, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListClosures - rows iteration: %v", ErrScanRow, err)
	}

	return closures, nil
}

// GetClosure получает закрытие по ID
func (r *Repository) GetClosure(ctx context.Context, id string) (*domain.Closure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(closureColumns...).
		From("facility_closures").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetClosure - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Closure
	err = executor.QueryRowContext(ctx, query, args...).Scan(closureDest(&c)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClosureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClosure - scan closure: %v", ErrScanRow, err)
	}

	return &c, nil
}

// CreateClosure сохраняет новое закрытие
func (r *Repository) CreateClosure(ctx context.Context, c *domain.Closure) (*domain.Closure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	c.ID = uuid.NewString()

	query, args, err := psqlbuilder.Insert("facility_closures").
		Columns("id", "club_id", "facility_type_id", "facility_id", "start_date", "end_date", "reason").
		Values(
			c.ID,
			c.ClubID,
			c.FacilityTypeID,
			c.FacilityID,
			c.StartDate.Format(domain.DateFormat),
			c.EndDate.Format(domain.DateFormat),
			c.Reason,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosure - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateClosure - execute insert: %v", ErrExecQuery, err)
	}

	return c, nil
}

// DeleteClosure удаляет закрытие
func (r *Repository) DeleteClosure(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("facility_closures").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrClosureNotFound
	}

	return nil
}

func (r *Repository) queryHours(
	ctx context.Context,
	executor DBExecutor,
	op, query string,
	args []interface{},
) ([]domain.OpeningHours, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	hours := make([]domain.OpeningHours, 0)
	for rows.Next() {
		var h domain.OpeningHours
		if err := rows.Scan(&h.ID, &h.FacilityTypeID, &h.FacilityID, &h.DayOfWeek, &h.StartTime, &h.EndTime); err != nil {
			return nil, fmt.Errorf("%w: %s - scan opening hours: %v", ErrScanRow, op, err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return hours, nil
}

func closureDest(c *domain.Closure) []interface{} {
	return []interface{}{
		&c.ID,
		&c.ClubID,
		&c.FacilityTypeID,
		&c.FacilityID,
		&c.StartDate,
		&c.EndDate,
		&c.Reason,
		&c.CreatedAt,
	}
}
