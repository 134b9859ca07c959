package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"b.id",
	"b.club_id",
	"b.facility_id",
	"b.user_id",
	"b.start_time",
	"b.end_time",
	"b.status",
	"b.type",
	"b.check_in_at",
	"b.cancelled_at",
	"b.created_at",
	"b.updated_at",
}

var participantColumns = []string{
	"id",
	"booking_id",
	"user_id",
	"guest_name",
	"guest_email",
	"is_guest",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе с участниками
// Должен вызываться внутри транзакции, иначе участники и бронь пишутся не атомарно.
// Пересечение с другой активной бронью (ограничение БД или сбой сериализации) возвращается как ErrOverlap.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	booking.ID = uuid.NewString()

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"club_id",
			"facility_id",
			"user_id",
			"start_time",
			"end_time",
			"status",
			"type",
		).
		Values(
			booking.ID,
			booking.ClubID,
			booking.FacilityID,
			booking.UserID,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.Type,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if pgerr.IsConflict(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrOverlap, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.insertParticipants(ctx, executor, booking.ID, booking.Participants); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с участниками
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	participants, err := r.loadParticipants(ctx, executor, []string{booking.ID})
	if err != nil {
		return nil, err
	}
	booking.Participants = participants[booking.ID]

	return booking, nil
}

// FindOverlapping возвращает активные (booked) бронирования площадки, пересекающиеся с [start, end)
// excludeID исключает из проверки само редактируемое бронирование; пустая строка = без исключения.
// limit <= 0 означает без ограничения.
func (r *Repository) FindOverlapping(
	ctx context.Context,
	facilityID string,
	start, end time.Time,
	excludeID string,
	limit int,
) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.facility_id": facilityID}).
		Where(squirrel.Eq{"b.status": domain.StatusBooked}).
		// строгие неравенства: соседние интервалы не пересекаются
		Where(squirrel.Lt{"b.start_time": end}).
		Where(squirrel.Gt{"b.end_time": start}).
		OrderBy("b.start_time ASC")

	if excludeID != "" {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.id": excludeID})
	}
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows, false)
}

// UpdateTimes переносит бронирование на новый интервал
func (r *Repository) UpdateTimes(ctx context.Context, id string, start, end time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_time", start).
		Set("end_time", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateTimes - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsConflict(err) {
			return fmt.Errorf("%w: UpdateTimes: %v", ErrOverlap, err)
		}
		return fmt.Errorf("%w: UpdateTimes - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateTimes")
}

// Cancel переводит бронирование в cancelled и проставляет время отмены; строка не удаляется
func (r *Repository) Cancel(ctx context.Context, id string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Cancel")
}

// ReplaceParticipants полностью заменяет список участников бронирования
func (r *Repository) ReplaceParticipants(ctx context.Context, bookingID string, participants []domain.Participant) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_participants").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceParticipants - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceParticipants - execute delete: %v", ErrExecQuery, err)
	}

	return r.insertParticipants(ctx, executor, bookingID, participants)
}

// List возвращает бронирования клуба, пересекающиеся с [filter.Start, filter.End), в любом статусе
// Заполняет участников и данные автора бронирования
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, bookingColumns...), "u.name", "u.email")

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings b").
		LeftJoin("users u ON u.id = b.user_id").
		Where(squirrel.Eq{"b.club_id": filter.ClubID}).
		Where(squirrel.Lt{"b.start_time": filter.End}).
		Where(squirrel.Gt{"b.end_time": filter.Start}).
		OrderBy("b.start_time ASC", "b.facility_id ASC")

	if len(filter.FacilityIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.facility_id": filter.FacilityIDs})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows, true)
	if err != nil {
		return nil, err
	}

	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}

	participants, err := r.loadParticipants(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		b.Participants = participants[b.ID]
	}

	return bookings, nil
}

// ListByUser возвращает бронирования пользователя во всех клубах, которые заканчиваются после filter.From
func (r *Repository) ListByUser(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.user_id": filter.UserID}).
		Where(squirrel.Gt{"b.end_time": filter.From}).
		OrderBy("b.start_time ASC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows, false)
	if err != nil {
		return nil, err
	}

	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}

	participants, err := r.loadParticipants(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		b.Participants = participants[b.ID]
	}

	return bookings, nil
}

func (r *Repository) insertParticipants(
	ctx context.Context,
	executor DBExecutor,
	bookingID string,
	participants []domain.Participant,
) error {
	if len(participants) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("booking_participants").Columns(participantColumns...)
	for i := range participants {
		p := &participants[i]
		p.ID = uuid.NewString()
		p.BookingID = bookingID
		insertBuilder = insertBuilder.Values(p.ID, bookingID, p.UserID, p.GuestName, p.GuestEmail, p.IsGuest)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertParticipants - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertParticipants - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) loadParticipants(
	ctx context.Context,
	executor DBExecutor,
	bookingIDs []string,
) (map[string][]domain.Participant, error) {
	query, args, err := psqlbuilder.Select(participantColumns...).
		From("booking_participants").
		Where(squirrel.Eq{"booking_id": bookingIDs}).
		OrderBy("booking_id", "is_guest", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadParticipants - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadParticipants - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[string][]domain.Participant, len(bookingIDs))
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.BookingID, &p.UserID, &p.GuestName, &p.GuestEmail, &p.IsGuest); err != nil {
			return nil, fmt.Errorf("%w: loadParticipants - scan participant: %v", ErrScanRow, err)
		}
		result[p.BookingID] = append(result[p.BookingID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadParticipants - rows iteration: %v", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func bookingDest(b *domain.Booking, checkIn, cancelled *sql.NullTime) []interface{} {
	return []interface{}{
		&b.ID,
		&b.ClubID,
		&b.FacilityID,
		&b.UserID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.Type,
		checkIn,
		cancelled,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                  domain.Booking
		checkIn, cancelled sql.NullTime
	)
	if err := row.Scan(bookingDest(&b, &checkIn, &cancelled)...); err != nil {
		return nil, err
	}
	setNullTimes(&b, checkIn, cancelled)
	return &b, nil
}

// scanBookings сканирует строки; withRequester = в выборке есть колонки u.name, u.email
func scanBookings(rows *sql.Rows, withRequester bool) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var (
			b                  domain.Booking
			checkIn, cancelled sql.NullTime
			name, mail         sql.NullString
		)

		dest := bookingDest(&b, &checkIn, &cancelled)
		if withRequester {
			dest = append(dest, &name, &mail)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %v", ErrScanRow, err)
		}

		setNullTimes(&b, checkIn, cancelled)
		if withRequester {
			b.Requester = &domain.UserInfo{ID: b.UserID}
			if name.Valid {
				b.Requester.Name = &name.String
			}
			if mail.Valid {
				b.Requester.Email = &mail.String
			}
		}

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows iteration: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func checkAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func setNullTimes(b *domain.Booking, checkIn, cancelled sql.NullTime) {
	if checkIn.Valid {
		b.CheckInAt = &checkIn.Time
	}
	if cancelled.Valid {
		b.CancelledAt = &cancelled.Time
	}
}
