package membership

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

var (
	// ErrMembershipNotFound возвращается, когда пользователь не состоит в клубе
	ErrMembershipNotFound = errors.New("membership.repository: membership not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("membership.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("membership.repository: failed to scan row")
)

// Repository репозиторий членства в клубах (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория членства
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает членство пользователя в клубе в любом статусе
func (r *Repository) Get(ctx context.Context, clubID, userID string) (*domain.Membership, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "club_id", "user_id", "role", "status", "created_at").
		From("memberships").
		Where(squirrel.Eq{"club_id": clubID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Membership
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&m.ClubID,
		&m.UserID,
		&m.Role,
		&m.Status,
		&m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan membership: %v", ErrScanRow, err)
	}

	return &m, nil
}
