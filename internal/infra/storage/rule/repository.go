package rule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/psqlbuilder"
)

var ruleColumns = []string{
	"id",
	"club_id",
	"facility_type_id",
	"type",
	"value",
	"created_at",
}

// Repository репозиторий правил бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetFirst возвращает первое правило вида ruleType для типа площадки
// Порядок (created_at, id) детерминирован, если в старых данных осталось несколько строк одного вида.
func (r *Repository) GetFirst(
	ctx context.Context,
	clubID, facilityTypeID string,
	ruleType domain.RuleType,
) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("booking_rules").
		Where(squirrel.Eq{
			"club_id":          clubID,
			"facility_type_id": facilityTypeID,
			"type":             ruleType,
		}).
		OrderBy("created_at ASC", "id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetFirst - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetFirst - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// ListByTypes возвращает все правила перечисленных типов площадок
func (r *Repository) ListByTypes(ctx context.Context, typeIDs []string) ([]*domain.BookingRule, error) {
	if len(typeIDs) == 0 {
		return []*domain.BookingRule{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("booking_rules").
		Where(squirrel.Eq{"facility_type_id": typeIDs}).
		OrderBy("facility_type_id", "created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTypes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTypes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.BookingRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTypes - scan rule: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTypes - rows iteration: %v", ErrScanRow, err)
	}

	return rules, nil
}

// Replace удаляет все правила типа площадки и записывает новые
func (r *Repository) Replace(ctx context.Context, clubID, facilityTypeID string, rules []domain.BookingRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_rules").
		Where(squirrel.Eq{"facility_type_id": facilityTypeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - execute delete: %v", ErrExecQuery, err)
	}

	if len(rules) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("booking_rules").
		Columns("id", "club_id", "facility_type_id", "type", "value")
	for i := range rules {
		rules[i].ID = uuid.NewString()
		rules[i].ClubID = clubID
		rules[i].FacilityTypeID = facilityTypeID
		insertBuilder = insertBuilder.Values(rules[i].ID, clubID, facilityTypeID, rules[i].Type, string(rules[i].Value))
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: Replace: %v", ErrDuplicateRule, err)
		}
		return fmt.Errorf("%w: Replace - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRule читает jsonb через []byte: lib/pq и pgx отдают его разными типами
func scanRule(row rowScanner) (*domain.BookingRule, error) {
	var (
		rule  domain.BookingRule
		value []byte
	)
	if err := row.Scan(&rule.ID, &rule.ClubID, &rule.FacilityTypeID, &rule.Type, &value, &rule.CreatedAt); err != nil {
		return nil, err
	}
	rule.Value = json.RawMessage(value)
	return &rule, nil
}
