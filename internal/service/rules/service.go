package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	ruleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/rule"
)

// Service разрешает правила бронирования типа площадки
// Отсутствующее или нераспознанное правило означает «без ограничения», а не ошибку.
type Service struct {
	repo   RuleRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(repo RuleRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ResolveMaxDuration возвращает максимальную длительность брони
func (s *Service) ResolveMaxDuration(ctx context.Context, clubID, facilityTypeID string) (time.Duration, bool, error) {
	raw, found, err := s.load(ctx, clubID, facilityTypeID, domain.RuleMaxDuration)
	if err != nil || !found {
		return 0, false, err
	}

	limit, ok := domain.DecodeMaxDuration(raw)
	if !ok {
		s.logger.Warn("ResolveMaxDuration: unrecognized value %s for type=%s, treating as no limit",
			string(raw), facilityTypeID)
	}
	return limit, ok, nil
}

// ResolveCancellationWindow возвращает окно отмены до начала брони
func (s *Service) ResolveCancellationWindow(ctx context.Context, clubID, facilityTypeID string) (time.Duration, bool, error) {
	raw, found, err := s.load(ctx, clubID, facilityTypeID, domain.RuleCancellationWindow)
	if err != nil || !found {
		return 0, false, err
	}

	window, ok := domain.DecodeCancellationWindow(raw)
	if !ok {
		s.logger.Warn("ResolveCancellationWindow: unrecognized value %s for type=%s, treating as absent",
			string(raw), facilityTypeID)
	}
	return window, ok, nil
}

// ResolveGuestFee возвращает плату за одного гостя
func (s *Service) ResolveGuestFee(ctx context.Context, clubID, facilityTypeID string) (float64, bool, error) {
	raw, found, err := s.load(ctx, clubID, facilityTypeID, domain.RuleGuestFee)
	if err != nil || !found {
		return 0, false, err
	}

	amount, ok := domain.DecodeGuestFeeAmount(raw)
	if !ok {
		s.logger.Warn("ResolveGuestFee: unrecognized value %s for type=%s, treating as absent",
			string(raw), facilityTypeID)
	}
	return amount, ok, nil
}

func (s *Service) load(
	ctx context.Context,
	clubID, facilityTypeID string,
	ruleType domain.RuleType,
) (json.RawMessage, bool, error) {
	rule, err := s.repo.GetFirst(ctx, clubID, facilityTypeID, ruleType)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			return nil, false, nil
		}
		s.logger.Error("load: failed to get %s rule for club=%s, type=%s: %v", ruleType, clubID, facilityTypeID, err)
		return nil, false, fmt.Errorf("%w: load %s: %v", ErrInternal, ruleType, err)
	}
	return rule.Value, true, nil
}
