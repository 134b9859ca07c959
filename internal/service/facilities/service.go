package facilities

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	facilityRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/facility"
	ruleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/rule"
	scheduleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
)

// Service сервис каталога площадок и их настроек: часы работы, правила, закрытия
type Service struct {
	facilityRepo FacilityRepository
	scheduleRepo ScheduleRepository
	ruleRepo     RuleRepository
	access       AccessResolver
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса площадок
func NewService(
	facilityRepo FacilityRepository,
	scheduleRepo ScheduleRepository,
	ruleRepo RuleRepository,
	access AccessResolver,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		facilityRepo: facilityRepo,
		scheduleRepo: scheduleRepo,
		ruleRepo:     ruleRepo,
		access:       access,
		txManager:    txManager,
		logger:       logger,
	}
}

// ListTypes возвращает типы площадок клуба вместе с площадками, часами работы, закрытиями и правилами
// Доступно любому аутентифицированному пользователю
func (s *Service) ListTypes(ctx context.Context, clubID string) (*models.FacilityTypeListResponse, error) {
	s.logger.Info("ListTypes: fetching facility types for club=%s", clubID)

	types, err := s.facilityRepo.ListTypes(ctx, clubID)
	if err != nil {
		s.logger.Error("ListTypes: failed to list types for club=%s: %v", clubID, err)
		return nil, fmt.Errorf("%w: ListTypes - list types: %v", ErrInternal, err)
	}

	resp := &models.FacilityTypeListResponse{FacilityTypes: make([]models.FacilityTypeResponse, 0, len(types))}
	if len(types) == 0 {
		return resp, nil
	}

	typeIDs := make([]string, 0, len(types))
	index := make(map[string]int, len(types))
	for i, t := range types {
		typeIDs = append(typeIDs, t.ID)
		index[t.ID] = i
		resp.FacilityTypes = append(resp.FacilityTypes, models.FromDomainFacilityType(t))
	}

	facilities, err := s.facilityRepo.ListByClub(ctx, clubID)
	if err != nil {
		s.logger.Error("ListTypes: failed to list facilities for club=%s: %v", clubID, err)
		return nil, fmt.Errorf("%w: ListTypes - list facilities: %v", ErrInternal, err)
	}
	for _, f := range facilities {
		if i, ok := index[f.FacilityTypeID]; ok {
			resp.FacilityTypes[i].Facilities = append(resp.FacilityTypes[i].Facilities, models.FromDomainFacility(f))
		}
	}

	hours, err := s.scheduleRepo.ListOpeningHoursByTypes(ctx, typeIDs)
	if err != nil {
		s.logger.Error("ListTypes: failed to list opening hours for club=%s: %v", clubID, err)
		return nil, fmt.Errorf("%w: ListTypes - list opening hours: %v", ErrInternal, err)
	}
	for _, h := range hours {
		if h.FacilityTypeID == nil {
			continue
		}
		if i, ok := index[*h.FacilityTypeID]; ok {
			resp.FacilityTypes[i].OpeningHours = append(resp.FacilityTypes[i].OpeningHours, models.FromDomainOpeningHours(h))
		}
	}

	closures, err := s.scheduleRepo.ListClosures(ctx, domain.ClosureFilter{ClubID: clubID})
	if err != nil {
		s.logger.Error("ListTypes: failed to list closures for club=%s: %v", clubID, err)
		return nil, fmt.Errorf("%w: ListTypes - list closures: %v", ErrInternal, err)
	}
	facilityType := make(map[string]string, len(facilities))
	for _, f := range facilities {
		facilityType[f.ID] = f.FacilityTypeID
	}
	for i := range closures {
		c := &closures[i]
		typeID := ""
		switch {
		case c.FacilityTypeID != nil:
			typeID = *c.FacilityTypeID
		case c.FacilityID != nil:
			typeID = facilityType[*c.FacilityID]
		}
		if idx, ok := index[typeID]; ok {
			resp.FacilityTypes[idx].Closures = append(resp.FacilityTypes[idx].Closures, *models.FromDomainClosure(c))
		}
	}

	rules, err := s.ruleRepo.ListByTypes(ctx, typeIDs)
	if err != nil {
		s.logger.Error("ListTypes: failed to list rules for club=%s: %v", clubID, err)
		return nil, fmt.Errorf("%w: ListTypes - list rules: %v", ErrInternal, err)
	}
	for _, r := range rules {
		if i, ok := index[r.FacilityTypeID]; ok {
			resp.FacilityTypes[i].Rules = append(resp.FacilityTypes[i].Rules, models.FromDomainRule(r))
		}
	}

	s.logger.Info("ListTypes: successfully fetched %d facility types for club=%s", len(types), clubID)
	return resp, nil
}

// UpdateOpeningHours полностью заменяет часы работы типа площадки
// Доступно только владельцу и администраторам клуба
func (s *Service) UpdateOpeningHours(ctx context.Context, req *models.UpdateOpeningHoursRequest) (*models.OpeningHoursListResponse, error) {
	s.logger.Info("UpdateOpeningHours: type=%s, %d intervals by user=%s", req.FacilityTypeID, len(req.Hours), req.UserID)

	hours, err := toDomainOpeningHours(req.FacilityTypeID, req.Hours)
	if err != nil {
		s.logger.Warn("UpdateOpeningHours: validation failed: %v", err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.requireTypeManager(txCtx, req.UserID, req.FacilityTypeID); err != nil {
			return err
		}

		if err := s.scheduleRepo.ReplaceTypeOpeningHours(txCtx, req.FacilityTypeID, hours); err != nil {
			s.logger.Error("UpdateOpeningHours: failed to replace hours for type=%s: %v", req.FacilityTypeID, err)
			return fmt.Errorf("%w: UpdateOpeningHours - replace: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &models.OpeningHoursListResponse{
		FacilityTypeID: req.FacilityTypeID,
		OpeningHours:   make([]models.OpeningHoursResponse, 0, len(hours)),
	}
	for _, h := range hours {
		resp.OpeningHours = append(resp.OpeningHours, models.FromDomainOpeningHours(h))
	}

	s.logger.Info("UpdateOpeningHours: successfully replaced hours for type=%s", req.FacilityTypeID)
	return resp, nil
}

// UpdateBookingRules полностью заменяет правила типа площадки и, если задан, шаг бронирования
// Доступно только владельцу и администраторам клуба
func (s *Service) UpdateBookingRules(ctx context.Context, req *models.UpdateBookingRulesRequest) (*models.RulesResponse, error) {
	s.logger.Info("UpdateBookingRules: type=%s, %d rules by user=%s", req.FacilityTypeID, len(req.Rules), req.UserID)

	if err := validateBookingInterval(req.BookingIntervalMinutes); err != nil {
		s.logger.Warn("UpdateBookingRules: validation failed: %v", err)
		return nil, err
	}
	rules, err := toDomainRules(req.Rules)
	if err != nil {
		s.logger.Warn("UpdateBookingRules: validation failed: %v", err)
		return nil, err
	}

	var interval int
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		facilityType, err := s.requireTypeManager(txCtx, req.UserID, req.FacilityTypeID)
		if err != nil {
			return err
		}
		interval = facilityType.BookingIntervalMinutes

		if err := s.ruleRepo.Replace(txCtx, facilityType.ClubID, facilityType.ID, rules); err != nil {
			if errors.Is(err, ruleRepo.ErrDuplicateRule) {
				return domain.Reject(domain.ErrInvalidRequest, domain.ErrDuplicateRule,
					"each rule type may be specified only once")
			}
			s.logger.Error("UpdateBookingRules: failed to replace rules for type=%s: %v", req.FacilityTypeID, err)
			return fmt.Errorf("%w: UpdateBookingRules - replace: %v", ErrInternal, err)
		}

		if req.BookingIntervalMinutes != nil {
			if err := s.facilityRepo.UpdateBookingInterval(txCtx, facilityType.ID, *req.BookingIntervalMinutes); err != nil {
				s.logger.Error("UpdateBookingRules: failed to update interval for type=%s: %v", req.FacilityTypeID, err)
				return fmt.Errorf("%w: UpdateBookingRules - update interval: %v", ErrInternal, err)
			}
			interval = *req.BookingIntervalMinutes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &models.RulesResponse{
		FacilityTypeID:         req.FacilityTypeID,
		BookingIntervalMinutes: interval,
		Rules:                  make([]models.RuleResponse, 0, len(rules)),
	}
	for i := range rules {
		resp.Rules = append(resp.Rules, models.FromDomainRule(&rules[i]))
	}

	s.logger.Info("UpdateBookingRules: successfully replaced rules for type=%s", req.FacilityTypeID)
	return resp, nil
}

// CreateClosure закрывает площадку или весь тип площадок на период дат (включительно)
// Доступно только владельцу и администраторам клуба
func (s *Service) CreateClosure(ctx context.Context, req *models.CreateClosureRequest) (*models.ClosureResponse, error) {
	s.logger.Info("CreateClosure: club=%s, %s..%s by user=%s", req.ClubID, req.StartDate, req.EndDate, req.UserID)

	closure, err := parseClosure(req)
	if err != nil {
		s.logger.Warn("CreateClosure: validation failed: %v", err)
		return nil, err
	}

	var created *domain.Closure
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.access.RequireManager(txCtx, req.UserID, req.ClubID); err != nil {
			return err
		}

		if err := s.checkClosureScope(txCtx, closure); err != nil {
			return err
		}

		c, err := s.scheduleRepo.CreateClosure(txCtx, closure)
		if err != nil {
			s.logger.Error("CreateClosure: failed to create closure for club=%s: %v", req.ClubID, err)
			return fmt.Errorf("%w: CreateClosure - create: %v", ErrInternal, err)
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateClosure: successfully created closure id=%s", created.ID)
	return models.FromDomainClosure(created), nil
}

// DeleteClosure удаляет закрытие
// Доступно только владельцу и администраторам клуба
func (s *Service) DeleteClosure(ctx context.Context, closureID string, userID string) error {
	s.logger.Info("DeleteClosure: closure=%s by user=%s", closureID, userID)

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		closure, err := s.scheduleRepo.GetClosure(txCtx, closureID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrClosureNotFound) {
				s.logger.Warn("DeleteClosure: closure id=%s not found", closureID)
				return domain.Reject(domain.ErrNotFound, domain.ErrClosureNotFound, "Closure not found")
			}
			s.logger.Error("DeleteClosure: failed to get closure id=%s: %v", closureID, err)
			return fmt.Errorf("%w: DeleteClosure - get: %v", ErrInternal, err)
		}

		if _, err := s.access.RequireManager(txCtx, userID, closure.ClubID); err != nil {
			return err
		}

		if err := s.scheduleRepo.DeleteClosure(txCtx, closureID); err != nil {
			if errors.Is(err, scheduleRepo.ErrClosureNotFound) {
				return domain.Reject(domain.ErrNotFound, domain.ErrClosureNotFound, "Closure not found")
			}
			s.logger.Error("DeleteClosure: failed to delete closure id=%s: %v", closureID, err)
			return fmt.Errorf("%w: DeleteClosure - delete: %v", ErrInternal, err)
		}

		s.logger.Info("DeleteClosure: successfully deleted closure id=%s", closureID)
		return nil
	})
}

// Вспомогательные методы

// requireTypeManager загружает тип площадки и проверяет, что пользователь управляет его клубом
func (s *Service) requireTypeManager(ctx context.Context, userID, typeID string) (*domain.FacilityType, error) {
	facilityType, err := s.facilityRepo.GetType(ctx, typeID)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityTypeNotFound) {
			s.logger.Warn("requireTypeManager: facility type id=%s not found", typeID)
			return nil, domain.Reject(domain.ErrNotFound, domain.ErrFacilityTypeNotFound, "Facility type not found")
		}
		s.logger.Error("requireTypeManager: failed to get facility type id=%s: %v", typeID, err)
		return nil, fmt.Errorf("%w: get facility type: %v", ErrInternal, err)
	}

	if _, err := s.access.RequireManager(ctx, userID, facilityType.ClubID); err != nil {
		s.logger.Warn("requireTypeManager: user=%s cannot manage club=%s", userID, facilityType.ClubID)
		return nil, err
	}

	return facilityType, nil
}

// checkClosureScope проверяет, что площадка или тип закрытия принадлежат клубу
func (s *Service) checkClosureScope(ctx context.Context, c *domain.Closure) error {
	if c.FacilityTypeID != nil {
		facilityType, err := s.facilityRepo.GetType(ctx, *c.FacilityTypeID)
		if errors.Is(err, facilityRepo.ErrFacilityTypeNotFound) || (err == nil && facilityType.ClubID != c.ClubID) {
			return domain.Reject(domain.ErrNotFound, domain.ErrFacilityTypeNotFound, "Facility type not found")
		}
		if err != nil {
			return fmt.Errorf("%w: checkClosureScope - get type: %v", ErrInternal, err)
		}
		return nil
	}

	facility, err := s.facilityRepo.GetWithType(ctx, *c.FacilityID)
	if errors.Is(err, facilityRepo.ErrFacilityNotFound) || (err == nil && !facility.BelongsTo(c.ClubID)) {
		return domain.Reject(domain.ErrNotFound, domain.ErrFacilityNotFound, "Facility not found")
	}
	if err != nil {
		return fmt.Errorf("%w: checkClosureScope - get facility: %v", ErrInternal, err)
	}
	return nil
}
