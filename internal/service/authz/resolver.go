package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	membershipRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/membership"
)

// ErrInternal возвращается при ошибке чтения членства
var ErrInternal = errors.New("authz.resolver: internal error")

// MembershipRepository источник членства в клубах
type MembershipRepository interface {
	Get(ctx context.Context, clubID, userID string) (*domain.Membership, error)
}

// Resolver строит AuthorizationContext пользователя в клубе
type Resolver struct {
	repo MembershipRepository
}

// NewResolver создает резолвер прав
func NewResolver(repo MembershipRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve возвращает права пользователя в клубе; отсутствие членства не ошибка
func (r *Resolver) Resolve(ctx context.Context, userID, clubID string) (*domain.AuthorizationContext, error) {
	m, err := r.repo.Get(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, membershipRepo.ErrMembershipNotFound) {
			return domain.NewAuthorizationContext(userID, clubID, nil), nil
		}
		return nil, fmt.Errorf("%w: Resolve user=%s club=%s: %v", ErrInternal, userID, clubID, err)
	}
	return domain.NewAuthorizationContext(userID, clubID, m), nil
}

// RequireMember возвращает права, если пользователь активный участник клуба, иначе Forbidden
func (r *Resolver) RequireMember(ctx context.Context, userID, clubID string) (*domain.AuthorizationContext, error) {
	ac, err := r.Resolve(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if !ac.CanBook() {
		return nil, domain.Reject(domain.ErrForbidden, domain.ErrNotMember, "You must be an active member of this club")
	}
	return ac, nil
}

// RequireManager возвращает права, если пользователь активный владелец или администратор клуба
func (r *Resolver) RequireManager(ctx context.Context, userID, clubID string) (*domain.AuthorizationContext, error) {
	ac, err := r.Resolve(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if !ac.CanManageFacilities() {
		return nil, domain.Reject(domain.ErrForbidden, domain.ErrNotManager,
			"You do not have permission to manage facilities for this club")
	}
	return ac, nil
}
