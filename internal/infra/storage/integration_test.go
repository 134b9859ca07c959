//go:build integration

package storage_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/booking"
	facilityRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/facility"
	membershipRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/membership"
	ruleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/rule"
	scheduleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/admission"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/authz"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/rules"
	"github.com/m04kA/SMC-ClubBookingService/internal/testutil"
	createBooking "github.com/m04kA/SMC-ClubBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ClubBookingService/migrations"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClubBookingService/pkg/txmanager"
)

const (
	dbName     = "club_booking"
	dbUser     = "postgres"
	dbPassword = "postgres"

	clubID   = "club-int"
	typeID   = "type-int"
	courtID  = "court-int"
	racers   = 8
	ownerID  = "owner-int"
	memberID = "member-int-0"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
					host, port.Port(), dbUser, dbPassword, dbName)
			}).WithStartupTimeout(90*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(db))
	seed(t, db)
	return db
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()

	stmts := []string{
		`INSERT INTO clubs (id, name, slug) VALUES ('club-int', 'Integration Club', 'integration-club')`,
		`INSERT INTO users (id, name, email) VALUES ('owner-int', 'Owner', 'owner@example.com')`,
		`INSERT INTO memberships (id, club_id, user_id, role, status) VALUES ('m-owner', 'club-int', 'owner-int', 'owner', 'active')`,
		`INSERT INTO facility_types (id, club_id, name, booking_interval_minutes) VALUES ('type-int', 'club-int', 'Tennis', 30)`,
		`INSERT INTO facilities (id, club_id, facility_type_id, name, capacity) VALUES ('court-int', 'club-int', 'type-int', 'Court 1', 4)`,
		`INSERT INTO booking_rules (id, club_id, facility_type_id, type, value) VALUES
			('r-max', 'club-int', 'type-int', 'max_duration', '{"minutes": 120}'),
			('r-fee', 'club-int', 'type-int', 'guest_fee', '{"amount": 15}')`,
	}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		stmts = append(stmts, fmt.Sprintf(
			`INSERT INTO facility_opening_hours (id, facility_type_id, day_of_week, start_time, end_time)
			 VALUES ('h-%s', 'type-int', '%s', '08:00', '22:00')`, day, day))
	}
	for i := 0; i < racers; i++ {
		stmts = append(stmts,
			fmt.Sprintf(`INSERT INTO users (id, name) VALUES ('member-int-%d', 'Member %d')`, i, i),
			fmt.Sprintf(`INSERT INTO memberships (id, club_id, user_id, role, status)
				VALUES ('m-%d', 'club-int', 'member-int-%d', 'member', 'active')`, i, i),
		)
	}

	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

// nextWeek возвращает момент через неделю от текущего дня в hour:00 UTC
func nextWeek(hour int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func newCreateUseCase(db *sql.DB) (*createBooking.UseCase, *testutil.EventRecorder) {
	wrapped := dbmetrics.Plain(db)
	logger := testutil.NopLogger{}

	bookings := bookingRepo.NewRepository(wrapped)
	ruleSvc := rules.NewService(ruleRepo.NewRepository(wrapped), logger)
	checker := admission.NewChecker(
		facilityRepo.NewRepository(wrapped),
		availability.NewService(scheduleRepo.NewRepository(wrapped), logger),
		ruleSvc,
		conflicts.NewDetector(bookings),
		time.UTC,
		logger,
	)

	events := &testutil.EventRecorder{}
	uc := createBooking.NewUseCase(
		authz.NewResolver(membershipRepo.NewRepository(wrapped)),
		checker,
		bookings,
		ruleSvc,
		events,
		&testutil.DecisionRecorder{},
		txmanager.NewTransactionManager(wrapped),
		logger,
	)
	return uc, events
}

func TestIntegration_ConcurrentCreateHasSingleWinner(t *testing.T) {
	db := startPostgres(t)
	uc, events := newCreateUseCase(db)

	start := nextWeek(10)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted []string
		failures []error
	)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			resp, err := uc.Execute(context.Background(), &createBooking.Request{
				UserID:     user,
				ClubID:     clubID,
				FacilityID: courtID,
				StartTime:  start,
				EndTime:    start.Add(time.Hour),
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			accepted = append(accepted, resp.Booking.ID)
		}(fmt.Sprintf("member-int-%d", i))
	}
	wg.Wait()

	require.Len(t, accepted, 1)
	for _, err := range failures {
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.ErrorIs(t, err, domain.ErrSlotTaken)
	}
	assert.Len(t, events.Events, 1)

	var active int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM bookings WHERE facility_id = $1 AND status = 'booked'`, courtID,
	).Scan(&active))
	assert.Equal(t, 1, active)
}

func TestIntegration_ExclusionConstraint(t *testing.T) {
	db := startPostgres(t)
	repo := bookingRepo.NewRepository(dbmetrics.Plain(db))
	ctx := context.Background()
	start := nextWeek(12)

	newBooking := func(from, to time.Time) *domain.Booking {
		return &domain.Booking{
			ClubID:     clubID,
			FacilityID: courtID,
			UserID:     memberID,
			StartTime:  from,
			EndTime:    to,
			Status:     domain.StatusBooked,
			Type:       domain.BookingTypeUser,
		}
	}

	first, err := repo.Create(ctx, newBooking(start, start.Add(time.Hour)))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newBooking(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.ErrorIs(t, err, bookingRepo.ErrOverlap)

	_, err = repo.Create(ctx, newBooking(start.Add(time.Hour), start.Add(2*time.Hour)))
	require.NoError(t, err, "half-open intervals may touch")

	require.NoError(t, repo.Cancel(ctx, first.ID, time.Now().UTC()))
	_, err = repo.Create(ctx, newBooking(start.Add(30*time.Minute), start.Add(time.Hour)))
	require.NoError(t, err, "cancelled booking no longer blocks the slot")

	overlapping, err := repo.FindOverlapping(ctx, courtID, start, start.Add(2*time.Hour), "", 0)
	require.NoError(t, err)
	assert.Len(t, overlapping, 2)
}

func TestIntegration_ListWithParticipantsAndRequester(t *testing.T) {
	db := startPostgres(t)
	wrapped := dbmetrics.Plain(db)
	repo := bookingRepo.NewRepository(wrapped)
	tx := txmanager.NewTransactionManager(wrapped)
	ctx := context.Background()
	start := nextWeek(15)

	err := tx.Do(ctx, func(txCtx context.Context) error {
		_, err := repo.Create(txCtx, &domain.Booking{
			ClubID:     clubID,
			FacilityID: courtID,
			UserID:     ownerID,
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			Status:     domain.StatusBooked,
			Type:       domain.BookingTypeUser,
			Participants: []domain.Participant{
				{UserID: ptr.Ptr(memberID)},
				{IsGuest: true, GuestName: ptr.Ptr("Guest"), GuestEmail: ptr.Ptr("guest@example.com")},
			},
		})
		return err
	})
	require.NoError(t, err)

	list, err := repo.List(ctx, domain.BookingsFilter{
		ClubID: clubID,
		Start:  start.Add(-time.Hour),
		End:    start.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, list, 1)

	b := list[0]
	assert.True(t, start.Equal(b.StartTime))
	assert.Len(t, b.Participants, 2)
	assert.Equal(t, 1, b.GuestCount())
	require.NotNil(t, b.Requester)
	require.NotNil(t, b.Requester.Email)
	assert.Equal(t, "owner@example.com", *b.Requester.Email)

	empty, err := repo.List(ctx, domain.BookingsFilter{
		ClubID:      clubID,
		Start:       start.Add(-time.Hour),
		End:         start.Add(2 * time.Hour),
		FacilityIDs: []string{"court-unknown"},
	})
	require.NoError(t, err)
	assert.Empty(t, empty)

	booked := domain.StatusBooked
	mine, err := repo.ListByUser(ctx, domain.UserBookingsFilter{UserID: ownerID, From: start, Status: &booked})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Len(t, mine[0].Participants, 2)

	ended, err := repo.ListByUser(ctx, domain.UserBookingsFilter{UserID: ownerID, From: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, ended, "booking ending exactly at From is not upcoming")
}

func TestIntegration_RulesReplaceRejectsDuplicates(t *testing.T) {
	db := startPostgres(t)
	wrapped := dbmetrics.Plain(db)
	repo := ruleRepo.NewRepository(wrapped)
	tx := txmanager.NewTransactionManager(wrapped)
	ctx := context.Background()

	err := tx.Do(ctx, func(txCtx context.Context) error {
		return repo.Replace(txCtx, clubID, typeID, []domain.BookingRule{
			{Type: domain.RuleMaxDuration, Value: []byte(`{"minutes": 60}`)},
			{Type: domain.RuleMaxDuration, Value: []byte(`{"minutes": 90}`)},
		})
	})
	assert.ErrorIs(t, err, ruleRepo.ErrDuplicateRule)

	rule, err := repo.GetFirst(ctx, clubID, typeID, domain.RuleMaxDuration)
	require.NoError(t, err)
	assert.JSONEq(t, `{"minutes": 120}`, string(rule.Value), "failed replace is rolled back")
}

func TestIntegration_EventsStayOutOfTheTransaction(t *testing.T) {
	db := startPostgres(t)
	uc, events := newCreateUseCase(db)
	events.Err = eventbus.ErrPublish
	start := nextWeek(18)

	resp, err := uc.Execute(context.Background(), &createBooking.Request{
		UserID:     memberID,
		ClubID:     clubID,
		FacilityID: courtID,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Participants: []domain.Participant{
			{IsGuest: true, GuestName: ptr.Ptr("Guest")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.GuestFee)
	assert.Equal(t, 15.0, resp.GuestFee.Total)
}
