package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"openshelf-backend/internal/domain"
)

func TestPatronService_Register(t *testing.T) {
	ctx := context.Background()
	cardPattern := regexp.MustCompile(`^OS-[0-9A-F-]{8}$`)

	t.Run("registration fills in defaults", func(t *testing.T) {
		repo := new(MockPatronRepo)
		svc := NewPatronService(repo, testPolicy())
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Patron")).Return(nil)

		p := &domain.Patron{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
		err := svc.Register(ctx, p)
		assert.NoError(t, err)
		assert.Regexp(t, cardPattern, p.CardNumber)
		assert.Equal(t, domain.MembershipStandard, p.MembershipType)
		assert.Equal(t, int32(10), p.MaxBorrowLimit)
		assert.Equal(t, domain.AccountActive, p.AccountStatus)
		assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), p.MembershipExpiry, 2*time.Second)
	})

	t.Run("premium tier gets a higher limit", func(t *testing.T) {
		repo := new(MockPatronRepo)
		svc := NewPatronService(repo, testPolicy())
		repo.On("Create", ctx, mock.Anything).Return(nil)

		p := &domain.Patron{FirstName: "Ada", Email: "ada@example.com", MembershipType: domain.MembershipPremium}
		assert.NoError(t, svc.Register(ctx, p))
		assert.Equal(t, int32(15), p.MaxBorrowLimit)
	})
}

func TestPatronService_Reactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("lapsed membership reactivates as expired", func(t *testing.T) {
		repo := new(MockPatronRepo)
		svc := NewPatronService(repo, testPolicy())
		patron := activePatron(7, domain.MembershipStandard)
		patron.AccountStatus = domain.AccountSuspended
		patron.MembershipExpiry = time.Now().Add(-24 * time.Hour)
		repo.On("GetByID", ctx, int32(7)).Return(patron, nil)
		repo.On("SetAccountStatus", ctx, int32(7), domain.AccountExpired).Return(nil)

		assert.NoError(t, svc.Reactivate(ctx, 7))
		repo.AssertExpectations(t)
	})

	t.Run("current membership reactivates as active", func(t *testing.T) {
		repo := new(MockPatronRepo)
		svc := NewPatronService(repo, testPolicy())
		patron := activePatron(7, domain.MembershipStandard)
		patron.AccountStatus = domain.AccountSuspended
		repo.On("GetByID", ctx, int32(7)).Return(patron, nil)
		repo.On("SetAccountStatus", ctx, int32(7), domain.AccountActive).Return(nil)

		assert.NoError(t, svc.Reactivate(ctx, 7))
		repo.AssertExpectations(t)
	})
}

func TestPatronService_RenewMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("renewal extends a live membership from its expiry", func(t *testing.T) {
		repo := new(MockPatronRepo)
		svc := NewPatronService(repo, testPolicy())
		patron := activePatron(7, domain.MembershipStandard)
		expected := patron.MembershipExpiry.Add(365 * 24 * time.Hour)
		repo.On("GetByID", ctx, int32(7)).Return(patron, nil)
		repo.On("RenewMembership", ctx, int32(7), mock.MatchedBy(func(at time.Time) bool {
			return at.Equal(expected)
		})).Return(nil)

		_, err := svc.RenewMembership(ctx, 7)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("renewal of a lapsed membership starts today", func(t *testing.T) {
		repo := new(MockPatronRepo)
		svc := NewPatronService(repo, testPolicy())
		patron := activePatron(7, domain.MembershipStandard)
		patron.MembershipExpiry = time.Now().Add(-90 * 24 * time.Hour)
		repo.On("GetByID", ctx, int32(7)).Return(patron, nil)
		repo.On("RenewMembership", ctx, int32(7), mock.MatchedBy(func(at time.Time) bool {
			return time.Until(at) > 364*24*time.Hour && time.Until(at) < 366*24*time.Hour
		})).Return(nil)

		_, err := svc.RenewMembership(ctx, 7)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
