package impl

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"dinein/config"
	"dinein/internal/domain/constants"
	"dinein/internal/domain/entity"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/service"
	"dinein/internal/infra/backend/backendtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_RequestCode_NormalizesAndStoresHint(t *testing.T) {
	f := newFixture(t)
	f.backend.EnableDevOTP()

	otp, err := f.session.RequestCode(context.Background(), " 98765 43210 ")

	require.NoError(t, err)
	assert.Equal(t, testPhone, otp.PhoneNumber)
	assert.Equal(t, backendtest.DefaultOTP, otp.DevOTP)
	assert.Equal(t, backendtest.DefaultOTP, f.session.DevOTPHint(context.Background()))
	assert.Equal(t, 3, f.session.Countdown())

	state := f.session.State()
	assert.Equal(t, entity.PhaseAnonymous, state.Phase)
	assert.Equal(t, testPhone, state.PhoneNumber)
}

func TestSessionService_RequestCode_ProductionHidesHint(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Backend.ProductionMode = true })
	f.backend.EnableDevOTP()

	otp, err := f.session.RequestCode(context.Background(), testPhone)

	require.NoError(t, err)
	assert.Empty(t, otp.DevOTP)
	assert.Empty(t, f.session.DevOTPHint(context.Background()))
	_, ok := f.stored(t, constants.StorageKeyDevOTP)
	assert.False(t, ok)
}

func TestSessionService_RequestCode_InvalidPhone(t *testing.T) {
	tests := []string{"", "12345", "98765abcde", "+1234567890123456"}

	for _, phone := range tests {
		t.Run(phone, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.session.RequestCode(context.Background(), phone)

			assert.ErrorIs(t, err, domainerrors.ErrValidation)
			assert.Zero(t, f.backend.Calls(http.MethodPost, "/customer/send-otp"))
		})
	}
}

func TestSessionService_RequestCode_BackendDown(t *testing.T) {
	f := newFixture(t)
	f.backend.FailNext(http.MethodPost, "/customer/send-otp", http.StatusServiceUnavailable, "maintenance")

	_, err := f.session.RequestCode(context.Background(), testPhone)

	assert.ErrorIs(t, err, domainerrors.ErrServer)
	assert.True(t, domainerrors.Retryable(err))
	assert.Empty(t, f.session.State().PhoneNumber)
}

func TestSessionService_VerifyCode_WrongCodeStaysAnonymous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.session.RequestCode(ctx, "+15551234567")
	require.NoError(t, err)

	state, err := f.session.VerifyCode(ctx, "000000")

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCode)
	assert.Equal(t, entity.PhaseAnonymous, state.Phase)
	assert.False(t, f.credentials.Current().Present())
	_, ok := f.stored(t, constants.StorageKeyAuthToken)
	assert.False(t, ok)
	assert.Zero(t, f.events.count(service.SessionEventLoggedIn))
}

func TestSessionService_VerifyCode_Malformed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.session.RequestCode(ctx, testPhone)
	require.NoError(t, err)

	_, err = f.session.VerifyCode(ctx, "12ab")

	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Zero(t, f.backend.Calls(http.MethodPost, "/customer/verify-otp"))
}

func TestSessionService_VerifyCode_WithoutRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.VerifyCode(context.Background(), backendtest.DefaultOTP)

	assert.ErrorIs(t, err, domainerrors.ErrNoPendingPhone)
}

func TestSessionService_VerifyCode_Success(t *testing.T) {
	f := newFixture(t)
	f.backend.EnableDevOTP()
	f.backend.StartSession("T1", time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC))

	state := f.login(t)

	assert.Equal(t, entity.PhaseAuthenticated, state.Phase)
	require.NotNil(t, state.Customer)
	assert.Equal(t, "cust-1", state.Customer.ID)
	require.NotNil(t, state.Table)
	assert.Equal(t, "T1", state.Table.Table.ID)

	token, ok := f.stored(t, constants.StorageKeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, backendtest.DefaultToken, token)
	_, ok = f.stored(t, constants.StorageKeyDevOTP)
	assert.False(t, ok)
	assert.Equal(t, 1, f.events.count(service.SessionEventLoggedIn))
}

func TestSessionService_VerifyCode_SuppressesExpiryWhileAuthenticating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.session.RequestCode(ctx, testPhone)
	require.NoError(t, err)

	release := f.backend.Hold(http.MethodGet, "/customer/profile")

	done := make(chan error, 1)
	go func() {
		_, err := f.session.VerifyCode(ctx, backendtest.DefaultOTP)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return f.backend.Calls(http.MethodGet, "/customer/profile") == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, entity.PhaseAuthenticating, f.session.State().Phase)

	// a stray 401 from a request racing the login must not log the user out
	f.credentials.ReportUnauthorized(ctx, f.credentials.Current().Generation)
	release()

	require.NoError(t, <-done)
	assert.Equal(t, entity.PhaseAuthenticated, f.session.State().Phase)
	assert.Zero(t, f.events.count(service.SessionEventSessionExpired))
}

func TestSessionService_VerifyCode_ProfileRejectedRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.session.RequestCode(ctx, testPhone)
	require.NoError(t, err)
	f.backend.FailNext(http.MethodGet, "/customer/profile", http.StatusUnauthorized, "Unauthorized")

	state, err := f.session.VerifyCode(ctx, backendtest.DefaultOTP)

	assert.ErrorIs(t, err, domainerrors.ErrAuthExpired)
	assert.Equal(t, entity.PhaseAnonymous, state.Phase)
	assert.False(t, f.credentials.Current().Present())
	_, ok := f.stored(t, constants.StorageKeyAuthToken)
	assert.False(t, ok)
	assert.Empty(t, f.session.TakeExpiryNotice())
}

func TestSessionService_ExpiryTearsDownExactlyOnce(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	var transitions []entity.Phase
	var mu sync.Mutex
	f.session.Subscribe(func(_ context.Context, _, next entity.SessionState) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, next.Phase)
	})

	f.backend.Revoke()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.session.FetchProfile(ctx)
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, entity.PhaseAnonymous, f.session.State().Phase)
	assert.Equal(t, 1, f.events.count(service.SessionEventSessionExpired))
	assert.Equal(t, []entity.Phase{entity.PhaseAnonymous}, transitions)

	_, ok := f.stored(t, constants.StorageKeyAuthToken)
	assert.False(t, ok)

	assert.Equal(t, expiryNotice, f.session.TakeExpiryNotice())
	assert.Empty(t, f.session.TakeExpiryNotice())
}

func TestSessionService_StaleExpiryReportIgnored(t *testing.T) {
	f := newFixture(t)
	first := f.login(t)
	ctx := context.Background()

	f.session.Logout(ctx)
	second := f.login(t)
	require.NotEqual(t, first.Generation, second.Generation)

	f.credentials.ReportUnauthorized(ctx, first.Generation)

	assert.True(t, f.session.State().Established())
	assert.Zero(t, f.events.count(service.SessionEventSessionExpired))
}

func TestSessionService_FetchProfile_DropsStaleResponse(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	release := f.backend.Hold(http.MethodGet, "/customer/profile")
	done := make(chan entity.SessionState, 1)
	go func() {
		state, _ := f.session.FetchProfile(ctx)
		done <- state
	}()

	require.Eventually(t, func() bool {
		return f.backend.Calls(http.MethodGet, "/customer/profile") == 2
	}, 2*time.Second, 5*time.Millisecond)
	f.session.Logout(ctx)
	release()

	state := <-done
	assert.Equal(t, entity.PhaseAnonymous, state.Phase)
	assert.Nil(t, state.Customer)
}

func TestSessionService_LogoutClearsEverything(t *testing.T) {
	f := newFixture(t)
	f.backend.EnableDevOTP()
	f.login(t)
	ctx := context.Background()

	_, err := f.session.BindTable(ctx, "T1")
	require.NoError(t, err)
	require.NoError(t, f.cart.Add(ctx, f.addInput(t, "p1", 2)))
	require.NoError(t, f.state.Set(ctx, constants.StorageKeyPendingTableID, "T2"))
	require.NoError(t, f.state.Set(ctx, constants.StorageKeyDevOTP, "999999"))

	f.session.Logout(ctx)

	state := f.session.State()
	assert.Equal(t, entity.PhaseAnonymous, state.Phase)
	assert.Nil(t, state.Customer)
	assert.Nil(t, state.Table)
	assert.Empty(t, state.PhoneNumber)
	assert.False(t, f.credentials.Current().Present())

	cart := f.cart.Snapshot()
	assert.True(t, cart.Empty())
	assert.True(t, cart.Total.IsZero())

	for _, key := range []string{constants.StorageKeyAuthToken, constants.StorageKeyPendingTableID, constants.StorageKeyDevOTP} {
		_, ok := f.stored(t, key)
		assert.False(t, ok, key)
	}
	assert.Equal(t, 1, f.events.count(service.SessionEventLoggedOut))

	// logout is unconditional
	f.session.Logout(ctx)
	assert.Equal(t, 1, f.events.count(service.SessionEventLoggedOut))
}

func TestSessionService_ResendCountdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.session.ResendCode(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrNoPendingPhone)

	_, err = f.session.RequestCode(ctx, testPhone)
	require.NoError(t, err)

	_, err = f.session.ResendCode(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrResendNotReady)

	assert.Equal(t, 2, f.session.Tick())
	assert.Equal(t, 1, f.session.Tick())
	assert.Equal(t, 0, f.session.Tick())
	assert.Equal(t, 0, f.session.Tick())

	otp, err := f.session.ResendCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, testPhone, otp.PhoneNumber)
	assert.Equal(t, 3, f.session.Countdown())
	assert.Equal(t, 2, f.backend.Calls(http.MethodPost, "/customer/send-otp"))
}

func TestSessionService_Restore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.state.Set(ctx, constants.StorageKeyAuthToken, backendtest.DefaultToken))

	require.NoError(t, f.session.Restore(ctx))

	state := f.session.State()
	assert.True(t, state.Established())
	assert.Equal(t, backendtest.DefaultToken, f.credentials.Current().Token)
}

func TestSessionService_Restore_RejectedToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.state.Set(ctx, constants.StorageKeyAuthToken, "stale-token"))

	require.NoError(t, f.session.Restore(ctx))

	assert.Equal(t, entity.PhaseAnonymous, f.session.State().Phase)
	assert.False(t, f.credentials.Current().Present())
	_, ok := f.stored(t, constants.StorageKeyAuthToken)
	assert.False(t, ok)
}

func TestSessionService_Restore_Nothing(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Restore(context.Background()))

	assert.Equal(t, entity.PhaseAnonymous, f.session.State().Phase)
	assert.Zero(t, f.backend.Calls(http.MethodGet, "/customer/profile"))
}

func TestSessionService_BindTable_ClearsMarker(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.OccupyTable("T2")
	ctx := context.Background()

	require.NoError(t, f.state.Set(ctx, constants.StorageKeyPendingTableID, "T2"))
	_, err := f.session.BindTable(ctx, "T2")
	assert.ErrorIs(t, err, domainerrors.ErrTableOccupied)
	_, ok := f.stored(t, constants.StorageKeyPendingTableID)
	assert.False(t, ok)
	assert.Nil(t, f.session.State().Table)

	require.NoError(t, f.state.Set(ctx, constants.StorageKeyPendingTableID, "T1"))
	table, err := f.session.BindTable(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "Spice Route", table.Restaurant.Name)
	_, ok = f.stored(t, constants.StorageKeyPendingTableID)
	assert.False(t, ok)
	assert.True(t, f.session.State().HasTable())
	assert.Equal(t, 1, f.events.count(service.SessionEventTableBound))
}

func TestSessionService_BindTable_RequiresLogin(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.BindTable(context.Background(), "T1")

	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
	assert.Zero(t, f.backend.Calls(http.MethodPost, "/customer/scan-table/T1"))
}

func TestSessionService_Checkout(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	// no active table
	require.NoError(t, f.session.Checkout(ctx))
	assert.Zero(t, f.backend.Calls(http.MethodPost, "/customer/checkout"))

	_, err := f.session.BindTable(ctx, "T1")
	require.NoError(t, err)

	require.NoError(t, f.session.Checkout(ctx))
	assert.False(t, f.session.State().HasTable())
	assert.True(t, f.session.State().Established())
	assert.False(t, f.backend.HasSession())
	assert.Equal(t, 1, f.events.count(service.SessionEventCheckedOut))

	require.NoError(t, f.session.Checkout(ctx))
	assert.Equal(t, 1, f.backend.Calls(http.MethodPost, "/customer/checkout"))
}

func TestSessionService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.session.UpdateProfile(ctx, "Asha"), domainerrors.ErrNotAuthenticated)

	f.login(t)

	assert.ErrorIs(t, f.session.UpdateProfile(ctx, "   "), domainerrors.ErrValidation)

	require.NoError(t, f.session.UpdateProfile(ctx, " Asha "))
	assert.Equal(t, "Asha", f.session.State().Customer.Name)
	assert.Equal(t, "Asha", f.backend.CustomerName())
}
