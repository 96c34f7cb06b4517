package register

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	crmstorage "github.com/louisbranch/crmdesk/internal/services/crm/storage"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, newFakeInvites(), nil, nil, nil)
	require.Error(t, err)
	_, err = NewService(&fakeAccounts{}, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestResolveInviteWithoutTokenSkipsStore(t *testing.T) {
	t.Parallel()

	f := newFixture(pendingInvite())
	got := f.svc.ResolveInvite(context.Background(), "  ")

	assert.Equal(t, InviteResolution{}, got)
	assert.Zero(t, f.invites.lookups)
}

func TestResolveInvitePending(t *testing.T) {
	t.Parallel()

	f := newFixture(pendingInvite())
	got := f.svc.ResolveInvite(context.Background(), "abc123")

	require.True(t, got.Present)
	require.False(t, got.Invalid)
	require.NotNil(t, got.Invite)
	assert.Equal(t, "a@x.com", got.Invite.Email)
	assert.Equal(t, "Acme", got.CompanyName)
}

func TestResolveInviteMissingCompanyKeepsInvite(t *testing.T) {
	t.Parallel()

	inv := pendingInvite()
	inv.CompanyID = "gone"
	f := newFixture(inv)
	got := f.svc.ResolveInvite(context.Background(), "abc123")

	require.NotNil(t, got.Invite)
	assert.False(t, got.Invalid)
	assert.Empty(t, got.CompanyName)
}

func TestResolveInviteInvalidStates(t *testing.T) {
	t.Parallel()

	accepted := pendingInvite()
	accepted.Token = "used"
	accepted.Status = invite.StatusAccepted

	tests := []struct {
		name    string
		token   string
		getErr  error
		wantErr error
	}{
		{name: "unknown token", token: "nope", wantErr: crmstorage.ErrNotFound},
		{name: "settled invite", token: "used", wantErr: crmstorage.ErrNotFound},
		{name: "backend failure", token: "abc123", getErr: errors.New("disk gone")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(pendingInvite(), accepted)
			f.invites.getErr = tc.getErr
			got := f.svc.ResolveInvite(context.Background(), tc.token)

			assert.True(t, got.Present)
			assert.True(t, got.Invalid)
			assert.Nil(t, got.Invite)
			require.Error(t, got.Err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, got.Err, tc.wantErr)
			}
		})
	}
}

func TestRegisterInvalidInviteSkipsSignUp(t *testing.T) {
	t.Parallel()

	f := newFixture(pendingInvite())
	resolution := f.svc.ResolveInvite(context.Background(), "nope")
	_, err := f.svc.Register(context.Background(), resolution, Form{Email: "a@x.com", Password: "secret1"})

	require.ErrorIs(t, err, ErrInviteInvalid)
	assert.Equal(t, "Invalid or expired invite.", err.Error())
	assert.Empty(t, f.accounts.calls)
}

func TestRegisterWithInviteUsesInviteValues(t *testing.T) {
	t.Parallel()

	f := newFixture(pendingInvite())
	ctx := context.Background()
	resolution := f.svc.ResolveInvite(ctx, "abc123")

	result, err := f.svc.Register(ctx, resolution, Form{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "other@y.com",
		Password:  "secret1",
		Company:   "Other Co",
	})
	require.NoError(t, err)

	require.Len(t, f.accounts.calls, 1)
	call := f.accounts.calls[0]
	assert.Equal(t, "a@x.com", call.Email)
	assert.Equal(t, "secret1", call.Password)
	assert.Equal(t, map[string]string{
		user.MetaFirstName: "Ada",
		user.MetaLastName:  "Lovelace",
		user.MetaCompany:   "co1",
		user.MetaRole:      "admin",
	}, call.Metadata)

	assert.Equal(t, invite.StatusAccepted, f.invites.status("abc123"))
	assert.Equal(t, []string{"inv-1"}, f.invites.accepted)
	assert.NoError(t, result.InviteAcceptErr)
	assert.Equal(t, Result{
		UserID:        "user-1",
		Notice:        "Account created! Confirm your email...",
		RedirectTo:    "/login",
		RedirectAfter: 1500 * time.Millisecond,
	}, result)

	saved := f.profiles.saved["user-1"]
	assert.Equal(t, "co1", saved.CompanyID)
	assert.Equal(t, "admin", saved.Role)
	assert.Equal(t, "Ada", saved.FirstName)
}

func TestRegisterWithoutInviteUsesFormAndDefaultRole(t *testing.T) {
	t.Parallel()

	f := newFixture(pendingInvite())
	ctx := context.Background()
	result, err := f.svc.Register(ctx, f.svc.ResolveInvite(ctx, ""), Form{
		Email:    "b@y.com",
		Password: "secret1",
		Company:  " Initech ",
	})
	require.NoError(t, err)

	require.Len(t, f.accounts.calls, 1)
	assert.Equal(t, "b@y.com", f.accounts.calls[0].Email)
	assert.Equal(t, "Initech", f.accounts.calls[0].Metadata[user.MetaCompany])
	assert.Equal(t, invite.DefaultRole, f.accounts.calls[0].Metadata[user.MetaRole])
	assert.Empty(t, f.invites.accepted)
	assert.Equal(t, invite.StatusPending, f.invites.status("abc123"))
	assert.Equal(t, "/login", result.RedirectTo)
}

func TestRegisterSignUpFailureLeavesInvitePending(t *testing.T) {
	t.Parallel()

	f := newFixture(pendingInvite())
	f.accounts.err = user.ErrWeakPassword
	ctx := context.Background()

	result, err := f.svc.Register(ctx, f.svc.ResolveInvite(ctx, "abc123"), Form{Password: "123"})

	require.ErrorIs(t, err, user.ErrWeakPassword)
	assert.Equal(t, "Password should be at least 6 characters", err.Error())
	assert.Equal(t, Result{}, result)
	assert.Equal(t, invite.StatusPending, f.invites.status("abc123"))
	assert.Empty(t, f.profiles.saved)
}

func TestRegisterAcceptFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	f := newFixture(pendingInvite())
	f.invites.acceptErr = errors.New("write conflict")
	ctx := context.Background()

	result, err := f.svc.Register(ctx, f.svc.ResolveInvite(ctx, "abc123"), Form{Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)
	assert.EqualError(t, result.InviteAcceptErr, "write conflict")
}

func TestRegisterProfileFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.profiles.err = errors.New("profiles offline")

	result, err := f.svc.Register(context.Background(), InviteResolution{}, Form{Email: "c@z.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)
}

func TestErrInviteInvalidMapsToGone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, apperrors.CodeInviteInvalid, apperrors.CodeOf(ErrInviteInvalid))
	assert.Equal(t, 410, apperrors.HTTPStatus(ErrInviteInvalid))
}
