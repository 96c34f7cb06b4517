package register

import (
	"context"
	"sync"
	"time"

	"github.com/louisbranch/crmdesk/internal/services/crm/company"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	"github.com/louisbranch/crmdesk/internal/services/crm/profile"
	crmstorage "github.com/louisbranch/crmdesk/internal/services/crm/storage"
	"github.com/louisbranch/crmdesk/internal/services/identity"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
)

type fakeAccounts struct {
	mu    sync.Mutex
	calls []identity.SignUpInput
	err   error
}

func (f *fakeAccounts) SignUp(_ context.Context, input identity.SignUpInput) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, input)
	if f.err != nil {
		return user.User{}, f.err
	}
	return user.User{ID: "user-1", Email: input.Email, Metadata: input.Metadata}, nil
}

type fakeInvites struct {
	mu        sync.Mutex
	byToken   map[string]invite.Invite
	lookups   int
	getErr    error
	acceptErr error
	accepted  []string
}

func newFakeInvites(invites ...invite.Invite) *fakeInvites {
	f := &fakeInvites{byToken: map[string]invite.Invite{}}
	for _, inv := range invites {
		f.byToken[inv.Token] = inv
	}
	return f
}

func (f *fakeInvites) GetPendingInviteByToken(_ context.Context, token string) (invite.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.getErr != nil {
		return invite.Invite{}, f.getErr
	}
	inv, ok := f.byToken[token]
	if !ok || !inv.Pending() {
		return invite.Invite{}, crmstorage.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvites) AcceptInvite(_ context.Context, inviteID string, acceptedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acceptErr != nil {
		return f.acceptErr
	}
	for token, inv := range f.byToken {
		if inv.ID != inviteID {
			continue
		}
		next, err := inv.Accept(acceptedAt)
		if err != nil {
			return err
		}
		f.byToken[token] = next
		f.accepted = append(f.accepted, inviteID)
		return nil
	}
	return crmstorage.ErrNotFound
}

func (f *fakeInvites) status(token string) invite.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byToken[token].Status
}

type fakeCompanies map[string]company.Company

func (f fakeCompanies) GetCompany(_ context.Context, companyID string) (company.Company, error) {
	c, ok := f[companyID]
	if !ok {
		return company.Company{}, crmstorage.ErrNotFound
	}
	return c, nil
}

type fakeProfiles struct {
	mu    sync.Mutex
	saved map[string]profile.Profile
	err   error
}

func (f *fakeProfiles) PutProfile(_ context.Context, p profile.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = map[string]profile.Profile{}
	}
	f.saved[p.UserID] = p
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func pendingInvite() invite.Invite {
	return invite.Invite{
		ID:        "inv-1",
		Token:     "abc123",
		Email:     "a@x.com",
		CompanyID: "co1",
		Role:      "admin",
		Status:    invite.StatusPending,
		CreatedAt: fixedNow.Add(-time.Hour),
		UpdatedAt: fixedNow.Add(-time.Hour),
	}
}

type fixture struct {
	svc       *Service
	accounts  *fakeAccounts
	invites   *fakeInvites
	companies fakeCompanies
	profiles  *fakeProfiles
}

func newFixture(invites ...invite.Invite) fixture {
	f := fixture{
		accounts:  &fakeAccounts{},
		invites:   newFakeInvites(invites...),
		companies: fakeCompanies{"co1": {ID: "co1", Name: "Acme"}},
		profiles:  &fakeProfiles{},
	}
	svc, err := NewService(f.accounts, f.invites, f.companies, f.profiles, nil, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		panic(err)
	}
	f.svc = svc
	return f
}
