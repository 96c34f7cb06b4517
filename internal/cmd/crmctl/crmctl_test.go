package crmctl

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	cfg Config
}

func newHarness(t *testing.T) harness {
	t.Helper()
	return harness{cfg: Config{
		CRMDBPath: filepath.Join(t.TempDir(), "crm.db"),
		PublicURL: "http://crmdesk.test/",
		LogLevel:  "error",
	}}
}

func (h harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand(h.cfg)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func (h harness) runJSON(t *testing.T, target any, args ...string) {
	t.Helper()
	out, err := h.run(t, append(args, "--format", "json")...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), target), out)
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "company", "create", "--name", "Acme", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCompanyCreateRequiresName(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "company", "create")
	require.Error(t, err)
}

func TestInviteLifecycle(t *testing.T) {
	h := newHarness(t)

	var co companyOutput
	h.runJSON(t, &co, "company", "create", "--name", "Acme Corp")
	require.NotEmpty(t, co.ID)
	assert.Equal(t, "Acme Corp", co.Name)

	var inv inviteOutput
	h.runJSON(t, &inv, "invite", "create", "--email", "A@X.com", "--company", co.ID, "--role", "admin")
	assert.Equal(t, "a@x.com", inv.Email)
	assert.Equal(t, "admin", inv.Role)
	assert.Equal(t, "pending", inv.Status)
	assert.Equal(t, "http://crmdesk.test/register?invite="+inv.Token, inv.Link)

	var list inviteListOutput
	h.runJSON(t, &list, "invite", "list", "--filter", `status = "pending"`)
	require.Len(t, list.Invites, 1)
	assert.Equal(t, inv.ID, list.Invites[0].ID)

	out, err := h.run(t, "invite", "revoke", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "revoked "+inv.ID+"\n", out)

	_, err = h.run(t, "invite", "revoke", inv.ID)
	require.Error(t, err)

	list = inviteListOutput{}
	h.runJSON(t, &list, "invite", "list", "--filter", `status = "pending"`)
	assert.Empty(t, list.Invites)

	out, err = h.run(t, "invite", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "revoked")
}

func TestInviteCreateUnknownCompany(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "invite", "create", "--email", "a@x.com", "--company", "missing")
	require.Error(t, err)
}

func TestInviteListRejectsBadFilter(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "invite", "list", "--filter", `owner = "x"`)
	require.Error(t, err)
}

const fixtureYAML = `companies:
  - key: acme
    name: Acme Corp
invites:
  - company: acme
    email: a@x.com
    role: admin
    token: abc123
  - company: acme
    email: b@x.com
`

func TestSeedCreatesFixtures(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(file, []byte(fixtureYAML), 0o600))

	var result SeedResult
	h.runJSON(t, &result, "seed", "--file", file)
	require.Len(t, result.Companies, 1)
	require.Len(t, result.Invites, 2)

	first := result.Invites[0]
	assert.Equal(t, "abc123", first.Token)
	assert.Equal(t, result.Companies[0].ID, first.CompanyID)
	assert.Equal(t, "http://crmdesk.test/register?invite=abc123", first.Link)
	assert.Equal(t, "member", result.Invites[1].Role)
	assert.NotEmpty(t, result.Invites[1].Token)

	// Seeding the same fixed token twice while it is still pending fails.
	_, err := h.run(t, "seed", "--file", file)
	require.Error(t, err)
}

func TestSeedMissingFile(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "seed", "--file", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDecodeFixtures(t *testing.T) {
	fixtures, err := DecodeFixtures(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fixtures.Companies)

	_, err = DecodeFixtures(strings.NewReader("companies:\n  - name: Acme\n"))
	require.ErrorContains(t, err, "key is required")

	_, err = DecodeFixtures(strings.NewReader("companies:\n  - key: a\n    name: A\n  - key: a\n    name: B\n"))
	require.ErrorContains(t, err, "duplicate key")

	_, err = DecodeFixtures(strings.NewReader("teams: []\n"))
	require.Error(t, err)
}

func TestWriteSigningKey(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteSigningKey(buf, bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}), 4))
	assert.Equal(t, "CRMDESK_JWT_SIGNING_KEY=01020304\n", buf.String())

	require.Error(t, WriteSigningKey(buf, nil, 0))
	require.Error(t, WriteSigningKey(nil, nil, 4))
	require.Error(t, WriteSigningKey(&bytes.Buffer{}, bytes.NewReader([]byte{0x01}), 4))
}

func TestSigningKeyCommand(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "signing-key", "--bytes", "16")
	require.NoError(t, err)

	got := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(got, SigningKeyEnv+"="), got)
	assert.Len(t, strings.TrimPrefix(got, SigningKeyEnv+"="), 32)
}

func TestInviteLinkTrimsSlashes(t *testing.T) {
	assert.Equal(t, "https://crm.example/register?invite=t", inviteLink(" https://crm.example// ", "t"))
}
