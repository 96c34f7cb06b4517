package filter

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInviteFilterEmpty(t *testing.T) {
	cond, err := ParseInviteFilter("   ")
	require.NoError(t, err)
	assert.True(t, cond.Empty())
}

func TestParseInviteFilterTranslatesFields(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		wantClause string
		wantParams []any
	}{
		{
			name:       "status",
			filter:     `status = "pending"`,
			wantClause: "status = ?",
			wantParams: []any{"pending"},
		},
		{
			name:       "company and status",
			filter:     `status = "PENDING" AND company = "co1"`,
			wantClause: "(status = ? AND company_id = ?)",
			wantParams: []any{"pending", "co1"},
		},
		{
			name:       "or with not equals",
			filter:     `role != "member" OR email = "A@X.com"`,
			wantClause: "(role != ? OR email = ?)",
			wantParams: []any{"member", "a@x.com"},
		},
		{
			name:       "timestamp",
			filter:     `create_time >= timestamp("2026-01-02T03:04:05Z")`,
			wantClause: "created_at >= ?",
			wantParams: []any{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := ParseInviteFilter(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClause, cond.Clause)
			assert.Equal(t, tt.wantParams, cond.Params)
		})
	}
}

func TestParseInviteFilterRejectsUnknownInput(t *testing.T) {
	for _, raw := range []string{
		`token = "abc123"`,
		`status = `,
		`create_time > timestamp("yesterday")`,
	} {
		_, err := ParseInviteFilter(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, apperrors.New(apperrors.CodeFilterInvalid, "")), raw)
	}
}
