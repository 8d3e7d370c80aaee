package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.openbid.build/gsheets"
	"go.openbid.build/gsheets/sheetstest"
)

func newSubscriberSheet(t *testing.T) *sheetstest.FakeSpreadsheet {
	t.Helper()
	s := sheetstest.New("subs", "Subscribers")
	s.SeedNamedRange("PaidUsers", gsheets.Range{Sheet: "Sheet1", Row: 2, Column: 1, NumRows: 3})
	s.SeedNamedRange("PaidSups", gsheets.Range{Sheet: "Sheet1", Row: 2, Column: 2, NumRows: 3})
	s.SeedNamedRange("PaidSupport", gsheets.Range{Sheet: "Sheet1", Row: 2, Column: 3, NumRows: 3})
	s.SeedValue("Sheet1", 2, 1, "user@studio.com")
	s.SeedValue("Sheet1", 3, 1, "sup@studio.com")
	s.SeedValue("Sheet1", 2, 2, "sup@studio.com")
	s.SeedValue("Sheet1", 2, 3, "support@studio.com")
	return s
}

func TestSheetChecker_Memberships(t *testing.T) {
	ctx := context.Background()
	checker := NewSheetChecker(newSubscriberSheet(t))

	tests := []struct {
		name  string
		email string
		want  []Tag
	}{
		{name: "user only", email: "user@studio.com", want: []Tag{PaidUsers}},
		{name: "user and sup", email: "sup@studio.com", want: []Tag{PaidUsers, PaidSups}},
		{name: "support only", email: "support@studio.com", want: []Tag{PaidSupport}},
		{name: "unknown", email: "stranger@other.com", want: []Tag{NoSubscription}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.Memberships(ctx, tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSheetChecker_RefetchesByDefault(t *testing.T) {
	ctx := context.Background()
	sheet := newSubscriberSheet(t)
	checker := NewSheetChecker(sheet)

	got, err := checker.Memberships(ctx, "newcomer@studio.com")
	require.NoError(t, err)
	assert.Equal(t, []Tag{NoSubscription}, got)

	// The allow-list changed between calls; an uncached checker sees it.
	sheet.SeedValue("Sheet1", 3, 2, "newcomer@studio.com")
	got, err = checker.Memberships(ctx, "newcomer@studio.com")
	require.NoError(t, err)
	assert.Equal(t, []Tag{PaidSups}, got)
}

func TestSheetChecker_CacheTTL(t *testing.T) {
	ctx := context.Background()
	sheet := newSubscriberSheet(t)
	checker := NewSheetChecker(sheet, WithCacheTTL(time.Hour))

	got, err := checker.Memberships(ctx, "newcomer@studio.com")
	require.NoError(t, err)
	assert.Equal(t, []Tag{NoSubscription}, got)

	sheet.SeedValue("Sheet1", 3, 2, "newcomer@studio.com")
	got, err = checker.Memberships(ctx, "newcomer@studio.com")
	require.NoError(t, err)
	assert.Equal(t, []Tag{NoSubscription}, got, "cached answer should survive the sheet change")
}

type staticChecker struct {
	tags []Tag
	err  error
}

func (c staticChecker) Memberships(ctx context.Context, email string) ([]Tag, error) {
	return c.tags, c.err
}

func TestGate_Require(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled gate allows everything", func(t *testing.T) {
		gate := NewGate(staticChecker{tags: []Tag{NoSubscription}}, false)
		assert.NoError(t, gate.Require(ctx, "anyone@anywhere.com", PaidSups))
	})

	t.Run("member passes", func(t *testing.T) {
		gate := NewGate(staticChecker{tags: []Tag{PaidUsers, PaidSups}}, true)
		assert.NoError(t, gate.Require(ctx, "sup@studio.com", PaidSups))
	})

	t.Run("any of the required tags suffices", func(t *testing.T) {
		gate := NewGate(staticChecker{tags: []Tag{PaidUsers}}, true)
		assert.NoError(t, gate.Require(ctx, "user@studio.com", PaidSups, PaidUsers))
	})

	t.Run("non-member is denied", func(t *testing.T) {
		gate := NewGate(staticChecker{tags: []Tag{NoSubscription}}, true)
		err := gate.Require(ctx, "stranger@other.com", PaidSups)
		require.Error(t, err)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("checker error propagates", func(t *testing.T) {
		gate := NewGate(staticChecker{err: status.Error(codes.FailedPrecondition, "named range PaidUsers not found")}, true)
		err := gate.Require(ctx, "user@studio.com", PaidSups)
		require.Error(t, err)
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})
}
