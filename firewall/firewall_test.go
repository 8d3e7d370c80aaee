package firewall

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.openbid.build/gdrive/drivetest"
	"go.openbid.build/gsheets"
	"go.openbid.build/gsheets/sheetstest"
	"go.openbid.build/props"
	"go.openbid.build/registry"
)

type fixture struct {
	master  *sheetstest.FakeSpreadsheet
	store   *drivetest.FakeStore
	reg     *registry.Registry
	created []*sheetstest.FakeSpreadsheet
	service *Service
	notices []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		master: sheetstest.New("master", "Show Bid"),
		store:  drivetest.NewFakeStore(),
	}
	f.master.SeedNamedRange(URLCellName, gsheets.Range{Sheet: "Sheet1", Row: 3, Column: 2})
	ps, err := props.Open(":memory:")
	require.NoError(t, err)
	f.reg = registry.New(f.store, ps, "master", "Studio OpenBID Toolkit Files")

	create := func(ctx context.Context, title string) (Spreadsheet, error) {
		file := f.store.AddFile("", title)
		ss := sheetstest.New(file.ID, title)
		f.created = append(f.created, ss)
		return ss, nil
	}
	notify := func(name, url string) {
		f.notices = append(f.notices, fmt.Sprintf("%s %s", name, url))
	}
	f.service = New(f.master, f.store, create, f.reg, notify)
	return f
}

func TestService_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	url, err := f.service.GetOrCreate(ctx, "Show")
	require.NoError(t, err)
	require.Len(t, f.created, 1)
	fw := f.created[0]
	assert.Equal(t, fw.URL(), url)

	// The firewall lives in the project folder under the derived name.
	folder, err := f.reg.ProjectFolder(ctx, "Show")
	require.NoError(t, err)
	assert.Equal(t, folder.ID, f.store.ParentOf(fw.ID()))
	assert.Equal(t, "Firewall for Show Bid", fw.Name())

	// Episode sheet carries the instruction text and the episodes import.
	assert.Equal(t, "⬇ Allow access below, then ignore this sheet.", fw.ValueAt(EpisodeSheetTitle, 4, 4))
	assert.Equal(t,
		`=IMPORTRANGE("`+f.master.URL()+`", "FromClientAllEpisodes")`,
		fw.FormulaAt(EpisodeSheetTitle, 5, 4))

	// Shot and asset mirrors anchor at B7 and republish the master range name.
	assert.Equal(t,
		`=IMPORTRANGE("`+f.master.URL()+`", "FromClientAllShots")`,
		fw.FormulaAt(ShotsSheetTitle, 7, 2))
	shots, ok := fw.NamedRangeRegion(ShotsRangeName)
	require.True(t, ok)
	assert.Equal(t, "SHOTS!B7:AK506", shots.A1())
	assets, ok := fw.NamedRangeRegion(AssetsRangeName)
	require.True(t, ok)
	assert.Equal(t, "ASSETS!B7:AF56", assets.A1())

	// Default sheet removed, URL written back, operator notified.
	assert.False(t, fw.HasSheet(gsheets.DefaultSheetTitle))
	assert.Equal(t, fw.URL(), f.master.ValueAt("Sheet1", 3, 2))
	require.Len(t, f.notices, 1)
	assert.Equal(t, "Firewall for Show Bid "+fw.URL(), f.notices[0])

	// No vendor access is granted at creation time.
	assert.Empty(t, f.store.SharesFor(fw.ID()))
}

func TestService_GetOrCreate_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.service.GetOrCreate(ctx, "Show")
	require.NoError(t, err)
	second, err := f.service.GetOrCreate(ctx, "Show")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.created, 1, "second call must not create another firewall")
	assert.Len(t, f.notices, 1, "no notification for an existing firewall")
}

func TestService_GetOrCreate_MissingURLCellCreatesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.master = sheetstest.New("master", "Show Bid") // no firewallFile named range
	f.service = New(f.master, f.store, func(ctx context.Context, title string) (Spreadsheet, error) {
		t.Fatal("create must not be called")
		return nil, nil
	}, f.reg, nil)

	_, err := f.service.GetOrCreate(ctx, "Show")
	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}
