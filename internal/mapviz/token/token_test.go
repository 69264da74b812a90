package token

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/campaign"
	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/mapsvc"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/db"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

func openMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = db.Migrate(conn)
	require.NoError(t, err)
	return conn
}

func TestGridToPixel_CentersTokenWithinItsCell(t *testing.T) {
	assert.Equal(t, 245.0, GridToPixel(3, 70))
	assert.Equal(t, 35.0, GridToPixel(0, 70))
}

func TestPixelToGrid_IsTheInverseOfGridToPixel(t *testing.T) {
	assert.Equal(t, 3.0, PixelToGrid(245, 70))
}

func TestCreate_ExactlyOneIdentityFieldRequired(t *testing.T) {
	conn := openMigratedDB(t)
	fs, err := fsstore.New(t.TempDir())
	require.NoError(t, err)
	campaigns := campaign.New(conn, fs)
	c, err := campaigns.Create("Test Campaign")
	require.NoError(t, err)

	maps := mapsvc.New(conn)
	m, err := maps.Create(mapsvc.Map{CampaignID: c.ID, DisplayName: "Goblin Cave", GridSizePx: 70})
	require.NoError(t, err)

	svc := New(conn, maps)

	_, err = svc.Create(Token{MapID: m.ID, X: 1, Y: 1})
	require.Error(t, err, "token with no name/monster/character link should be rejected")

	_, err = svc.Create(Token{MapID: m.ID, X: 1, Y: 1, Name: "Torch", MonsterLink: "goblin-1"})
	require.Error(t, err, "token with both a label and a monster link should be rejected")

	tok, err := svc.Create(Token{MapID: m.ID, X: 1, Y: 1, Name: "Torch"})
	require.NoError(t, err)
	assert.Equal(t, "medium", tok.Size)
	assert.Equal(t, "normal", tok.VisionType)
}

func TestCreate_EnrichesPixelCoordinatesFromMapGridSize(t *testing.T) {
	conn := openMigratedDB(t)
	fs, err := fsstore.New(t.TempDir())
	require.NoError(t, err)
	campaigns := campaign.New(conn, fs)
	c, err := campaigns.Create("Test Campaign")
	require.NoError(t, err)

	maps := mapsvc.New(conn)
	m, err := maps.Create(mapsvc.Map{CampaignID: c.ID, DisplayName: "Goblin Cave", GridSizePx: 70})
	require.NoError(t, err)

	svc := New(conn, maps)
	tok, err := svc.Create(Token{MapID: m.ID, X: 3, Y: 2, Name: "Torch"})
	require.NoError(t, err)
	assert.Equal(t, 245.0, tok.PixelX)
	assert.Equal(t, 175.0, tok.PixelY)

	got, err := svc.Get(tok.ID)
	require.NoError(t, err)
	assert.Equal(t, 245.0, got.PixelX)
	assert.Equal(t, 175.0, got.PixelY)

	list, err := svc.ListByMap(m.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 245.0, list[0].PixelX)
}

func TestGridSizePx_FallsBackTo70WhenMapLookupFails(t *testing.T) {
	conn := openMigratedDB(t)
	maps := mapsvc.New(conn)
	svc := New(conn, maps)
	assert.Equal(t, 70.0, svc.gridSizePx("does-not-exist"))
}
