package module

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/campaign"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/document"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/template"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/db"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

func newTestService(t *testing.T) (*Service, *campaign.Service, *sql.DB) {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = db.Migrate(conn)
	require.NoError(t, err)

	fs, err := fsstore.New(t.TempDir())
	require.NoError(t, err)

	templates := template.New(conn)
	for _, id := range []string{"module-overview-general", "module-overview-mystery", "module-play-notes"} {
		require.NoError(t, templates.CreateVersion(template.Version{
			DocumentID:    id,
			VersionNumber: 1,
			Content:       "# {{ id }}",
			IsActive:      true,
		}))
	}

	documents := document.New(conn, fs)
	campaigns := campaign.New(conn, fs)
	return New(conn, fs, templates, documents), campaigns, conn
}

func TestCreate_ProvisionsOverviewAndPlayNotesDocuments(t *testing.T) {
	svc, campaigns, conn := newTestService(t)
	c, err := campaigns.Create("Curse of the Crimson Throne")
	require.NoError(t, err)

	m, err := svc.Create(Module{CampaignID: c.ID, Name: "Act One", ModuleType: "mystery"})
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM documents WHERE module_id = ?`, m.ID,
	).Scan(&count))
	require.Equal(t, 2, count)

	var overviewTemplate string
	require.NoError(t, conn.QueryRow(
		`SELECT template_id FROM documents WHERE module_id = ? AND document_type = ?`, m.ID, "module_overview",
	).Scan(&overviewTemplate))
	require.Equal(t, "module-overview-mystery", overviewTemplate)

	var playNotesTemplate string
	require.NoError(t, conn.QueryRow(
		`SELECT template_id FROM documents WHERE module_id = ? AND document_type = ?`, m.ID, "play_notes",
	).Scan(&playNotesTemplate))
	require.Equal(t, "module-play-notes", playNotesTemplate)
}

func TestCreate_UnknownModuleTypeFallsBackToGeneralOverview(t *testing.T) {
	svc, campaigns, conn := newTestService(t)
	c, err := campaigns.Create("Homebrew Sandbox")
	require.NoError(t, err)

	m, err := svc.Create(Module{CampaignID: c.ID, Name: "Prologue"})
	require.NoError(t, err)

	var overviewTemplate string
	require.NoError(t, conn.QueryRow(
		`SELECT template_id FROM documents WHERE module_id = ? AND document_type = ?`, m.ID, "module_overview",
	).Scan(&overviewTemplate))
	require.Equal(t, "module-overview-general", overviewTemplate)
}

func TestReorder_MovesModuleForwardAndShiftsBetween(t *testing.T) {
	svc, campaigns, _ := newTestService(t)
	c, err := campaigns.Create("Tomb of Annihilation")
	require.NoError(t, err)

	var ids []string
	for _, name := range []string{"Port Nyanzaru", "Jungle Crawl", "Omu", "Tomb"} {
		m, err := svc.Create(Module{CampaignID: c.ID, Name: name})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	require.NoError(t, svc.Reorder(c.ID, ids[0], 3))

	list, err := svc.List(c.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)

	byID := map[string]Module{}
	for _, m := range list {
		byID[m.ID] = m
	}
	require.Equal(t, 3, byID[ids[0]].ModuleNumber)
	require.Equal(t, 1, byID[ids[1]].ModuleNumber)
	require.Equal(t, 2, byID[ids[2]].ModuleNumber)
	require.Equal(t, 4, byID[ids[3]].ModuleNumber)
}
