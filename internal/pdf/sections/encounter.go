package sections

import (
	"fmt"

	"github.com/mimir-dm/mimir-dm-go/internal/pdf/builder"
	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
)

// EncounterParticipant is one creature in an encounter's combatant list.
type EncounterParticipant struct {
	Name     string
	Quantity int
	CR       string
}

// EncounterSection renders an encounter summary (participant roster)
// followed by a full MonsterStatBlockSection per unique monster so the
// DM has everything needed to run the fight on one printed page set.
type EncounterSection struct {
	Title        string
	Participants []EncounterParticipant
	Monsters     []map[string]any
}

func (s *EncounterSection) Name() string { return "encounter:" + s.Title }

func (s *EncounterSection) Render(reg *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc := &typeset.Doc{}
	doc.Add(typeset.Heading{Level: 1, Text: s.Title})

	rows := make([][]string, len(s.Participants))
	for i, p := range s.Participants {
		rows[i] = []string{p.Name, fmt.Sprintf("%d", p.Quantity), p.CR}
	}
	doc.Add(typeset.Table{Headers: []string{"Creature", "Qty", "CR"}, Rows: rows})

	monsterSection := &MonsterStatBlockSection{Monsters: s.Monsters}
	monsterDoc, err := monsterSection.Render(reg)
	if err != nil {
		return nil, err
	}
	doc.Add(typeset.PageBreak{})
	doc.Blocks = append(doc.Blocks, monsterDoc.Blocks...)
	return doc, nil
}
