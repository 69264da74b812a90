// Package tools wires the fixed tool set spec.md §4.6 enumerates —
// document access, template instantiation, catalog lookups, and
// character mutations — against the concrete campaign/catalog
// services, and registers them into a registry.Registry.
package tools

import (
	"context"
	"fmt"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/character"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/document"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/template"
	"github.com/mimir-dm/mimir-dm-go/internal/catalog/query"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/registry"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/reqctx"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Services bundles the campaign/catalog services the tool handlers
// dispatch into.
type Services struct {
	Documents *document.Service
	Templates *template.Service
	Catalog   *query.Service
	Characters *character.Service
	Active    *reqctx.ActiveCampaign
}

// Register builds every tool definition and adds it to reg.
func Register(reg *registry.Registry, svc Services) {
	reg.Register(listDocumentsTool(svc))
	reg.Register(readDocumentTool(svc))
	reg.Register(editDocumentTool(svc))
	reg.Register(createDocumentFromTemplateTool(svc))
	reg.Register(listTemplatesTool(svc))
	reg.Register(createUserDocumentTool(svc))
	reg.Register(searchSpellsTool(svc))
	reg.Register(searchMonstersTool(svc))
	reg.Register(levelUpCharacterTool(svc))
	reg.Register(addInventoryItemTool(svc))
	reg.Register(removeInventoryItemTool(svc))
	reg.Register(setCurrencyTool(svc))
	reg.Register(setEquippedTool(svc))
}

func activeCampaignID(svc Services) (string, error) {
	id, ok := svc.Active.Get()
	if !ok {
		return "", apperr.NewService("no active campaign selected", nil)
	}
	return id, nil
}

func stringParam(params map[string]any, name string) string {
	if v, ok := params[name].(string); ok {
		return v
	}
	return ""
}

func boolParam(params map[string]any, name string) bool {
	if v, ok := params[name].(bool); ok {
		return v
	}
	return false
}

func intParam(params map[string]any, name string) int {
	switch v := params[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func listDocumentsTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "list_documents",
		Description: "List documents in the active campaign, optionally filtered by level, module, or session.",
		Parameters: []registry.ParameterDef{
			{Name: "level", Type: "string", Description: "campaign, module, session, or handout"},
			{Name: "module_id", Type: "string", Description: "restrict to one module"},
			{Name: "session_id", Type: "string", Description: "restrict to one session"},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			campaignID, err := activeCampaignID(svc)
			if err != nil {
				return nil, err
			}
			return svc.Documents.ListFiltered(campaignID, stringParam(params, "level"), stringParam(params, "module_id"), stringParam(params, "session_id"))
		},
	}
}

func readDocumentTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "read_document",
		Description: "Read a document's full text content by id.",
		Parameters: []registry.ParameterDef{
			{Name: "document_id", Type: "string", Description: "the document's id", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			id := stringParam(params, "document_id")
			content, err := svc.Documents.ReadContent(id)
			if err != nil {
				return nil, err
			}
			return map[string]any{"document_id": id, "content": string(content)}, nil
		},
	}
}

func editDocumentTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "edit_document",
		Description: "Replace the first (or every) occurrence of a search string in a document with a replacement.",
		Parameters: []registry.ParameterDef{
			{Name: "document_id", Type: "string", Required: true},
			{Name: "search", Type: "string", Description: "text that must appear in the document", Required: true},
			{Name: "replace", Type: "string", Description: "replacement text", Required: true},
			{Name: "replace_all", Type: "boolean", Description: "replace every occurrence instead of just the first"},
		},
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			id := stringParam(params, "document_id")
			search := stringParam(params, "search")
			replace := stringParam(params, "replace")
			replaceAll := boolParam(params, "replace_all")

			content, err := svc.Documents.ReadContent(id)
			if err != nil {
				return nil, err
			}
			text := string(content)
			idx := indexOf(text, search)
			if idx == -1 {
				return nil, apperr.NewValidation("search text not found in document")
			}

			var updated string
			if replaceAll {
				updated = replaceAllOccurrences(text, search, replace)
			} else {
				updated = text[:idx] + replace + text[idx+len(search):]
			}

			if err := svc.Documents.UpdateContent(id, []byte(updated)); err != nil {
				return nil, err
			}
			return map[string]any{"success": true, "document_id": id}, nil
		},
	}
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func replaceAllOccurrences(text, search, replace string) string {
	if search == "" {
		return text
	}
	var out []byte
	for len(text) > 0 {
		idx := indexOf(text, search)
		if idx == -1 {
			out = append(out, text...)
			break
		}
		out = append(out, text[:idx]...)
		out = append(out, replace...)
		text = text[idx+len(search):]
	}
	return string(out)
}

func createDocumentFromTemplateTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "create_document_from_template",
		Description: "Instantiate a document from a named template's active version.",
		Parameters: []registry.ParameterDef{
			{Name: "template_id", Type: "string", Required: true},
		},
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			campaignID, err := activeCampaignID(svc)
			if err != nil {
				return nil, err
			}
			templateID := stringParam(params, "template_id")
			v, err := svc.Templates.ActiveVersion(templateID)
			if err != nil {
				return nil, err
			}
			rendered, err := svc.Templates.GenerateDocument(v, nil)
			if err != nil {
				return nil, err
			}
			path := fmt.Sprintf("campaigns/%s/%s.md", campaignID, templateID)
			d := document.Document{CampaignID: campaignID, TemplateID: templateID, DocumentType: templateID, Title: templateID}
			created, err := svc.Documents.Create(d, path, rendered)
			if err != nil {
				return nil, err
			}
			return created, nil
		},
	}
}

func listTemplatesTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "list_templates",
		Description: "List every active template document.",
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			return svc.Templates.ListActive()
		},
	}
}

func createUserDocumentTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "create_user_document",
		Description: "Create a blank or pre-filled user-authored document.",
		Parameters: []registry.ParameterDef{
			{Name: "title", Type: "string", Required: true},
			{Name: "content", Type: "string"},
			{Name: "module_id", Type: "string"},
		},
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			campaignID, err := activeCampaignID(svc)
			if err != nil {
				return nil, err
			}
			title := stringParam(params, "title")
			content := stringParam(params, "content")
			moduleID := stringParam(params, "module_id")

			path := fmt.Sprintf("campaigns/%s/%s.md", campaignID, title)
			d := document.Document{CampaignID: campaignID, ModuleID: moduleID, DocumentType: "note", Title: title, IsUserCreated: true}
			created, err := svc.Documents.Create(d, path, []byte(content))
			if err != nil {
				return nil, err
			}
			return created, nil
		},
	}
}

func searchSpellsTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "search_spells",
		Description: "Search the spell catalog across every imported source; results are not filtered by the active campaign.",
		Parameters: []registry.ParameterDef{
			{Name: "name_contains", Type: "string"},
			{Name: "level", Type: "number"},
			{Name: "school", Type: "string"},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			var level *int
			if v, ok := params["level"]; ok {
				l := intParam(map[string]any{"level": v}, "level")
				level = &l
			}
			spells, total, err := svc.Catalog.SearchSpells(query.SpellFilter{
				NameContains: stringParam(params, "name_contains"),
				Level:        level,
				School:       stringParam(params, "school"),
				Limit:        50,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"spells": spells, "total": total}, nil
		},
	}
}

func searchMonstersTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "search_monsters",
		Description: "Search the bestiary catalog across every imported source; results are not filtered by the active campaign.",
		Parameters: []registry.ParameterDef{
			{Name: "name_contains", Type: "string"},
			{Name: "type", Type: "string"},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			monsters, total, err := svc.Catalog.SearchMonsters(query.MonsterFilter{
				NameContains: stringParam(params, "name_contains"),
				Type:         stringParam(params, "type"),
				Limit:        50,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"monsters": monsters, "total": total}, nil
		},
	}
}

func levelUpCharacterTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "level_up_character",
		Description: "Level up a character by one level in the named class, taking average HP; this tool takes no HP roll and no ASI or feat choice.",
		Parameters: []registry.ParameterDef{
			{Name: "character_id", Type: "string", Required: true},
			{Name: "class_name", Type: "string", Required: true},
			{Name: "hit_die_value", Type: "number", Required: true},
		},
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			characterID := stringParam(params, "character_id")
			className := stringParam(params, "class_name")
			hitDie := intParam(params, "hit_die_value")

			opts := character.LevelUpOptions{
				ClassName: className,
				HPMethod:  character.HpGainMethod{Average: true},
			}
			v, err := svc.Characters.LevelUp(characterID, opts, hitDie, character.AbilityScores{}, nil, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"success": true, "new_version": v.VersionNumber, "new_level": v.Level}, nil
		},
	}
}

func addInventoryItemTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "add_inventory_item",
		Description: "Add an item to a character's inventory.",
		Parameters: []registry.ParameterDef{
			{Name: "character_id", Type: "string", Required: true},
			{Name: "name", Type: "string", Required: true},
			{Name: "quantity", Type: "number"},
		},
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			err := svc.Characters.AddInventoryItem(stringParam(params, "character_id"), character.InventoryItem{
				Name:     stringParam(params, "name"),
				Quantity: intParam(params, "quantity"),
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"success": true}, nil
		},
	}
}

func removeInventoryItemTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "remove_inventory_item",
		Description: "Remove units of a named item from a character's inventory.",
		Parameters: []registry.ParameterDef{
			{Name: "character_id", Type: "string", Required: true},
			{Name: "name", Type: "string", Required: true},
			{Name: "quantity", Type: "number"},
		},
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			err := svc.Characters.RemoveInventoryItem(stringParam(params, "character_id"), stringParam(params, "name"), intParam(params, "quantity"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"success": true}, nil
		},
	}
}

func setCurrencyTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "set_currency",
		Description: "Overwrite a character's carried currency.",
		Parameters: []registry.ParameterDef{
			{Name: "character_id", Type: "string", Required: true},
			{Name: "cp", Type: "number"}, {Name: "sp", Type: "number"}, {Name: "ep", Type: "number"},
			{Name: "gp", Type: "number"}, {Name: "pp", Type: "number"},
		},
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			err := svc.Characters.SetCurrency(stringParam(params, "character_id"), character.Currency{
				CP: intParam(params, "cp"), SP: intParam(params, "sp"), EP: intParam(params, "ep"),
				GP: intParam(params, "gp"), PP: intParam(params, "pp"),
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"success": true}, nil
		},
	}
}

func setEquippedTool(svc Services) registry.ToolDefinition {
	return registry.ToolDefinition{
		Name:        "set_equipped",
		Description: "Mark a character's inventory item equipped or unequipped.",
		Parameters: []registry.ParameterDef{
			{Name: "character_id", Type: "string", Required: true},
			{Name: "name", Type: "string", Required: true},
			{Name: "equipped", Type: "boolean", Required: true},
		},
		Mutating: true,
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			err := svc.Characters.SetEquipped(stringParam(params, "character_id"), stringParam(params, "name"), boolParam(params, "equipped"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"success": true}, nil
		},
	}
}
