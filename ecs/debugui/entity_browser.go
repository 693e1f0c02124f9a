package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	Name           string
	Enabled        bool
	ComponentTypes []string
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastSlots     int
	lastCount     int
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
			lastCount:     -1,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func renderEntityBrowsers(ctx *ecs.Context, entities []ecs.Entity) error {
	selection := ecs.MustResource[Selection](ctx.Resources)
	for _, e := range entities {
		if eb := ecs.Get[EntityBrowserComponent](e); eb != nil {
			eb.Render(ctx.Table, selection)
		}
	}
	return nil
}

func (eb *EntityBrowserComponent) Render(table *ecs.Table, selection *Selection) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(table)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filteredEntities := eb.filteredEntities()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Enabled")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx, endIdx := eb.pageBounds(len(filteredEntities))
		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := selection.Entity == entity.ID
			if imgui.SelectableBoolV(entity.ID.String(), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				selection.Entity = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Name)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%t", entity.Enabled))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowserComponent) pageBounds(total int) (int, int) {
	if eb.maxEntitiesPerPage <= 0 {
		return 0, total
	}
	start := min(eb.currentPage*eb.maxEntitiesPerPage, total)
	end := min(start+eb.maxEntitiesPerPage, total)
	return start, end
}

// rebuildCacheIfNeeded rebuilds the entity list when the table changed
// size. Component changes on a stable population are picked up on the
// next size change.
func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(table *ecs.Table) {
	stats := table.CollectStats()
	if eb.cache.lastCount != stats.EntityCount || eb.cache.lastSlots != stats.SlotCount {
		eb.cache.lastCount = stats.EntityCount
		eb.cache.lastSlots = stats.SlotCount
		eb.rebuildCache(table)
	}
}

func (eb *EntityBrowserComponent) rebuildCache(table *ecs.Table) {
	registry := table.Registry()
	eb.cache.entities = make([]EntityInfo, 0, table.Len())

	for e := range table.IterEntities() {
		mask, _ := table.Mask(e.Id())
		kinds := mask.Kinds()
		componentTypes := make([]string, len(kinds))
		for i, kind := range kinds {
			componentTypes[i] = registry.Name(kind)
		}

		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			ID:             e.Id(),
			Name:           e.Name(),
			Enabled:        e.Enabled(),
			ComponentTypes: componentTypes,
		})
	}

	eb.sortEntities()
}

func (eb *EntityBrowserComponent) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.Name < b.Name
		case 2:
			less = len(a.ComponentTypes) < len(b.ComponentTypes)
		case 3:
			less = !a.Enabled && b.Enabled
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowserComponent) filteredEntities() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
		if strings.Contains(entity.ID.String(), filterLower) ||
			strings.Contains(strings.ToLower(entity.Name), filterLower) ||
			strings.Contains(componentsStr, filterLower) {
			filtered = append(filtered, entity)
		}
	}

	return filtered
}
