package app

import (
	"fmt"

	"listing_console/internal/domain"
)

// HierarchySelector keeps a project/zone/block selection consistent with the
// master lists. Every transition is a pure function of the previous selection.
type HierarchySelector struct {
	ix *domain.HierarchyIndex
}

func NewHierarchySelector(ix *domain.HierarchyIndex) HierarchySelector {
	return HierarchySelector{ix: ix}
}

func (s HierarchySelector) Index() *domain.HierarchyIndex { return s.ix }

func unknownEntity(level domain.Level, id string) error {
	return fmt.Errorf("%w: %s %q", domain.ErrUnknownEntity, level, id)
}

// SelectProject sets the project and clears zone and block. No zone is
// auto-selected.
func (s HierarchySelector) SelectProject(_ domain.HierarchySelection, id string) (domain.HierarchySelection, error) {
	p, ok := s.ix.Project(id)
	if !ok {
		return domain.HierarchySelection{}, unknownEntity(domain.LevelProject, id)
	}
	return domain.HierarchySelection{ProjectID: p.ID, ProjectName: p.Name}, nil
}

// SelectZone sets the zone and derives the project from it, overwriting any
// previous project. The block is cleared.
func (s HierarchySelector) SelectZone(_ domain.HierarchySelection, id string) (domain.HierarchySelection, error) {
	z, ok := s.ix.Zone(id)
	if !ok {
		return domain.HierarchySelection{}, unknownEntity(domain.LevelZone, id)
	}
	p, ok := s.ix.Project(z.ParentID)
	if !ok {
		return domain.HierarchySelection{}, fmt.Errorf("zone %q: %w", id, unknownEntity(domain.LevelProject, z.ParentID))
	}
	return domain.HierarchySelection{
		ProjectID: p.ID, ProjectName: p.Name,
		ZoneID: z.ID, ZoneName: z.Name,
	}, nil
}

// SelectBlock sets the block and derives both zone and project from it.
func (s HierarchySelector) SelectBlock(_ domain.HierarchySelection, id string) (domain.HierarchySelection, error) {
	b, ok := s.ix.Block(id)
	if !ok {
		return domain.HierarchySelection{}, unknownEntity(domain.LevelBlock, id)
	}
	sel, err := s.SelectZone(domain.HierarchySelection{}, b.ParentID)
	if err != nil {
		return domain.HierarchySelection{}, fmt.Errorf("block %q: %w", id, err)
	}
	sel.BlockID, sel.BlockName = b.ID, b.Name
	return sel, nil
}

// Select dispatches on level; an empty id clears that level.
func (s HierarchySelector) Select(sel domain.HierarchySelection, level domain.Level, id string) (domain.HierarchySelection, error) {
	if id == "" {
		return Clear(sel, level), nil
	}
	switch level {
	case domain.LevelProject:
		return s.SelectProject(sel, id)
	case domain.LevelZone:
		return s.SelectZone(sel, id)
	case domain.LevelBlock:
		return s.SelectBlock(sel, id)
	}
	return sel, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, level)
}

// Clear empties level and everything below it.
func Clear(sel domain.HierarchySelection, level domain.Level) domain.HierarchySelection {
	switch level {
	case domain.LevelProject:
		return domain.HierarchySelection{}
	case domain.LevelZone:
		sel.ZoneID, sel.ZoneName = "", domain.LocalizedValue{}
		sel.BlockID, sel.BlockName = "", domain.LocalizedValue{}
	case domain.LevelBlock:
		sel.BlockID, sel.BlockName = "", domain.LocalizedValue{}
	}
	return sel
}

// VisibleZones is {z : z.parentId == projectId}.
func (s HierarchySelector) VisibleZones(sel domain.HierarchySelection) []domain.HierarchyEntity {
	return s.ix.ZonesOf(sel.ProjectID)
}

// VisibleBlocks is {b : b.parentId == zoneId}.
func (s HierarchySelector) VisibleBlocks(sel domain.HierarchySelection) []domain.HierarchyEntity {
	return s.ix.BlocksOf(sel.ZoneID)
}

// Reconcile re-checks a selection against (possibly reloaded) master lists.
// A zone or block now outside the project is Clear(Zone), a block moved to
// another zone of the same project is Clear(Block), a vanished project is
// Clear(Project). Cached names are
// refreshed from the lists; id-less display names from Restore are kept.
func (s HierarchySelector) Reconcile(sel domain.HierarchySelection) domain.HierarchySelection {
	if sel.ProjectID == "" {
		if sel.ZoneID != "" || sel.BlockID != "" {
			return domain.HierarchySelection{}
		}
		return sel
	}
	p, ok := s.ix.Project(sel.ProjectID)
	if !ok {
		return Clear(sel, domain.LevelProject)
	}
	sel.ProjectName = p.Name

	if sel.ZoneID == "" {
		if sel.BlockID != "" {
			return Clear(sel, domain.LevelZone)
		}
		return sel
	}
	z, ok := s.ix.Zone(sel.ZoneID)
	if !ok || z.ParentID != p.ID {
		return Clear(sel, domain.LevelZone)
	}
	sel.ZoneName = z.Name

	if sel.BlockID == "" {
		return sel
	}
	b, ok := s.ix.Block(sel.BlockID)
	if !ok {
		return Clear(sel, domain.LevelBlock)
	}
	if b.ParentID != z.ID {
		// a block that left the project takes the zone with it
		if bz, ok := s.ix.Zone(b.ParentID); ok && bz.ParentID != p.ID {
			return Clear(sel, domain.LevelZone)
		}
		return Clear(sel, domain.LevelBlock)
	}
	sel.BlockName = b.Name
	return sel
}

// Restore resolves a hydrated selection. Each level is looked up by id, then
// by localized name. Names are only searched under the nearest resolved
// ancestor; the whole list is searched only when no ancestor resolved. The
// most specific resolved level is authoritative, as with Select. Levels that
// do not resolve keep their wire display name without an id.
func (s HierarchySelector) Restore(ref domain.HierarchySelection) domain.HierarchySelection {
	p, pOK := s.ix.Get(domain.LevelProject, ref.ProjectID)
	if !pOK {
		p, pOK = s.ix.FindByName(domain.LevelProject, ref.ProjectName, "")
	}

	z, zOK := s.ix.Get(domain.LevelZone, ref.ZoneID)
	if !zOK && ref.ZoneName.HasContent() {
		if pOK {
			z, zOK = s.ix.FindByName(domain.LevelZone, ref.ZoneName, p.ID)
		} else {
			z, zOK = s.ix.FindByName(domain.LevelZone, ref.ZoneName, "")
		}
	}

	b, bOK := s.ix.Get(domain.LevelBlock, ref.BlockID)
	if !bOK && ref.BlockName.HasContent() {
		switch {
		case zOK:
			b, bOK = s.ix.FindByName(domain.LevelBlock, ref.BlockName, z.ID)
		case pOK:
			for _, pz := range s.ix.ZonesOf(p.ID) {
				if b, bOK = s.ix.FindByName(domain.LevelBlock, ref.BlockName, pz.ID); bOK {
					break
				}
			}
		default:
			b, bOK = s.ix.FindByName(domain.LevelBlock, ref.BlockName, "")
		}
	}

	var (
		sel domain.HierarchySelection
		err error
	)
	switch {
	case bOK:
		sel, err = s.SelectBlock(sel, b.ID)
	case zOK:
		sel, err = s.SelectZone(sel, z.ID)
	case pOK:
		sel, err = s.SelectProject(sel, p.ID)
	}
	if err != nil {
		sel = domain.HierarchySelection{}
	}

	// keep display names of levels that did not resolve
	if sel.ProjectID == "" {
		sel.ProjectName = ref.ProjectName
	}
	if sel.ZoneID == "" {
		sel.ZoneName = ref.ZoneName
	}
	if sel.BlockID == "" {
		sel.BlockName = ref.BlockName
	}
	return sel
}
