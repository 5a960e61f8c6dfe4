package domain

import (
	"fmt"
	"strings"
)

type Level int

const (
	LevelProject Level = iota + 1
	LevelZone
	LevelBlock
)

func (l Level) String() string {
	switch l {
	case LevelProject:
		return "project"
	case LevelZone:
		return "zone"
	case LevelBlock:
		return "block"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project", "projects":
		return LevelProject, true
	case "zone", "zones":
		return LevelZone, true
	case "block", "blocks":
		return LevelBlock, true
	}
	return 0, false
}

const StatusActive = "Active"

// HierarchyEntity is a Project, Zone or Block. ParentID is empty for projects,
// the project id for zones and the zone id for blocks.
type HierarchyEntity struct {
	ID       string         `json:"id"`
	Name     LocalizedValue `json:"name"`
	ParentID string         `json:"parentId,omitempty"`
	Status   string         `json:"status"`
}

func (e HierarchyEntity) Active() bool { return strings.EqualFold(e.Status, StatusActive) }

// HierarchySelection is the project/zone/block triple held by a draft,
// with cached display names.
type HierarchySelection struct {
	ProjectID   string         `json:"projectId"`
	ProjectName LocalizedValue `json:"projectName"`
	ZoneID      string         `json:"zoneId"`
	ZoneName    LocalizedValue `json:"zoneName"`
	BlockID     string         `json:"blockId"`
	BlockName   LocalizedValue `json:"blockName"`
}

// HierarchyIndex indexes Active master entities by id and by parent.
// Children keep master-list order.
type HierarchyIndex struct {
	ordered  map[Level][]HierarchyEntity
	byID     map[Level]map[string]HierarchyEntity
	children map[Level]map[string][]HierarchyEntity
}

func NewHierarchyIndex(projects, zones, blocks []HierarchyEntity) *HierarchyIndex {
	ix := &HierarchyIndex{
		ordered: map[Level][]HierarchyEntity{},
		byID: map[Level]map[string]HierarchyEntity{
			LevelProject: {}, LevelZone: {}, LevelBlock: {},
		},
		children: map[Level]map[string][]HierarchyEntity{
			LevelZone: {}, LevelBlock: {},
		},
	}
	add := func(level Level, list []HierarchyEntity) {
		for _, e := range list {
			if e.ID == "" || !e.Active() {
				continue
			}
			if _, dup := ix.byID[level][e.ID]; dup {
				continue
			}
			ix.byID[level][e.ID] = e
			ix.ordered[level] = append(ix.ordered[level], e)
			if level == LevelProject {
				continue
			}
			ix.children[level][e.ParentID] = append(ix.children[level][e.ParentID], e)
		}
	}
	add(LevelProject, projects)
	add(LevelZone, zones)
	add(LevelBlock, blocks)
	return ix
}

func (ix *HierarchyIndex) Get(level Level, id string) (HierarchyEntity, bool) {
	if ix == nil || id == "" {
		return HierarchyEntity{}, false
	}
	e, ok := ix.byID[level][id]
	return e, ok
}

func (ix *HierarchyIndex) Project(id string) (HierarchyEntity, bool) { return ix.Get(LevelProject, id) }
func (ix *HierarchyIndex) Zone(id string) (HierarchyEntity, bool)    { return ix.Get(LevelZone, id) }
func (ix *HierarchyIndex) Block(id string) (HierarchyEntity, bool)   { return ix.Get(LevelBlock, id) }

func (ix *HierarchyIndex) Projects() []HierarchyEntity {
	if ix == nil {
		return nil
	}
	return append([]HierarchyEntity(nil), ix.ordered[LevelProject]...)
}

// ZonesOf returns {z : z.parentId == projectID}.
func (ix *HierarchyIndex) ZonesOf(projectID string) []HierarchyEntity {
	if ix == nil || projectID == "" {
		return nil
	}
	return append([]HierarchyEntity(nil), ix.children[LevelZone][projectID]...)
}

// BlocksOf returns {b : b.parentId == zoneID}.
func (ix *HierarchyIndex) BlocksOf(zoneID string) []HierarchyEntity {
	if ix == nil || zoneID == "" {
		return nil
	}
	return append([]HierarchyEntity(nil), ix.children[LevelBlock][zoneID]...)
}

// FindByName resolves a localized name. With a parentID the search is limited
// to that parent's children; projects ignore parentID.
func (ix *HierarchyIndex) FindByName(level Level, name LocalizedValue, parentID string) (HierarchyEntity, bool) {
	if ix == nil || !name.HasContent() {
		return HierarchyEntity{}, false
	}
	var pool []HierarchyEntity
	if level != LevelProject && parentID != "" {
		pool = ix.children[level][parentID]
	} else {
		pool = ix.ordered[level]
	}
	for _, e := range pool {
		if e.Name.MatchesName(name) {
			return e, true
		}
	}
	return HierarchyEntity{}, false
}

func (ix *HierarchyIndex) Len(level Level) int {
	if ix == nil {
		return 0
	}
	return len(ix.byID[level])
}
