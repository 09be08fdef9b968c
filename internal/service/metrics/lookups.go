package metrics

import "github.com/agrarwerk/stallbuch/internal/domain/models"

// MembershipIndex answers "which area group, if any, does this area belong
// to". The upstream API returns memberships in inconsistent shapes (single
// object or one-element list); building the index once at the boundary keeps
// that out of the calculation code.
type MembershipIndex struct {
	byArea map[string]string
}

// NewMembershipIndex builds an index from raw membership rows. Later rows for
// the same area win, mirroring an at-most-one membership model.
func NewMembershipIndex(rows []models.AreaGroupMembership) MembershipIndex {
	byArea := make(map[string]string, len(rows))
	for _, r := range rows {
		if r.AreaID == "" || r.AreaGroupID == "" {
			continue
		}
		byArea[r.AreaID] = r.AreaGroupID
	}
	return MembershipIndex{byArea: byArea}
}

// GroupFor returns the area's group id, if it has one.
func (m MembershipIndex) GroupFor(areaID string) (string, bool) {
	g, ok := m.byArea[areaID]
	return g, ok
}

// Lookups bundles the reference data the calculations need alongside a
// cycle's own records.
type Lookups struct {
	Memberships MembershipIndex
	AreaNames   map[string]string
	GroupNames  map[string]string
	FeedTypes   map[string]string
}
