package models

// Area is a physical location (barn, pen) animals are kept in.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AreaGroup bundles several areas that are managed as one unit.
type AreaGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AreaGroupMembership links an area to an area group. The upstream API may
// return memberships as a single object or a one-element list; the core only
// ever consumes them through a MembershipIndex, which normalizes the shape.
type AreaGroupMembership struct {
	AreaID      string `json:"area_id"`
	AreaGroupID string `json:"area_group_id"`
}

// FeedType is a feed component reference record.
type FeedType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Supplier is a feed supplier reference record.
type Supplier struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
