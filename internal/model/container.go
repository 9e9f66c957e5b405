package model

// ContainerType is a reference-table row naming a kind of container
// (box, travel case, humidor).
type ContainerType struct {
	ID   uint64 // container_types.id
	Name string // container_types.name
}

// Container is a physical or logical grouping of cigars. Containers
// nest through ParentID (adjacency list) and the resulting graph must
// stay a forest: a container may never appear among its own ancestors.
// Membership of cigars is kept in the container_inventory join table,
// so deleting a container detaches its cigars without deleting them.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – display name of the container.
//  TypeID   – reference into container_types.
//  ParentID – enclosing container, nil for a root.
//  OwnerID  – user who created the container.
type Container struct {
	ID       uint64  // containers.id
	Name     string  // containers.name
	TypeID   uint64  // containers.type_id
	ParentID *uint64 // containers.parent_id (nullable)
	OwnerID  uint64  // containers.owner_id
}
