package ragdoll

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type BoneID int32

const InvalidBone BoneID = -1

// BoneNode is one entry of the skeleton arena. World transforms are caches;
// they are only valid after RefreshWorld or UpdateWorldTransforms ran with
// fresh parents.
type BoneNode struct {
	Name     string
	Parent   BoneID
	Children []BoneID

	LocalPosition mgl32.Vec3
	LocalRotation mgl32.Quat

	WorldPosition mgl32.Vec3
	WorldRotation mgl32.Quat
}

// Skeleton is a flat arena of bones in parent-before-child order. AddBone
// enforces the ordering, so a single forward pass over the arena always sees
// refreshed parents. The skeleton sits under a scene root whose translation
// is the only root-level transform the rig drives.
type Skeleton struct {
	bones        []BoneNode
	byName       map[string]BoneID
	rootPosition mgl32.Vec3
}

func NewSkeleton() *Skeleton {
	return &Skeleton{byName: make(map[string]BoneID)}
}

// AddBone appends a bone under parent (InvalidBone for a root bone). The
// parent must already be in the arena; that is what keeps the arena in
// parent-before-child order.
func (s *Skeleton) AddBone(name string, parent BoneID, localPos mgl32.Vec3, localRot mgl32.Quat) (BoneID, error) {
	if _, exists := s.byName[name]; exists {
		return InvalidBone, fmt.Errorf("skeleton: duplicate bone %q", name)
	}
	if parent != InvalidBone && (parent < 0 || int(parent) >= len(s.bones)) {
		return InvalidBone, fmt.Errorf("skeleton: bone %q references unknown parent %d", name, parent)
	}
	id := BoneID(len(s.bones))
	s.bones = append(s.bones, BoneNode{
		Name:          name,
		Parent:        parent,
		LocalPosition: localPos,
		LocalRotation: localRot.Normalize(),
		WorldRotation: mgl32.QuatIdent(),
	})
	if parent != InvalidBone {
		s.bones[parent].Children = append(s.bones[parent].Children, id)
	}
	s.byName[name] = id
	s.RefreshWorld(id)
	return id, nil
}

func (s *Skeleton) Len() int { return len(s.bones) }

// Bone looks a bone up by name.
func (s *Skeleton) Bone(name string) (BoneID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// Node returns the addressable bone entry, or nil for an invalid id.
func (s *Skeleton) Node(id BoneID) *BoneNode {
	if id < 0 || int(id) >= len(s.bones) {
		return nil
	}
	return &s.bones[id]
}

func (s *Skeleton) RootPosition() mgl32.Vec3 { return s.rootPosition }

func (s *Skeleton) SetRootPosition(p mgl32.Vec3) { s.rootPosition = p }

// SetLocalRotation writes a bone's local rotation and refreshes that bone's
// world transform from its parent's current one. Descendants stay stale until
// they are refreshed in turn.
func (s *Skeleton) SetLocalRotation(id BoneID, rot mgl32.Quat) {
	node := s.Node(id)
	if node == nil {
		return
	}
	node.LocalRotation = rot.Normalize()
	s.RefreshWorld(id)
}

// RefreshWorld recomputes one bone's world transform from its parent's cached
// world transform. Iterating ids from zero refreshes the whole arena because
// parents always precede children.
func (s *Skeleton) RefreshWorld(id BoneID) {
	node := s.Node(id)
	if node == nil {
		return
	}
	if node.Parent == InvalidBone {
		node.WorldPosition = s.rootPosition.Add(node.LocalPosition)
		node.WorldRotation = node.LocalRotation
		return
	}
	parent := &s.bones[node.Parent]
	node.WorldPosition = parent.WorldPosition.Add(parent.WorldRotation.Rotate(node.LocalPosition))
	node.WorldRotation = parent.WorldRotation.Mul(node.LocalRotation).Normalize()
}

// UpdateWorldTransforms refreshes every bone in one forward pass.
func (s *Skeleton) UpdateWorldTransforms() {
	for i := range s.bones {
		s.RefreshWorld(BoneID(i))
	}
}
