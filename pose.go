package ragdoll

import "github.com/go-gl/mathgl/mgl32"

// writePose copies the simulated body orientations back into the skeleton.
// The arena is walked in order, so every bone sees its parent's already
// updated world rotation; bones without a link are refreshed in the same
// pass. The root link additionally drives the scene root translation through
// the offset captured at activation. weight blends from the skeleton's
// current pose toward the simulated one; zero leaves the skeleton untouched.
func writePose(skel *Skeleton, byBone []*Link, root *Link, rootOffset mgl32.Vec3, weight float32) {
	if weight <= 0 {
		return
	}
	if weight > 1 {
		weight = 1
	}

	if root != nil {
		target := root.Body.Position.Add(rootOffset)
		skel.SetRootPosition(lerpVec3(skel.RootPosition(), target, weight))
	}

	for i := 0; i < skel.Len(); i++ {
		id := BoneID(i)
		var link *Link
		if i < len(byBone) {
			link = byBone[i]
		}
		if link != nil {
			node := skel.Node(id)
			target := link.Body.Rotation.Mul(link.BodyToBone).Normalize()
			parentWorld := mgl32.QuatIdent()
			if node.Parent != InvalidBone {
				parentWorld = skel.Node(node.Parent).WorldRotation
			}
			local := parentWorld.Inverse().Mul(target).Normalize()
			node.LocalRotation = slerpShortest(node.LocalRotation, local, weight).Normalize()
		}
		skel.RefreshWorld(id)
	}
}
