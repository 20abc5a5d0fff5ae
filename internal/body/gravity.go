package body

import (
	"github.com/orrery-sim/octree-nbody/internal/spatial"
)

// collisionClusterSize bounds how many items an internal node's subtree
// may hold before CollisionPass gives up brute-forcing pairs inside it
// and recurses into its children instead.
const collisionClusterSize = 8

// centerOfMass returns the total mass and mass-weighted centroid of
// every body under n. Node stores no cached bound or aggregate, so this
// walks n.Items() fresh every call, matching the tree's "recompute, never
// cache" navigation contract.
func centerOfMass(n spatial.Node[*Body]) (mass float64, com spatial.Vec3) {
	for _, it := range n.Items() {
		if it.Value.Discarded {
			continue
		}
		mass += it.Value.Mass
		com = com.Add(it.Value.Pos.Scale(it.Value.Mass))
	}
	if mass > 0 {
		com = com.Scale(1 / mass)
	}
	return mass, com
}

// GravityPass accumulates gravitational force on target by descending
// tree Barnes-Hut style: an internal node is treated as a single point
// mass at its centroid whenever its bound's size is small relative to
// its distance from target (size/distance < theta); otherwise the walk
// recurses into its children.
func GravityPass(tree *spatial.Tree[*Body], theta float64, target *Body) {
	root, err := tree.Root()
	if err != nil {
		return
	}
	gravityWalk(root, theta, target)
}

func gravityWalk(n spatial.Node[*Body], theta float64, target *Body) {
	if n.IsLeaf() {
		items := n.Items()
		other := items[0].Value
		if other == target || other.Discarded {
			return
		}
		r := Dist(target, other)
		if r == 0 {
			return
		}
		Gravity(r, target, other)
		return
	}

	mass, com := centerOfMass(n)
	if mass == 0 {
		return
	}
	size := n.Bound().Size
	extent := size.X
	if size.Y > extent {
		extent = size.Y
	}
	if size.Z > extent {
		extent = size.Z
	}
	r := target.Pos.Sub(com).Len()
	if r == 0 {
		for _, c := range n.Children() {
			gravityWalk(c, theta, target)
		}
		return
	}
	if extent/r < theta {
		pseudo := &Body{Mass: mass, Pos: com}
		Gravity(r, target, pseudo)
		return
	}
	for _, c := range n.Children() {
		gravityWalk(c, theta, target)
	}
}

// CollisionPass walks tree looking for overlapping bodies (distance
// between centers <= sum of radii) and combines each overlapping pair
// via Combine, marking the absorbed body Discarded. It returns the
// number of collisions resolved.
//
// Internal nodes whose subtree holds at most collisionClusterSize items
// are brute-force checked pairwise; larger subtrees are recursed into
// first, so the O(k^2) check only ever runs against small clusters.
// Overlapping bodies that fall into different clusters, or a leaf child
// and the items of its larger siblings, are never compared.
func CollisionPass(tree *spatial.Tree[*Body]) int {
	root, err := tree.Root()
	if err != nil {
		return 0
	}
	return collisionWalk(root)
}

func collisionWalk(n spatial.Node[*Body]) int {
	if n.IsLeaf() {
		return 0
	}
	items := n.Items()
	if len(items) <= collisionClusterSize {
		return resolveCluster(items)
	}
	resolved := 0
	for _, c := range n.Children() {
		resolved += collisionWalk(c)
	}
	return resolved
}

func resolveCluster(items []spatial.Item[*Body]) int {
	resolved := 0
	for i := 0; i < len(items); i++ {
		a := items[i].Value
		if a.Discarded {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			b := items[j].Value
			if b.Discarded {
				continue
			}
			r := Dist(a, b)
			if r <= a.Radius+b.Radius {
				Combine(a, b)
				resolved++
			}
		}
	}
	return resolved
}
