package model

import "sort"

// Animation is a decoded LWSC scene.
type Animation struct {
	FirstFrame      int
	LastFrame       int
	FramesPerSecond float32
	Objects         []SceneObject
}

// SceneObject is a null or mesh object placed in a scene.
type SceneObject struct {
	Name     string
	Filepath string // Empty for null objects
	Parent   int    // 1-based object index as written in the file, -1 = scene root
	Pivot    Vec3
	Keys     map[int]Keyframe // Frame -> transform
	Alpha    map[int]float32  // Frame -> dissolve value
}

// Keyframe is one transform sample. Rotation is in radians.
type Keyframe struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// DefaultFramesPerSecond is used when a scene does not declare a rate.
const DefaultFramesPerSecond = 25

// NewAnimation creates an empty animation with the format defaults.
func NewAnimation() *Animation {
	return &Animation{
		FramesPerSecond: DefaultFramesPerSecond,
		Objects:         make([]SceneObject, 0),
	}
}

// NewSceneObject creates an object attached to the scene root.
func NewSceneObject(name string) SceneObject {
	return SceneObject{
		Name:   name,
		Parent: -1,
		Keys:   make(map[int]Keyframe),
		Alpha:  make(map[int]float32),
	}
}

// HasFile reports whether the object is backed by a mesh file.
func (o *SceneObject) HasFile() bool {
	return o.Filepath != ""
}

// Frames returns the transform keyframe numbers in ascending order.
func (o *SceneObject) Frames() []int {
	return sortedKeys(o.Keys)
}

// AlphaFrames returns the alpha keyframe numbers in ascending order.
func (o *SceneObject) AlphaFrames() []int {
	return sortedKeys(o.Alpha)
}

// Parent resolves the parent of object i. ok is false for root objects
// and for parent references that point outside the object list.
func (a *Animation) Parent(i int) (parent *SceneObject, ok bool) {
	if i < 0 || i >= len(a.Objects) {
		return nil, false
	}
	p := a.Objects[i].Parent
	if p < 1 || p > len(a.Objects) {
		return nil, false
	}
	return &a.Objects[p-1], true
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
