package asset

import "github.com/Faultbox/blendspace/pkg/blendspace"

// Clip is an animation described by an asset document. It carries only the
// metadata a blend space reads.
type Clip struct {
	name     string
	duration float32
	additive blendspace.AdditiveType
	skeleton string
}

// NewClip creates a clip. An empty skeleton plays on any skeleton.
func NewClip(name string, duration float32, additive blendspace.AdditiveType, skeleton string) *Clip {
	return &Clip{name: name, duration: duration, additive: additive, skeleton: skeleton}
}

func (c *Clip) Name() string                          { return c.name }
func (c *Clip) IsAdditive() bool                      { return c.additive != blendspace.AdditiveNone }
func (c *Clip) AdditiveType() blendspace.AdditiveType { return c.additive }
func (c *Clip) Duration() float32                     { return c.duration }
func (c *Clip) Skeleton() string                      { return c.skeleton }

// CompatibleWith reports whether the clip was authored for skeleton.
func (c *Clip) CompatibleWith(skeleton string) bool {
	return c.skeleton == "" || c.skeleton == skeleton
}
