// Package integrator computes the color carried by a ray through a scene.
package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the unclamped RGB color seen along a camera ray
	RayColor(ray core.Ray, scene *scene.Scene) core.Vec3
}

// ShadowMode selects how occluded lights affect a surface point
type ShadowMode int

const (
	// ShadowFirstOccluder returns the ambient color as soon as any light is
	// blocked, ignoring the remaining lights
	ShadowFirstOccluder ShadowMode = iota
	// ShadowPerLight drops only the blocked lights and sums the others on
	// top of the ambient color
	ShadowPerLight
)

func (m ShadowMode) String() string {
	switch m {
	case ShadowFirstOccluder:
		return "first-occluder"
	case ShadowPerLight:
		return "per-light"
	}
	return fmt.Sprintf("ShadowMode(%d)", int(m))
}

// ParseShadowMode converts a config string into a ShadowMode
func ParseShadowMode(s string) (ShadowMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-occluder", "first":
		return ShadowFirstOccluder, nil
	case "per-light", "perlight":
		return ShadowPerLight, nil
	}
	return 0, fmt.Errorf("unknown shadow mode %q", s)
}
