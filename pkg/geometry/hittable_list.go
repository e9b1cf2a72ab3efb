package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// HittableList is a collection of shapes that is itself a shape.
// A hit against the list is the nearest hit among its children.
type HittableList struct {
	Shapes []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{Shapes: append([]Shape(nil), shapes...)}
}

// Add appends shapes to the list. Adding the list to itself is ignored,
// so a list never contains itself directly.
func (l *HittableList) Add(shapes ...Shape) {
	for _, shape := range shapes {
		if child, ok := shape.(*HittableList); ok && child == l {
			continue
		}
		l.Shapes = append(l.Shapes, shape)
	}
}

// Len returns the number of direct children
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest intersection among all children within [tMin, tMax].
// Ties keep the first child found.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit && (closestHit == nil || hit.T < closestSoFar) {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
