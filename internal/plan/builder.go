package plan

import "errors"

// Builder accumulates a batch. It keeps going after a collision so every
// clashing pair is reported in one pass; Aborted then stays true for good.
type Builder struct {
	plan       *Plan
	collisions []Collision
}

func NewBuilder() *Builder {
	return &Builder{plan: New()}
}

// Add inserts entry and returns the *CollisionError, if any, for logging. The
// collision is recorded either way.
func (b *Builder) Add(entry Entry) error {
	err := b.plan.Insert(entry)
	var collision *CollisionError
	if errors.As(err, &collision) {
		b.collisions = append(b.collisions, collision.Collision)
	}
	return err
}

// Aborted reports whether any collision was seen.
func (b *Builder) Aborted() bool {
	return len(b.collisions) > 0
}

// Collisions returns the recorded collisions in the order they were found.
func (b *Builder) Collisions() []Collision {
	return append([]Collision(nil), b.collisions...)
}

// Result returns the plan and every collision. Callers must not execute a plan
// returned alongside collisions.
func (b *Builder) Result() (*Plan, []Collision) {
	return b.plan, b.Collisions()
}
