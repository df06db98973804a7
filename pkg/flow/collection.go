package flow

import "fmt"

// NoExpansion marks a collection with no expanded step.
const NoExpansion = -1

// Collection is the ordered, mutable sequence of workflow steps owned by an
// editing session. All mutation goes through its methods; at most one step
// is expanded for editing at a time, and every structural mutation
// re-targets the expanded pointer so it never dangles.
type Collection struct {
	steps    []Step
	expanded int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{expanded: NoExpansion}
}

// Len returns the number of steps.
func (c *Collection) Len() int { return len(c.steps) }

// Expanded returns the index of the expanded step, or NoExpansion.
func (c *Collection) Expanded() int { return c.expanded }

// SetExpanded expands the step at index, or clears expansion for
// out-of-range indexes.
func (c *Collection) SetExpanded(index int) {
	if index < 0 || index >= len(c.steps) {
		c.expanded = NoExpansion
		return
	}
	c.expanded = index
}

// StepAt returns a deep copy of the step at index.
func (c *Collection) StepAt(index int) (Step, bool) {
	if index < 0 || index >= len(c.steps) {
		return Step{}, false
	}
	return c.steps[index].Clone(), true
}

// Steps returns a deep copy of all steps in order.
func (c *Collection) Steps() []Step {
	out := make([]Step, len(c.steps))
	for i := range c.steps {
		out[i] = c.steps[i].Clone()
	}
	return out
}

// Append creates a step of the given kind from schema defaults, appends it,
// and expands it.
func (c *Collection) Append(kind Kind) (int, error) {
	s, err := NewStep(kind)
	if err != nil {
		return 0, err
	}
	c.steps = append(c.steps, s)
	c.expanded = len(c.steps) - 1
	return c.expanded, nil
}

// Update replaces one field value, coercing it per the field's spec.
// Out-of-range indexes are a no-op; undeclared field names are an error.
func (c *Collection) Update(index int, name string, value any) error {
	if index < 0 || index >= len(c.steps) {
		return nil
	}
	schema, err := GetSchema(c.steps[index].Kind)
	if err != nil {
		return err
	}
	spec, ok := schema.Field(name)
	if !ok {
		return fmt.Errorf("step %q has no field %q", c.steps[index].Kind, name)
	}
	c.steps[index].Fields[name] = spec.Coerce(value)
	return nil
}

// Delete removes the step at index. Deleting the expanded step clears the
// expansion; deleting a step before it shifts it down by one.
func (c *Collection) Delete(index int) {
	if index < 0 || index >= len(c.steps) {
		return
	}
	c.steps = append(c.steps[:index], c.steps[index+1:]...)
	switch {
	case c.expanded == index:
		c.expanded = NoExpansion
	case c.expanded > index:
		c.expanded--
	}
}

// Duplicate deep-copies the step at index immediately after it and moves
// the expansion to the copy.
func (c *Collection) Duplicate(index int) {
	if index < 0 || index >= len(c.steps) {
		return
	}
	cp := c.steps[index].Clone()
	c.steps = append(c.steps, Step{})
	copy(c.steps[index+2:], c.steps[index+1:])
	c.steps[index+1] = cp
	c.expanded = index + 1
}

// Move relocates the step at from to position to. Out-of-bounds positions
// and from==to are no-ops. Expansion follows whichever of from/to held the
// expanded step.
func (c *Collection) Move(from, to int) {
	if from == to {
		return
	}
	if from < 0 || from >= len(c.steps) || to < 0 || to >= len(c.steps) {
		return
	}
	s := c.steps[from]
	rest := append(c.steps[:from], c.steps[from+1:]...)
	c.steps = append(rest[:to], append([]Step{s}, rest[to:]...)...)

	switch {
	case c.expanded == from:
		c.expanded = to
	case from < c.expanded && c.expanded <= to:
		c.expanded--
	case to <= c.expanded && c.expanded < from:
		c.expanded++
	}
}

// Clear empties the collection. Confirmation before destructive clears is
// the caller's responsibility.
func (c *Collection) Clear() {
	c.steps = nil
	c.expanded = NoExpansion
}

// LoadTemplate replaces all steps with a deep copy of the given steps.
func (c *Collection) LoadTemplate(steps []Step) {
	c.steps = make([]Step, len(steps))
	for i := range steps {
		c.steps[i] = steps[i].Clone()
	}
	c.expanded = NoExpansion
}
