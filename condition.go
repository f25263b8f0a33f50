package desim

// ConditionResult is the ordered mapping from a Condition's child events to
// their values, described in spec.md §3/§4.2. Iteration order always
// matches the order the child events were declared in, independent of the
// order they actually fired in.
type ConditionResult struct {
	order  []*Event
	values map[*Event]interface{}
}

func newConditionResult(children []*Event) *ConditionResult {
	return &ConditionResult{
		order:  append([]*Event(nil), children...),
		values: make(map[*Event]interface{}, len(children)),
	}
}

// Get returns the recorded value for child, if any.
func (r *ConditionResult) Get(child *Event) (interface{}, bool) {
	v, ok := r.values[child]
	return v, ok
}

// Events returns the child events that have a recorded value, in
// declaration order restricted to the children that actually fired.
func (r *ConditionResult) Events() []*Event {
	out := make([]*Event, 0, len(r.values))
	for _, child := range r.order {
		if _, ok := r.values[child]; ok {
			out = append(out, child)
		}
	}
	return out
}

func (r *ConditionResult) record(child *Event, value interface{}) {
	if _, exists := r.values[child]; exists {
		return
	}
	r.values[child] = value
}

// conditionPredicate decides whether a Condition should succeed given how
// many of its children have triggered so far and how many children it has
// in total.
type conditionPredicate func(triggered, total int) bool

func allOfPredicate(triggered, total int) bool { return triggered == total }
func anyOfPredicate(triggered, total int) bool { return triggered >= 1 || total == 0 }

// Condition aggregates a fixed set of child events under a predicate.
//
// Grounded on the teacher's Buffer/BufferedSender machinery only for the
// general shape of "watch a set of things, react once a threshold holds"
// (bufferedsender.go); the actual short-circuit/predicate-driven
// evaluation is spec.md §4.2 verbatim, since the teacher's own event model
// has no direct analogue (Akita components fan events out via ports
// rather than composing them).
type Condition struct {
	*Event

	children  []*Event
	predicate conditionPredicate
	result    *ConditionResult
	count     int
}

func newCondition(env *Environment, children []*Event, pred conditionPredicate) *Condition {
	c := &Condition{
		Event:     newEvent(env),
		children:  append([]*Event(nil), children...),
		predicate: pred,
		result:    newConditionResult(children),
	}

	for _, child := range c.children {
		if child.Processed() {
			c.record(child)
			if c.Triggered() {
				return c
			}
			continue
		}
		child := child
		token, _ := child.AddCallback(c.observe)
		_ = token
	}

	if !c.Triggered() && c.predicate(c.count, len(c.children)) {
		_ = c.Succeed(c.result)
	}

	return c
}

func (c *Condition) observe(child *Event) {
	if c.Triggered() {
		return
	}

	c.record(child)
	if c.Triggered() {
		return
	}

	if c.predicate(c.count, len(c.children)) {
		_ = c.Succeed(c.result)
	}
}

// And builds an AllOf condition over e and other, the Go stand-in for
// spec.md's "&" conjunction shorthand (Go has no operator overloading).
func (e *Event) And(other *Event) *Condition {
	return newCondition(e.env, []*Event{e, other}, allOfPredicate)
}

// Or builds an AnyOf condition over e and other, the Go stand-in for
// spec.md's "|" disjunction shorthand.
func (e *Event) Or(other *Event) *Condition {
	return newCondition(e.env, []*Event{e, other}, anyOfPredicate)
}

// record inserts child's outcome into the result mapping and, on failure,
// short-circuits the Condition by failing it with the same error.
func (c *Condition) record(child *Event) {
	if !child.OK() {
		child.Defuse()
		_ = c.Fail(child.Err())
		return
	}

	c.result.record(child, child.Value())
	c.count++
}
