package desim

// ContainerPut is returned by Container.Put. It succeeds once amount has
// been added to the container's level.
type ContainerPut struct {
	*Event

	resource *containerCore
	amount   float64
}

// ContainerGet is returned by Container.Get. It succeeds once amount has
// been removed from the container's level.
type ContainerGet struct {
	*Event

	resource *containerCore
	amount   float64
}

// containerCore tracks a bounded scalar level, admitting queued Puts and
// Gets as capacity allows (spec.md §4.7).
//
// Grounded on the teacher's Buffer size/capacity bookkeeping (buffer.go),
// generalized from an integer slot count to a continuous level so it can
// model things like fuel or fluid volume rather than discrete slots.
type containerCore struct {
	env      *Environment
	capacity float64
	level    float64
	putQueue []queueOp
	getQueue []queueOp
}

func (put *ContainerPut) attempt() bool {
	core := put.resource
	if core.level+put.amount > core.capacity {
		return false
	}
	core.level += put.amount
	_ = put.Succeed(nil)
	core.env.InvokeHook(HookCtx{Domain: core.env, Pos: HookPosResourceAdmitted, Item: put})
	return true
}

func (get *ContainerGet) attempt() bool {
	core := get.resource
	if get.amount > core.level {
		return false
	}
	core.level -= get.amount
	_ = get.Succeed(nil)
	core.env.InvokeHook(HookCtx{Domain: core.env, Pos: HookPosResourceAdmitted, Item: get})
	return true
}

// Container is a scalar-level shared resource: Put raises the level, Get
// lowers it, both blocking (queuing) when the requested amount would take
// the level out of [0, capacity].
type Container struct {
	core *containerCore
}

// NewContainer creates a Container with the given capacity and initial
// level.
func NewContainer(env *Environment, capacity, initLevel float64) *Container {
	if capacity <= 0 {
		panic(newUserError("container capacity must be > 0, got %v", capacity))
	}
	if initLevel < 0 || initLevel > capacity {
		panic(newUserError("container initial level %v out of [0, %v]", initLevel, capacity))
	}
	return &Container{core: &containerCore{env: env, capacity: capacity, level: initLevel}}
}

// Put requests that amount be added to the container's level.
func (c *Container) Put(amount float64) *ContainerPut {
	if amount <= 0 {
		panic(newUserError("container put amount must be > 0, got %v", amount))
	}

	put := &ContainerPut{Event: newEvent(c.core.env), resource: c.core, amount: amount}
	c.core.putQueue = append(c.core.putQueue, queueOp(put))
	runServiceLoop(&c.core.putQueue, &c.core.getQueue)
	return put
}

// Get requests that amount be removed from the container's level.
func (c *Container) Get(amount float64) *ContainerGet {
	if amount <= 0 {
		panic(newUserError("container get amount must be > 0, got %v", amount))
	}

	get := &ContainerGet{Event: newEvent(c.core.env), resource: c.core, amount: amount}
	c.core.getQueue = append(c.core.getQueue, queueOp(get))
	runServiceLoop(&c.core.putQueue, &c.core.getQueue)
	return get
}

// Level returns the container's current level.
func (c *Container) Level() float64 { return c.core.level }

// Capacity returns the container's capacity.
func (c *Container) Capacity() float64 { return c.core.capacity }

// Status reports the container's current state for the monitor package.
func (c *Container) Status() map[string]interface{} {
	return map[string]interface{}{
		"kind": "Container", "capacity": c.Capacity(), "level": c.Level(),
	}
}
