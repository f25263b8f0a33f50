package desim

// Interrupt schedules an Interruption helper event at Now(), Urgent
// priority, that delivers cause to pr's current suspension point when it
// fires. It is the only way to cancel or redirect a Process from outside
// itself (spec.md §4.4).
func (pr *Process) Interrupt(cause interface{}) {
	helper := newEvent(pr.env)
	helper.triggered = true
	helper.ok = true

	victim := pr
	_, _ = helper.AddCallback(func(*Event) {
		if !victim.alive {
			return
		}

		if victim.target != nil {
			victim.target.RemoveCallback(victim.cbTok)
		}

		victim.deliver(false, nil, NewInterrupt(cause))
	})

	pr.env.schedule(helper, Urgent, 0)
}
