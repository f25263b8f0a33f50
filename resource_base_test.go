package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeOp struct {
	key   int
	ready bool
	ran   bool
}

func (f *fakeOp) attempt() bool {
	if !f.ready {
		return false
	}
	f.ran = true
	return true
}

var _ = Describe("insertSorted", func() {
	It("keeps entries ordered by the given comparator", func() {
		var queue []queueOp
		less := func(a, b queueOp) bool { return a.(*fakeOp).key < b.(*fakeOp).key }

		insertSorted(&queue, &fakeOp{key: 5}, less)
		insertSorted(&queue, &fakeOp{key: 1}, less)
		insertSorted(&queue, &fakeOp{key: 3}, less)

		var keys []int
		for _, op := range queue {
			keys = append(keys, op.(*fakeOp).key)
		}
		Expect(keys).To(Equal([]int{1, 3, 5}))
	})

	It("preserves FIFO order among equal keys", func() {
		var queue []queueOp
		less := func(a, b queueOp) bool { return a.(*fakeOp).key < b.(*fakeOp).key }

		first := &fakeOp{key: 2}
		second := &fakeOp{key: 2}
		insertSorted(&queue, first, less)
		insertSorted(&queue, second, less)

		Expect(queue[0]).To(BeIdenticalTo(queueOp(first)))
		Expect(queue[1]).To(BeIdenticalTo(queueOp(second)))
	})
})

type unlockingOp struct {
	unlocked *bool
	ran      bool
}

func (u *unlockingOp) attempt() bool {
	if !*u.unlocked {
		return false
	}
	u.ran = true
	return true
}

type unlockOnRunOp struct {
	target *bool
	ran    bool
}

func (u *unlockOnRunOp) attempt() bool {
	if u.ran {
		return false
	}
	u.ran = true
	*u.target = true
	return true
}

var _ = Describe("runServiceLoop", func() {
	It("rescans a queue that a different queue's progress just unlocked", func() {
		var unlocked bool
		put := &unlockOnRunOp{target: &unlocked}
		get := &unlockingOp{unlocked: &unlocked}

		putQueue := []queueOp{put}
		getQueue := []queueOp{get}

		runServiceLoop(&putQueue, &getQueue)

		Expect(put.ran).To(BeTrue())
		Expect(get.ran).To(BeTrue())
		Expect(putQueue).To(BeEmpty())
		Expect(getQueue).To(BeEmpty())
	})

	It("drains every ready op across repeated passes", func() {
		a := &fakeOp{ready: true}
		b := &fakeOp{ready: true}
		c := &fakeOp{ready: false}
		putQueue := []queueOp{a, c, b}
		var getQueue []queueOp

		runServiceLoop(&putQueue, &getQueue)

		Expect(a.ran).To(BeTrue())
		Expect(b.ran).To(BeTrue())
		Expect(c.ran).To(BeFalse())
		Expect(putQueue).To(Equal([]queueOp{c}))
	})
})
