package dynamo

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reference scenario", func() {
	var (
		m    *Model
		traj *Trajectory
	)

	BeforeEach(func() {
		var err error
		m, err = New(Params{Mass: 1, Stiffness: 20, Damping: 1}, DefaultDt)
		Expect(err).NotTo(HaveOccurred())

		traj, err = Simulate(context.Background(), m, Rest(), ReferenceSchedule(), 499)
		Expect(err).NotTo(HaveOccurred())
	})

	It("produces 500 states starting at rest", func() {
		Expect(traj.Len()).To(Equal(500))
		Expect(traj.Velocity(0)).To(BeZero())
		Expect(traj.Displacement(0)).To(BeZero())
	})

	It("matches the hand computed first steps", func() {
		Expect(traj.Velocity(1)).To(BeNumerically("~", 5.0/30, 1e-12))
		Expect(traj.Displacement(1)).To(BeZero())

		Expect(traj.Velocity(2)).To(BeNumerically("~", 59.0/180, 1e-12))
		Expect(traj.Displacement(2)).To(BeNumerically("~", 1.0/180, 1e-12))

		Expect(traj.Velocity(3)).To(BeNumerically("~", 2591.0/5400, 1e-12))
		Expect(traj.Displacement(3)).To(BeNumerically("~", 89.0/5400, 1e-12))
	})

	It("agrees with the scalar recurrence over the whole run", func() {
		in := ReferenceSchedule()
		v, d := 0.0, 0.0
		for i := 1; i < traj.Len(); i++ {
			u, err := in.Force(i)
			Expect(err).NotTo(HaveOccurred())
			v, d = v+DefaultDt*(-v-20*d+u), d+DefaultDt*v

			Expect(traj.Velocity(i)).To(BeNumerically("~", v, 1e-9), "velocity at step %d", i)
			Expect(traj.Displacement(i)).To(BeNumerically("~", d, 1e-9), "displacement at step %d", i)
		}
	})

	DescribeTable("applies the scheduled force",
		func(step int, want float64) {
			dv := traj.Velocity(step) - traj.Velocity(step-1)
			f := dv/DefaultDt + traj.Velocity(step-1) + 20*traj.Displacement(step-1)
			Expect(f).To(BeNumerically("~", want, 1e-6))
			Expect(traj.Forces()[step-1]).To(Equal(want))
		},
		Entry("first step", 1, 5.0),
		Entry("switch to 10", 10, 10.0),
		Entry("switch to 20", 200, 20.0),
		Entry("force released", 300, 0.0),
		Entry("last step", 499, 0.0),
	)

	It("stays bounded and is reported stable", func() {
		Expect(traj.IsFinite()).To(BeTrue())

		r, err := m.Stability()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Stable).To(BeTrue())
	})
})
