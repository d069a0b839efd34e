package willowvr

// injectedRays is one queued ray set. An empty set clears the cursor target.
type injectedRays struct {
	rays []Ray
}

// InjectRays queues a ray set that replaces device rays for one Update.
// Queued sets are consumed one per Update in order.
func (rt *Runtime) InjectRays(rays ...Ray) {
	cp := make([]Ray, len(rays))
	copy(cp, rays)
	rt.injectQueue = append(rt.injectQueue, injectedRays{rays: cp})
}

// InjectClearRays queues an empty ray set, which clears the cursor target
// on the Update that consumes it.
func (rt *Runtime) InjectClearRays() {
	rt.injectQueue = append(rt.injectQueue, injectedRays{})
}

// PendingInjections returns the number of queued ray sets.
func (rt *Runtime) PendingInjections() int {
	return len(rt.injectQueue)
}

// popInjectedRays pops one queued ray set. Returns false if the queue is
// empty (device rays should be used).
func (rt *Runtime) popInjectedRays() ([]Ray, bool) {
	if len(rt.injectQueue) == 0 {
		return nil, false
	}
	set := rt.injectQueue[0]
	copy(rt.injectQueue, rt.injectQueue[1:])
	rt.injectQueue[len(rt.injectQueue)-1] = injectedRays{}
	rt.injectQueue = rt.injectQueue[:len(rt.injectQueue)-1]
	return set.rays, true
}
