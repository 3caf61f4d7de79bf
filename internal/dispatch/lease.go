package dispatch

// Lease ties fetches to one controller mount. Terminal events issued under a
// lease are only delivered while the lease is live.
type Lease struct {
	id       uint64
	owner    string
	released bool
	d        *Dispatcher
}

// Acquire opens a lease for owner. Callers release it when the owner deactivates.
func (d *Dispatcher) Acquire(owner string) *Lease {
	d.nextLease++
	l := &Lease{id: d.nextLease, owner: owner, d: d}
	d.leases[l.id] = l
	return l
}

func (l *Lease) ID() uint64 {
	if l == nil {
		return 0
	}
	return l.id
}

func (l *Lease) Owner() string {
	if l == nil {
		return ""
	}
	return l.owner
}

// Live reports whether the lease has not been released.
func (l *Lease) Live() bool {
	return l != nil && !l.released
}

// Release ends the lease. It is safe to call more than once.
func (l *Lease) Release() {
	if l == nil || l.released {
		return
	}
	l.released = true
	delete(l.d.leases, l.id)
	l.d.logger.Debug("lease released", "owner", l.owner, "lease", l.id)
	l.d.abandon(l.id)
}

// LiveLeases counts leases that have not been released.
func (d *Dispatcher) LiveLeases() int { return len(d.leases) }

// ReleaseAll releases every live lease and forgets pending fetches; used on
// shutdown, so slices are left as they are.
func (d *Dispatcher) ReleaseAll() {
	for _, l := range d.leases {
		l.released = true
	}
	clear(d.leases)
	clear(d.pending)
}
