package core

// Signal record primitives. These are the only writers of an
// intersection's signal fields; each runs under that intersection's lock,
// so the mode check and the write are one atomic step.

// InstallSignal puts a signal on intersection id, in manual mode showing red.
func (n *Network) InstallSignal(id int) (SignalInfo, error) {
	in, err := n.lookup(id)
	if err != nil {
		return SignalInfo{}, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.hasSignal {
		return in.signalLocked(), conflictf("intersection %d already has a signal", id)
	}
	in.hasSignal = true
	in.mode = ModeManual
	in.state = Red
	return in.signalLocked(), nil
}

// ToggleSignal flips a manual signal between red and green. A yellow phase
// left over from automatic control goes to red.
func (n *Network) ToggleSignal(id int) (SignalInfo, error) {
	in, err := n.lookup(id)
	if err != nil {
		return SignalInfo{}, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.hasSignal {
		return in.signalLocked(), notFoundf("intersection %d has no signal", id)
	}
	if in.mode == ModeAutomatic {
		return in.signalLocked(), statef("signal %d is under automatic control", id)
	}
	if in.state == Red {
		in.state = Green
	} else {
		in.state = Red
	}
	return in.signalLocked(), nil
}

// SetSignalMode switches a signal between manual and automatic control,
// keeping its current state.
func (n *Network) SetSignalMode(id int, mode SignalMode) (SignalInfo, error) {
	if mode != ModeManual && mode != ModeAutomatic {
		return SignalInfo{}, validationf("signal mode must be manual or automatic, got %s", mode)
	}
	in, err := n.lookup(id)
	if err != nil {
		return SignalInfo{}, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.hasSignal {
		return in.signalLocked(), notFoundf("intersection %d has no signal", id)
	}
	if in.mode == mode {
		return in.signalLocked(), statef("signal %d is already in %s mode", id, mode)
	}
	in.mode = mode
	return in.signalLocked(), nil
}

// ApplyAutomaticState writes a computed state, but only while the signal is
// still under automatic control. It reports whether the state changed.
func (n *Network) ApplyAutomaticState(id int, state SignalState) (SignalInfo, bool, error) {
	in, err := n.lookup(id)
	if err != nil {
		return SignalInfo{}, false, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.hasSignal || in.mode != ModeAutomatic {
		return in.signalLocked(), false, statef("signal %d left automatic control", id)
	}
	changed := in.state != state
	in.state = state
	return in.signalLocked(), changed, nil
}

// Signal returns the signal fields of intersection id.
func (n *Network) Signal(id int) (SignalInfo, error) {
	in, err := n.lookup(id)
	if err != nil {
		return SignalInfo{}, err
	}
	return in.signal(), nil
}

// Signals lists every intersection that carries a signal, by id.
func (n *Network) Signals() []SignalInfo {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var out []SignalInfo
	n.intersections.Scan(func(in *intersection) bool {
		if sig := in.signal(); sig.HasSignal {
			out = append(out, sig)
		}
		return true
	})
	return out
}

// AutomaticSignals lists the ids of intersections under automatic control.
// The result is a point-in-time view; a listed signal may be switched to
// manual before the caller acts on it.
func (n *Network) AutomaticSignals() []int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var ids []int
	n.intersections.Scan(func(in *intersection) bool {
		if sig := in.signal(); sig.HasSignal && sig.Mode == ModeAutomatic {
			ids = append(ids, in.id)
		}
		return true
	})
	return ids
}
