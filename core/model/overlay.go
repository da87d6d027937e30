package model

// Overlay records per-link damage overrides on top of an otherwise
// undamaged Network. Links absent from the overlay have status 0. Each
// fitness evaluation owns a private overlay, so concurrent evaluations of
// the same Network never share mutable state.
type Overlay map[string]DamageStatus

// DamageOverlay builds the overlay describing the scenario's initial
// damage: every damaged bridge marks its link with the status matching the
// bridge's damage state.
func (n *Network) DamageOverlay() Overlay {
	ov := make(Overlay, len(n.bridges))
	for _, b := range n.bridges {
		ov[b.LinkID] = DamageStatus(b.State)
	}
	return ov
}

// Clone returns an independent copy of the overlay.
func (ov Overlay) Clone() Overlay {
	cp := make(Overlay, len(ov))
	for k, v := range ov {
		cp[k] = v
	}
	return cp
}

// Status returns the damage status of the link under this overlay.
func (ov Overlay) Status(link string) DamageStatus {
	return ov[link]
}

// Repair marks the link as fully repaired.
func (ov Overlay) Repair(link string) {
	delete(ov, link)
}
