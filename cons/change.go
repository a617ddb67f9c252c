package cons

// ConsSetChange records the constraints added or disabled while processing
// a node, so the node's undo step (C5) can reverse exactly this batch
// without touching changes made by other nodes.
type ConsSetChange struct {
	Added    []*Constraint
	Disabled []*Constraint
}

// Apply activates every added constraint and disables every disabled one,
// in that order, via the registry's Add.
func (ch *ConsSetChange) Apply(r *Registry) error {
	for _, c := range ch.Added {
		if err := r.Add(c); err != nil {
			return err
		}
	}
	for _, c := range ch.Disabled {
		if err := c.Disable(); err != nil {
			return err
		}
	}
	return nil
}

// Undo reverses Apply: re-enables the disabled constraints and deactivates
// the added ones, in reverse order.
func (ch *ConsSetChange) Undo() error {
	for i := len(ch.Disabled) - 1; i >= 0; i-- {
		if err := ch.Disabled[i].Enable(); err != nil {
			return err
		}
	}
	for i := len(ch.Added) - 1; i >= 0; i-- {
		if err := ch.Added[i].Deactivate(); err != nil {
			return err
		}
	}
	return nil
}
