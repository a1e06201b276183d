package scheduling

// ComputeAvailability returns a copy of every treatment with the slots
// already booked on date removed, preserving slot order. Bookings for other
// dates are ignored. Treatments with nothing left are still returned with an
// empty slot list. Inputs are not modified.
func ComputeAvailability(date string, treatments []*Treatment, bookings []*Booking) []*Treatment {
	booked := make(map[string]map[string]struct{})
	for _, b := range bookings {
		if b == nil || b.AppointmentDate != date {
			continue
		}
		slots, ok := booked[b.Treatment]
		if !ok {
			slots = make(map[string]struct{})
			booked[b.Treatment] = slots
		}
		slots[b.Slot] = struct{}{}
	}

	out := make([]*Treatment, 0, len(treatments))
	for _, t := range treatments {
		if t == nil {
			continue
		}
		taken := booked[t.Name]
		remaining := make([]string, 0, len(t.Slots))
		for _, s := range t.Slots {
			if _, ok := taken[s]; ok {
				continue
			}
			remaining = append(remaining, s)
		}
		cp := *t
		cp.Slots = remaining
		out = append(out, &cp)
	}
	return out
}
