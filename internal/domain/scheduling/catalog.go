package scheduling

var defaultSlots = []string{
	"08.00 AM - 08.30 AM",
	"08.30 AM - 09.00 AM",
	"09.00 AM - 09.30 AM",
	"09.30 AM - 10.00 AM",
	"10.00 AM - 10.30 AM",
	"10.30 AM - 11.00 AM",
	"11.00 AM - 11.30 AM",
	"11.30 AM - 12.00 PM",
	"01.00 PM - 01.30 PM",
	"01.30 PM - 02.00 PM",
	"02.00 PM - 02.30 PM",
	"02.30 PM - 03.00 PM",
	"03.00 PM - 03.30 PM",
	"03.30 PM - 04.00 PM",
	"04.00 PM - 04.30 PM",
	"04.30 PM - 05.00 PM",
}

// DefaultCatalog returns the treatments the seed command installs.
func DefaultCatalog() []*Treatment {
	names := []string{
		"Teeth Orthodontics",
		"Cosmetic Dentistry",
		"Teeth Cleaning",
		"Cavity Protection",
		"Pediatric Dental",
		"Oral Surgery",
	}
	out := make([]*Treatment, 0, len(names))
	for _, n := range names {
		slots := make([]string, len(defaultSlots))
		copy(slots, defaultSlots)
		out = append(out, &Treatment{Name: n, Slots: slots})
	}
	return out
}
