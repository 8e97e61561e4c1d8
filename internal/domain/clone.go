package domain

// cloneSlice copies s element-wise and keeps nil slices nil so that a clone
// compares equal to its source.
func cloneSlice[T any](s []T, elem func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		if elem != nil {
			v = elem(v)
		}
		out[i] = v
	}
	return out
}

func (s Station) Clone() Station {
	s.Hardware = cloneSlice(s.Hardware, nil)
	return s
}

func (l Layer) Clone() Layer {
	l.CableRuns = cloneSlice(l.CableRuns, nil)
	return l
}

func (f Floor) Clone() Floor {
	f.Stations = cloneSlice(f.Stations, Station.Clone)
	f.Objects = cloneSlice(f.Objects, nil)
	f.Labels = cloneSlice(f.Labels, nil)
	f.Layers = cloneSlice(f.Layers, Layer.Clone)
	return f
}

// Clone returns a deep copy of the location.
func (l Location) Clone() Location {
	l.IntegrationIDs = cloneSlice(l.IntegrationIDs, nil)
	l.Floors = cloneSlice(l.Floors, Floor.Clone)
	if l.GoLive != nil {
		g := *l.GoLive
		l.GoLive = &g
	}
	return l
}

func (g HardwareGroup) Clone() HardwareGroup {
	g.HardwareIDs = cloneSlice(g.HardwareIDs, nil)
	return g
}

func (b EstimateBreakdown) Clone() EstimateBreakdown {
	b.Items = cloneSlice(b.Items, nil)
	return b
}

// CloneLocations deep-copies a location set.
func CloneLocations(locs []Location) []Location {
	return cloneSlice(locs, Location.Clone)
}
