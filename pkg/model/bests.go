package model

// PersonalBests returns the best sector durations of the competitor.
// The dataset value is used if present, otherwise they are derived from the laps.
func (c *Competitor) PersonalBests() *SectorTimes {
	if !c.BestSectors.IsEmpty() {
		return c.BestSectors
	}
	return bestOf(c.Laps)
}

// GlobalBests returns the best sector durations over all competitors.
// The dataset value is used if present, otherwise they are derived.
func (ds *RaceDataset) GlobalBests() *SectorTimes {
	if !ds.BestSectors.IsEmpty() {
		return ds.BestSectors
	}
	ret := &SectorTimes{}
	for _, c := range ds.Drivers {
		if c == nil {
			continue
		}
		pb := c.PersonalBests()
		for idx := range NumSectors {
			v := pb.At(idx)
			if v == nil {
				continue
			}
			if cur := ret.At(idx); cur == nil || *v < *cur {
				ret.Set(idx, *v)
			}
		}
	}
	return ret
}

func bestOf(laps []SectorRecord) *SectorTimes {
	ret := &SectorTimes{}
	for i := range laps {
		for idx, d := range laps[i].Durations() {
			if d == nil {
				continue
			}
			if cur := ret.At(idx); cur == nil || *d < *cur {
				ret.Set(idx, *d)
			}
		}
	}
	return ret
}
