package analysis

// Run is a half-open span [Start, End) of non-silent samples.
type Run struct {
	Start, End int64
}

func (r Run) Len() int64 {
	return r.End - r.Start
}

// ActiveRuns returns the non-silent spans of samples. Up to gap zero samples
// inside a span, such as sine zero crossings, do not split it. Spans start and
// end on non-zero samples.
func ActiveRuns(samples []int32, gap int) []Run {
	var runs []Run
	var cur Run
	open := false
	for i, v := range samples {
		if v == 0 {
			continue
		}
		at := int64(i)
		if open && at-cur.End <= int64(gap) {
			cur.End = at + 1
			continue
		}
		if open {
			runs = append(runs, cur)
		}
		cur = Run{Start: at, End: at + 1}
		open = true
	}
	if open {
		runs = append(runs, cur)
	}
	return runs
}

// Peak is the largest absolute sample value.
func Peak(samples []int32) int32 {
	var peak int32
	for _, v := range samples {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}
