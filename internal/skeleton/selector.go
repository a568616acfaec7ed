package skeleton

// SelectSubject returns the first subject in slot order whose tracking state is
// Tracked. Selection does not consider proximity or size.
func SelectSubject(subjects []Subject) (*Subject, bool) {
	for i := range subjects {
		if subjects[i].TrackingState == Tracked {
			return &subjects[i], true
		}
	}
	return nil, false
}

// SelectFromFrame acquires the frame's skeleton data and selects a subject.
// Returns false without attempting selection when the data is unavailable.
func SelectFromFrame(f Frame) (*Subject, bool) {
	if f == nil {
		return nil, false
	}
	subjects, ok := f.Subjects()
	if !ok {
		return nil, false
	}
	return SelectSubject(subjects)
}
