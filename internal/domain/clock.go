package domain

import "time"

// LocalMidnight returns the start of t's calendar day in t's location.
// Daily quotas and streaks are defined over local study days, so the cutoff
// follows whatever location the caller's clock value carries.
func LocalMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SameStudyDay reports whether a and b fall on the same calendar day when
// both are viewed in b's location.
func SameStudyDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
