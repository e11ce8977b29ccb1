package admin

import "time"

// gameDateBaseOffset is the day-366 bias baked into OpenTTD's epoch: day 1
// of year 0 plus 366 days, matching original_source's
// libottdadmin2/util.py (GAMEDATE_BASE_DATE = datetime(1, 1, 1),
// GAMEDATE_BASE_OFFSET = 366) and the teacher's own
// `epochDate := time.Date(0, time.January, 1, ...)` arithmetic in
// pkg/admin/admin.go.
const gameDateBaseOffset = 366

var gameDateBase = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// gamedateToTime converts a raw u32 game-date (days since the OpenTTD
// epoch) into a time.Time. A value of 0, or any value less than 366,
// means "not set" and maps to time.Time{} (the zero value), mirroring
// datetime.min in the Python original.
func gamedateToTime(date uint32) time.Time {
	if date < gameDateBaseOffset {
		return time.Time{}
	}
	return gameDateBase.AddDate(0, 0, int(date)-gameDateBaseOffset)
}

// timeToGamedate is the inverse of gamedateToTime.
func timeToGamedate(t time.Time) uint32 {
	days := (t.Unix() - gameDateBase.Unix()) / 86400
	return uint32(days + gameDateBaseOffset)
}
