package orders

import (
	"strconv"
	"time"
)

// dateOnly truncates t to its calendar date. All start/end date rules compare
// dates, not instants.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
