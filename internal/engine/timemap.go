package engine

import (
	"math"

	"tempo/internal/domain/entity"
)

// DefaultSnapMinutes is the scheduling granularity used when the
// configured snap is missing or invalid.
const DefaultSnapMinutes = 15

// MapTime converts a vertical offset within a calendar column into a time
// of day. hourHeight is the height of one displayed hour; startHour the
// hour rendered at offset zero (may place the column start before
// midnight, hour arithmetic is mod 24). The minute is snapped to the
// nearest multiple of snapMinutes, carrying into the hour at 60.
func MapTime(offsetY, hourHeight, startHour, snapMinutes int) entity.ClockTime {
	if hourHeight <= 0 {
		return entity.ClockTime{Hour: wrapHour(startHour)}
	}
	if snapMinutes <= 0 || snapMinutes > 60 {
		snapMinutes = DefaultSnapMinutes
	}
	if offsetY < 0 {
		offsetY = 0
	}

	hours := offsetY / hourHeight
	rem := offsetY % hourHeight

	rawMinute := float64(rem) * 60 / float64(hourHeight)
	minute := int(math.Round(rawMinute/float64(snapMinutes))) * snapMinutes
	if minute >= 60 {
		minute -= 60
		hours++
	}

	return entity.ClockTime{
		Hour:   wrapHour(hours + startHour),
		Minute: minute,
	}
}

func wrapHour(h int) int {
	h %= 24
	if h < 0 {
		h += 24
	}
	return h
}
