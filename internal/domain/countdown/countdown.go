// Package countdown computes human-readable remaining or elapsed time
// relative to a due timestamp. It is pure: it knows nothing about task
// status, so callers combine Expired with their own completion state to
// classify a task as overdue.
package countdown

import (
	"fmt"
	"time"
)

// Countdown is the decomposed distance between now and a due timestamp.
type Countdown struct {
	Expired bool   `json:"expired"`
	Days    int64  `json:"days"`
	Hours   int64  `json:"hours"`
	Minutes int64  `json:"minutes"`
	Seconds int64  `json:"seconds"`
	Text    string `json:"text"`
}

// Compute decomposes |due - now| into days/hours/minutes/seconds using
// floor division. Expired is true only when due is strictly before now;
// an exact match reads "Due now" and is not expired.
func Compute(due, now time.Time) Countdown {
	diff := due.Sub(now)
	expired := diff < 0
	if expired {
		diff = -diff
	}

	total := int64(diff / time.Second)
	c := Countdown{
		Expired: expired,
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}

	if expired {
		c.Text = overdueText(c)
	} else {
		c.Text = remainingText(c)
	}
	return c
}

func remainingText(c Countdown) string {
	switch {
	case c.Days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds left", c.Days, c.Hours, c.Minutes, c.Seconds)
	case c.Hours > 0:
		return fmt.Sprintf("%dh %dm %ds left", c.Hours, c.Minutes, c.Seconds)
	case c.Minutes > 0:
		return fmt.Sprintf("%dm %ds left", c.Minutes, c.Seconds)
	case c.Seconds > 0:
		return fmt.Sprintf("%ds left", c.Seconds)
	default:
		return "Due now"
	}
}

func overdueText(c Countdown) string {
	switch {
	case c.Days > 0:
		return fmt.Sprintf("Overdue by %dd %dh %dm %ds", c.Days, c.Hours, c.Minutes, c.Seconds)
	case c.Hours > 0:
		return fmt.Sprintf("Overdue by %dh %dm %ds", c.Hours, c.Minutes, c.Seconds)
	case c.Minutes > 0:
		return fmt.Sprintf("Overdue by %dm %ds", c.Minutes, c.Seconds)
	case c.Seconds > 0:
		return fmt.Sprintf("Overdue by %ds", c.Seconds)
	default:
		return "Overdue by less than 1s"
	}
}
