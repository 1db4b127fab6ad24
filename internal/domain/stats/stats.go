// Package stats aggregates task counts across a board hierarchy.
package stats

import (
	"time"

	"github.com/taskboard/core/internal/domain/countdown"
	"github.com/taskboard/core/internal/domain/entities"
)

// Summary holds per-status task counts plus the overdue count. A task
// counts toward exactly one status bucket and may additionally count as
// overdue when its due date has passed and it is not completed.
type Summary struct {
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// Compute walks every task in the hierarchy once.
func Compute(boards []*entities.Board, now time.Time) Summary {
	var summary Summary

	for _, board := range boards {
		for _, folder := range board.Folders {
			for _, task := range folder.Tasks {
				switch task.Status {
				case entities.StatusPending:
					summary.Pending++
				case entities.StatusActive:
					summary.Active++
				case entities.StatusCompleted:
					summary.Completed++
				}

				if countdown.Compute(task.DueDate, now).Expired && task.Status != entities.StatusCompleted {
					summary.Overdue++
				}
			}
		}
	}

	return summary
}
