// Package search produces a filtered copy of a board hierarchy matching
// a text query. It never mutates the input: every board, folder, and task
// in the result is a deep copy.
package search

import (
	"strings"

	"github.com/taskboard/core/internal/domain/entities"
)

// Filter applies a case-insensitive substring query to the hierarchy.
//
// Match propagation:
//   - a board matching on its own name/description is included with all
//     folders and tasks, skipping per-folder and per-task evaluation
//   - a folder matching on its own name/description is included with all
//     its tasks
//   - otherwise only tasks matching on title/description survive, and the
//     folder is kept only when at least one does
//   - a board with no self-match and no surviving folders is dropped
//
// An empty query is the identity: the full hierarchy is returned.
func Filter(boards []*entities.Board, query string) []*entities.Board {
	if query == "" {
		return entities.CloneBoards(boards)
	}

	term := strings.ToLower(query)
	filtered := make([]*entities.Board, 0, len(boards))

	for _, board := range boards {
		boardMatches := contains(board.Name, term) || contains(board.Description, term)
		if boardMatches {
			filtered = append(filtered, board.Clone())
			continue
		}

		boardCopy := *board
		boardCopy.Folders = nil

		for _, folder := range board.Folders {
			if contains(folder.Name, term) || contains(folder.Description, term) {
				boardCopy.Folders = append(boardCopy.Folders, folder.Clone())
				continue
			}

			folderCopy := *folder
			folderCopy.Tasks = nil
			for _, task := range folder.Tasks {
				if contains(task.Title, term) || contains(task.Description, term) {
					folderCopy.Tasks = append(folderCopy.Tasks, task.Clone())
				}
			}
			if len(folderCopy.Tasks) > 0 {
				boardCopy.Folders = append(boardCopy.Folders, &folderCopy)
			}
		}

		if len(boardCopy.Folders) > 0 {
			filtered = append(filtered, &boardCopy)
		}
	}

	return filtered
}

func contains(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
