package postgres

import (
	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/progress"
)

// Ensure PostgreSQL stores implement the storage interfaces.
var (
	_ progress.Store  = (*ProgressStore)(nil)
	_ attempt.History = (*HistoryStore)(nil)
)
