package ui

import (
	"github.com/desertthunder/tagsync/internal/models"
)

// historyLoadedMsg carries the result of a history query.
type historyLoadedMsg struct {
	records []*models.SyncRecord
	err     error
}

// browserOpenedMsg carries the result of launching the watch page.
type browserOpenedMsg struct {
	err error
}
