package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tagsync/internal/models"
)

var (
	_ list.Item = syncItem{}
)

// syncItem wraps [models.SyncRecord] to implement [list.Item].
type syncItem struct {
	record *models.SyncRecord
}

func (i syncItem) FilterValue() string {
	return i.record.RecordID() + " " + i.record.Title()
}

func (i syncItem) Title() string {
	title := i.record.Title()
	if title == "" {
		title = i.record.RecordID()
	}
	return fmt.Sprintf("[%s] %s", i.record.Status(), title)
}

func (i syncItem) Description() string {
	desc := i.record.RecordID()
	if i.record.VideoID() != "" {
		desc = fmt.Sprintf("%s • video %s", desc, i.record.VideoID())
	}
	if i.record.TagsCount() > 0 {
		desc = fmt.Sprintf("%s • %d tags", desc, i.record.TagsCount())
	}
	return fmt.Sprintf("%s • %s", desc, i.record.CreatedAt().Format("2006-01-02 15:04"))
}
