package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagsync/internal/formatter"
	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/shared"
	"github.com/desertthunder/tagsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// historyRow is the JSON projection of one audit row for CLI output.
type historyRow struct {
	ID        string `json:"id"`
	Sequence  int    `json:"sequence"`
	RecordID  string `json:"record_id"`
	VideoID   string `json:"video_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	TagsCount int    `json:"tags_count"`
	SyncedAt  string `json:"synced_at"`
}

func toHistoryRow(record *models.SyncRecord) historyRow {
	return historyRow{
		ID:        record.ID(),
		Sequence:  record.Sequence(),
		RecordID:  record.RecordID(),
		VideoID:   record.VideoID(),
		Title:     record.Title(),
		Status:    string(record.Status()),
		Message:   record.Message(),
		Error:     record.ErrorDetail(),
		TagsCount: record.TagsCount(),
		SyncedAt:  record.CreatedAt().UTC().Format(time.RFC3339),
	}
}

// HistoryList prints recent publish runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	status := cmd.String("status")
	useJSON := cmd.Bool("json")

	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	var records []*models.SyncRecord
	if status != "" {
		records, err = repo.List(map[string]any{"status": status})
	} else {
		records, err = repo.ListRecent(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to query history: %w", err)
	}

	if useJSON {
		rows := make([]historyRow, len(records))
		for i, record := range records {
			rows[i] = toHistoryRow(record)
		}
		return r.writeJSON(rows, true)
	}

	text, err := formatter.ExportToText(records)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// HistoryShow displays one run by its history id or by the upstream record id.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run or record id", shared.ErrMissingArgument)
	}

	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := repo.Get(id)
	if err != nil {
		// Curators usually have the Airtable record id at hand, not ours.
		if record, err = repo.GetByRecordID(id); err != nil {
			return fmt.Errorf("no history for %q: %w", id, err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(toHistoryRow(record), true)
	}

	r.writePlainHeader(fmt.Sprintf("Run #%d — %s", record.Sequence(), record.Status()))
	r.writePlain("Record: %s\n", record.RecordID())
	if record.Title() != "" {
		r.writePlain("Title: %s\n", record.Title())
	}
	if record.VideoID() != "" {
		ref := models.VideoReference{VideoID: record.VideoID()}
		r.writePlain("Video: %s\n", ref.WatchURL())
	}
	r.writePlain("Tags: %d\n", record.TagsCount())
	r.writePlain("Message: %s\n", record.Message())
	if record.ErrorDetail() != "" && record.ErrorDetail() != record.Message() {
		r.writePlain("Detail: %s\n", record.ErrorDetail())
	}
	r.writePlain("Synced: %s\n", record.CreatedAt().UTC().Format(time.RFC3339))

	return nil
}

// HistoryExport writes the sync history to a CSV, Markdown, or text file.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")
	status := cmd.String("status")

	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if status != "" {
		criteria["status"] = status
	}

	records, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to query history: %w", err)
	}

	var path string
	switch format {
	case "csv":
		path, err = formatter.WriteCSVExport(records, output)
	case "markdown", "md":
		path, err = formatter.WriteMarkdownExport(records, output)
	case "text", "txt":
		path, err = formatter.WriteTextExport(records, output)
	default:
		return fmt.Errorf("%w: format must be csv, markdown, or text", shared.ErrInvalidInput)
	}
	if err != nil {
		return err
	}

	r.writePlain("Exported %d runs to %s\n", len(records), path)
	return nil
}

// HistoryBrowse launches the interactive history browser.
func (r *Runner) HistoryBrowse(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to a file so they don't fight the TUI for the terminal.
	fileLogger, logFile, err := shared.NewFileLogger(filepath.Join(os.TempDir(), "tagsync-tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, repo)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running history browser: %w", err)
	}

	return nil
}

// historyCommand queries the local audit trail of publish runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect past publish runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (Success or Failed)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one run by history id or record id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "export",
				Usage: "Export the history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, or text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (Success or Failed)",
					},
				},
				Action: r.HistoryExport,
			},
			{
				Name:    "browse",
				Aliases: []string{"ui"},
				Usage:   "Browse runs in an interactive TUI",
				Action:  r.HistoryBrowse,
			},
		},
	}
}
