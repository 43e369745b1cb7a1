package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Publish runs one tag publish from the terminal with live progress output.
//
// Same pipeline the webhook drives, so a curator can retry a failed record
// without re-firing the automation.
func (r *Runner) Publish(ctx context.Context, cmd *cli.Command) error {
	req := models.SyncRequest{
		RecordID:      cmd.String("record-id"),
		Title:         cmd.String("title"),
		ContentURL:    cmd.String("url"),
		SuggestedTags: cmd.String("tags"),
	}

	engine, err := r.buildEngine(ctx)
	if err != nil {
		return err
	}
	defer r.attachHistory(engine)()

	r.logger.Info("publishing tags", "record_id", req.RecordID, "url", req.ContentURL)
	r.writePlain("Publishing tags...\n\n")

	// Drain progress updates on a goroutine so a slow terminal never stalls
	// the pipeline's remote calls.
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result := engine.Publish(ctx, progressCh, req)
	close(progressCh)
	<-done

	r.writePlain("\n")
	r.writePlainHeader("Publish Complete")
	r.writePlain("Record: %s\n", result.RecordID)
	if result.Title != "" {
		r.writePlain("Title: %s\n", result.Title)
	}
	r.writePlain("Status: %s\n", result.Outcome.Status)

	if !result.Outcome.Succeeded() {
		r.writePlain("Error: %s\n", result.Outcome.ErrorDetail)
		return fmt.Errorf("publish failed: %s", result.Outcome.Message)
	}

	ref := models.VideoReference{VideoID: result.VideoID}
	r.writePlain("Video: %s\n", ref.WatchURL())
	r.writePlain("Tags published: %d\n", result.Outcome.TagsCount)

	return nil
}

// publishCommand runs one sync from the terminal.
func publishCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Publish a record's suggested tags to its video",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "record-id",
				Usage:    "Airtable record ID to report status against",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Video URL (watch, youtu.be, or embed form)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "tags",
				Usage:    "Comma- or semicolon-delimited tag list",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Video title for log output",
			},
		},
		Action: r.Publish,
	}
}
