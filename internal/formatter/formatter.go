// package formatter provides functions to export sync history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/tagsync/internal/models"
)

// ExportToCSV converts sync history rows to CSV with columns:
// Sequence, Synced At, Record ID, Video ID, Title, Status, Tags, Message, Error
func ExportToCSV(records []*models.SyncRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Synced At", "Record ID", "Video ID", "Title", "Status", "Tags", "Message", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Sequence()),
			record.CreatedAt().UTC().Format(time.RFC3339),
			record.RecordID(),
			record.VideoID(),
			record.Title(),
			string(record.Status()),
			strconv.Itoa(record.TagsCount()),
			record.Message(),
			record.ErrorDetail(),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts sync history rows to a Markdown report with a
// summary header and one table row per run.
func ExportToMarkdown(records []*models.SyncRecord) ([]byte, error) {
	var buf bytes.Buffer

	succeeded := countSucceeded(records)

	buf.WriteString("# Sync History\n\n")
	buf.WriteString(fmt.Sprintf("**Runs**: %d\n", len(records)))
	buf.WriteString(fmt.Sprintf("**Succeeded**: %d\n", succeeded))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n\n", len(records)-succeeded))

	buf.WriteString("| # | Synced At | Record | Video | Status | Tags | Message |\n")
	buf.WriteString("|---|-----------|--------|-------|--------|------|---------|\n")

	for _, record := range records {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %d | %s |\n",
			record.Sequence(),
			record.CreatedAt().UTC().Format("2006-01-02 15:04"),
			record.RecordID(),
			record.VideoID(),
			record.Status(),
			record.TagsCount(),
			record.Message(),
		))
	}

	return buf.Bytes(), nil
}

// ExportToText converts sync history rows to plain text format
func ExportToText(records []*models.SyncRecord) ([]byte, error) {
	var buf bytes.Buffer

	succeeded := countSucceeded(records)

	buf.WriteString("Sync History\n")
	buf.WriteString(fmt.Sprintf("Runs: %d (%d succeeded, %d failed)\n\n", len(records), succeeded, len(records)-succeeded))

	for i, record := range records {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, record.Status(), record.RecordID()))
		if record.VideoID() != "" {
			buf.WriteString(fmt.Sprintf(" video %s", record.VideoID()))
		}
		buf.WriteString(fmt.Sprintf(": %s (%s)\n", record.Message(), record.CreatedAt().UTC().Format("2006-01-02 15:04")))
	}

	return buf.Bytes(), nil
}

// countSucceeded counts the runs that reached terminal success.
func countSucceeded(records []*models.SyncRecord) int {
	count := 0
	for _, record := range records {
		if record.Outcome().Succeeded() {
			count++
		}
	}
	return count
}

// WriteCSVExport writes sync history to a CSV file.
//
// Defaults to sync_history.csv when no path is given.
func WriteCSVExport(records []*models.SyncRecord, filepath string) (string, error) {
	if filepath == "" {
		filepath = "sync_history.csv"
	}

	csvData, err := ExportToCSV(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteMarkdownExport writes sync history to a Markdown file.
//
// Defaults to sync_history.md when no path is given.
func WriteMarkdownExport(records []*models.SyncRecord, filepath string) (string, error) {
	if filepath == "" {
		filepath = "sync_history.md"
	}

	mdData, err := ExportToMarkdown(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes sync history to a plain text file.
//
// Defaults to sync_history.txt when no path is given.
func WriteTextExport(records []*models.SyncRecord, filepath string) (string, error) {
	if filepath == "" {
		filepath = "sync_history.txt"
	}

	textData, err := ExportToText(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
