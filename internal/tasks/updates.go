package tasks

import (
	"fmt"

	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/services"
)

// ProgressUpdate represents a progress event during a publish run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within the run
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Pipeline phase enumeration
type Phase int

const (
	Validate Phase = iota
	Resolve
	CopyTags
	Normalize
	Update
	Report
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case Resolve:
		return "resolve"
	case CopyTags:
		return "copy_tags"
	case Normalize:
		return "normalize"
	case Update:
		return "update"
	case Report:
		return "report"
	default:
		return ""
	}
}

// pipelineSteps counts the phases a full run walks through.
const pipelineSteps = 6

func receivedUpdate(title string) ProgressUpdate {
	if title == "" {
		title = "Unknown Title"
	}
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Processing webhook for: %.50s...", title),
	}
}

func resolvingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    2,
		Total:   pipelineSteps,
		Message: "Extracting video ID from URL...",
	}
}

func resolvedUpdate(ref models.VideoReference) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    2,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Found video %s", ref.VideoID),
		Data:    ref,
	}
}

func copyTagsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   CopyTags,
		Step:    3,
		Total:   pipelineSteps,
		Message: "Copying suggested tags to Tags field...",
	}
}

func normalizeUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Normalize,
		Step:    4,
		Total:   pipelineSteps,
		Message: "Validating tags...",
	}
}

func normalizedUpdate(tags models.TagSet) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Normalize,
		Step:    4,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Validated %d tags", len(tags)),
		Data:    tags,
	}
}

func applyingUpdate(videoID string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Update,
		Step:    5,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Publishing %d tags to video %s...", count, videoID),
	}
}

func appliedUpdate(result *services.UpdateResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Update,
		Step:    5,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Updated with %d tags", result.TagsCount),
		Data:    result,
	}
}

func reportingUpdate(status models.SyncStatus) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Report,
		Step:    6,
		Total:   pipelineSteps,
		Message: fmt.Sprintf("Writing %s status to record...", status),
	}
}
