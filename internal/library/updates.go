package library

import (
	"fmt"
	"path/filepath"
)

// ProgressUpdate is a progress event emitted while scanning.
type ProgressUpdate struct {
	Phase   Phase  // Scan phase
	Step    int    // Files handled so far within the root
	Total   int    // Number of roots, or files found in a root
	Message string // Human-readable message for display
	Data    any    // The [Entry] added, for Found updates
}

// Scan phase enumeration
type Phase int

const (
	WalkRoot Phase = iota
	FoundSong
	SkipFile
	ScanDone
)

func (p Phase) String() string {
	switch p {
	case WalkRoot:
		return "walk_root"
	case FoundSong:
		return "found_song"
	case SkipFile:
		return "skip_file"
	case ScanDone:
		return "scan_done"
	default:
		return ""
	}
}

// sendProgress sends update without blocking; a full or nil channel drops it.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func walkRootUpdate(step, total int, root string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WalkRoot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Scanning %s...", step, total, root),
	}
}

func foundSongUpdate(step int, e Entry) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FoundSong,
		Step:    step,
		Message: fmt.Sprintf("%s - %s (%s)", e.Song.Artist, e.Song.Title, e.HumanSize()),
		Data:    e,
	}
}

func skipFileUpdate(step int, path, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipFile,
		Step:    step,
		Message: fmt.Sprintf("Skipped %s: %s", filepath.Base(path), reason),
	}
}

func scanDoneUpdate(found, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanDone,
		Step:    found,
		Total:   found + skipped,
		Message: fmt.Sprintf("Found %d songs (%d files skipped)", found, skipped),
	}
}
