package outwriter

import (
	"os"

	"github.com/huangsam/devpick/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableIDWidth calculates the maximum width for parcel IDs in table output
// based on terminal width and the fixed pick columns.
func GetMaxTableIDWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank, Form, Net Units, Res Units, Job Spaces, Stories, Max Profit and Year
	baseWidth := 95

	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateID shortens long parcel IDs from the left so the distinguishing suffix stays visible.
func truncateID(id string, maxWidth int) string {
	runes := []rune(id)
	if len(runes) <= maxWidth || maxWidth <= 3 {
		return id
	}
	return "..." + string(runes[len(runes)-maxWidth+3:])
}
