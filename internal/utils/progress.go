package utils

import "github.com/schollz/progressbar/v3"

// Standard progress bar descriptions
const (
	DescIndexing = "Indexing"
	DescWriting  = "Writing"
	DescBuilding = "Building"
)

// NewProgressBar creates a consistently styled progress bar.
//
// Parameters:
//   - total: Total number of items. Use -1 for unknown totals (spinner mode).
//   - description: Text shown before the bar (e.g. DescIndexing).
//   - extra: Additional options, typically progressbar.OptionSetWriter.
//
// Unknown totals use spinner type 14 with blank state rendering; known totals
// show iterations per second. All bars show the count.
//
// Example:
//
//	bar := utils.NewProgressBar(-1, utils.DescIndexing, progressbar.OptionSetWriter(os.Stderr))
//	defer bar.Finish()
func NewProgressBar(total int, description string, extra ...progressbar.Option) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	opts = append(opts, extra...)

	return progressbar.NewOptions(total, opts...)
}
