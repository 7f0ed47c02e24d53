package handlers

import (
	"fmt"
	"io"

	"github.com/imamik/rentwise/internal/pricing"
)

// ROI prints the savings estimate for in.
func ROI(w io.Writer, in pricing.ROIInput, jsonOutput bool) error {
	est, err := pricing.ROI(in)
	if err != nil {
		return err
	}

	f := pricing.NewFormatter()
	if jsonOutput {
		fmt.Fprintln(w, f.FormatJSON(est))
		return nil
	}
	fmt.Fprint(w, f.FormatROI(est))
	return nil
}
