/*
Copyright © 2019 the MeshPatch authors.
This file is part of MeshPatch.

MeshPatch is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MeshPatch is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MeshPatch.  If not, see <http://www.gnu.org/licenses/>.
*/

package meshpatch

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// A ProgressReporter receives periodic status notifications during long
// patch builds. The fraction increases monotonically within a build and
// reaches exactly 1 on completion. Notifications are informational
// only: implementations must not block, and must swallow their own
// failures rather than propagating them to the build.
type ProgressReporter interface {
	Report(label string, fraction float64)
}

// ProgressFunc adapts a plain function to the ProgressReporter
// interface.
type ProgressFunc func(label string, fraction float64)

func (f ProgressFunc) Report(label string, fraction float64) { f(label, fraction) }

// reportProgress forwards a notification to p if there is one.
func reportProgress(p ProgressReporter, label string, fraction float64) {
	if p == nil {
		return
	}
	p.Report(label, fraction)
}

// progressBarLength is the number of columns in a terminal progress bar.
const progressBarLength = 40

// TerminalProgress is a ProgressReporter that redraws a textual
// progress bar in place using carriage returns.
type TerminalProgress struct {
	// W is the destination, typically os.Stdout. Write errors are
	// ignored.
	W io.Writer
}

// Report draws the bar for the given completion fraction, appending
// "DONE" and a line break when the fraction reaches 1.
func (p *TerminalProgress) Report(label string, fraction float64) {
	if p.W == nil {
		return
	}
	block := int(math.Round(progressBarLength * fraction))
	if block > progressBarLength {
		block = progressBarLength
	} else if block < 0 {
		block = 0
	}
	msg := fmt.Sprintf("\r%s: [%s%s] %.2f%%", label,
		strings.Repeat("#", block), strings.Repeat("-", progressBarLength-block),
		fraction*100)
	if fraction >= 1 {
		msg += " DONE\r\n"
	}
	fmt.Fprint(p.W, msg)
}
