package project

import (
	"fmt"
	"time"
)

// DefaultSeedStart is the mtime of the first seeded project.
var DefaultSeedStart = time.Date(2020, time.July, 13, 17, 35, 0, 0, time.UTC)

const (
	// DefaultSeedCount is the size of the demo dataset.
	DefaultSeedCount = 999
	// DefaultTieEvery makes every tenth project share its mtime with the
	// next one.
	DefaultTieEvery = 10
)

// Seed builds projects named project001, project002, ... whose mtimes
// decrease by one millisecond per project, except that every tieEvery-th
// project keeps the same mtime as its successor. A non-positive tieEvery
// produces no ties.
func Seed(count int, start time.Time, tieEvery int) []*Project {
	width := len(fmt.Sprint(count))
	if width < 3 {
		width = 3
	}

	projects := make([]*Project, 0, count)
	mtime := start.UTC().Truncate(time.Millisecond)
	for n := 1; n <= count; n++ {
		projects = append(projects, New(fmt.Sprintf("project%0*d", width, n), mtime))
		if tieEvery <= 0 || n%tieEvery != 0 {
			mtime = mtime.Add(-time.Millisecond)
		}
	}
	return projects
}
