package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/sqlite"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	archive, err := requireArchive(deps)
	if err != nil {
		return err
	}

	runs, err := archive.FindRuns(deps.Ctx, c.Limit, 0)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wxrport.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs archived. Use 'wxrport --db PATH' to archive one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d items\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Origin, r.ItemCount)
	}

	return nil
}

// requireArchive returns the archive opened from --db, or an error telling
// the user to pass it.
func requireArchive(deps *Dependencies) (*sqlite.Archive, error) {
	if deps.Archive == nil {
		fmt.Fprintln(deps.Stderr, "error: --db is required")
		return nil, wxrport.Errorf(wxrport.EINVALID, "--db is required")
	}
	return deps.Archive, nil
}
