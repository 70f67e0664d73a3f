package main

import (
	"fmt"

	"github.com/fwojciec/wxrport"
)

// Run executes the items command.
func (c *ItemsCmd) Run(deps *Dependencies) error {
	archive, err := requireArchive(deps)
	if err != nil {
		return err
	}

	run, err := archive.FindRunByID(deps.Ctx, c.RunID)
	if wxrport.ErrorCode(err) == wxrport.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'wxrport runs' to see archived runs.\n", c.RunID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wxrport.ErrorMessage(err))
		return err
	}

	items, err := archive.FindItems(deps.Ctx, run.ID, c.Limit, c.Offset)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wxrport.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s: %s, %d items\n", run.ID, run.Origin, run.ItemCount)
	for _, item := range items {
		fmt.Fprintf(deps.Stdout, "%s  %-4s  %s  %s\n",
			item.Date.Format("2006-01-02"), item.PostType, item.Slug, item.URL)
	}

	return nil
}
