package main

import (
	"fmt"

	"github.com/fwojciec/wxrport"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return wxrport.Errorf(wxrport.EINVALID, "use --force to confirm deletion")
	}

	archive, err := requireArchive(deps)
	if err != nil {
		return err
	}

	if err := archive.DeleteRun(deps.Ctx, c.RunID); wxrport.ErrorCode(err) == wxrport.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'wxrport runs' to see archived runs.\n", c.RunID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wxrport.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.RunID)
	return nil
}
