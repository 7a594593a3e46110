package main

import (
	"fmt"

	"github.com/fwojciec/clipdoc"
)

// Run executes the find command.
func (c *FindCmd) Run(deps *Dependencies) error {
	title := clipdoc.SanitizeTitle(c.Title)
	rec, err := deps.Store.FindDocumentByTitle(deps.Ctx, deps.Folder.ID, title)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", clipdoc.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s || %s\n", rec.Title, rec.URL)
	return nil
}
