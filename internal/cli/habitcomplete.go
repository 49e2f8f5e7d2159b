package cli

import (
	"errors"

	"github.com/julianstephens/habitual/internal/repository"
)

type CompleteCmd struct {
	ID int `arg:"" help:"ID of the habit to mark as completed."`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	if err := ctx.Repo.Load(); err != nil {
		return err
	}

	before, _ := ctx.Repo.Find(c.ID)
	h, err := ctx.Repo.Complete(c.ID)
	if errors.Is(err, repository.ErrNotFound) {
		ctx.Printf("No habit found with ID %d\n", c.ID)
		return nil
	}
	if err != nil {
		return err
	}

	if before.Completed {
		ctx.Printf("Habit '%s' was already completed on %s; completion date updated to %s\n",
			h.Name, before.CompletedDate, h.CompletedDate)
		return nil
	}
	ctx.Printf("Habit '%s' has been marked as completed\n", h.Name)
	return nil
}
