package cli

import (
	"errors"

	"github.com/julianstephens/habitual/internal/repository"
)

type DeleteCmd struct {
	ID int `arg:"" help:"ID of the habit to delete."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	if err := ctx.Repo.Load(); err != nil {
		return err
	}

	h, err := ctx.Repo.Delete(c.ID)
	if errors.Is(err, repository.ErrNotFound) {
		ctx.Printf("No habit found with ID %d\n", c.ID)
		return nil
	}
	if err != nil {
		return err
	}

	ctx.Printf("Habit '%s' has been deleted\n", h.Name)
	return nil
}
