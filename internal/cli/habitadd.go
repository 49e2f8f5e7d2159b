package cli

import (
	"github.com/julianstephens/habitual/internal/models"
)

type AddCmd struct {
	Name      string `arg:"" help:"Name of the habit."`
	Days      int    `short:"d" default:"0" help:"Days until the deadline (0 means it is due today)."`
	Frequency string `short:"f" default:"daily" help:"Repetition interval: daily, weekly or monthly."`
}

func (c *AddCmd) Run(ctx *Context) error {
	if err := ctx.Repo.Load(); err != nil {
		return err
	}

	freq, err := models.ParseFrequency(c.Frequency)
	if err != nil {
		return err
	}

	h, err := ctx.Repo.Add(c.Name, c.Days, freq)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit '%s' (ID %d), due %s\n", h.Name, h.ID, h.Deadline)
	return nil
}
