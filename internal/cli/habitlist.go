package cli

import (
	"github.com/julianstephens/habitual/internal/models"
)

type ListCmd struct {
	Frequency string `short:"f" help:"Only show habits with this repetition interval."`
}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.Repo.Load(); err != nil {
		return err
	}

	if len(ctx.Repo.List()) == 0 {
		ctx.Println("There are no habits yet.")
		return nil
	}

	if c.Frequency == "" {
		today := ctx.Repo.Today()
		for _, h := range ctx.Repo.List() {
			ctx.Println(FormatHabit(h, today))
		}
		return nil
	}

	freq, err := models.ParseFrequency(c.Frequency)
	if err != nil {
		return err
	}
	habits := ctx.Repo.ListByFrequency(freq)
	if len(habits) == 0 {
		ctx.Printf("There are no %s habits.\n", freq)
		return nil
	}
	for _, h := range habits {
		ctx.Println(FormatHabitShort(h))
	}
	return nil
}
