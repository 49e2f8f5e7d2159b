package cli

type UrgentCmd struct{}

func (c *UrgentCmd) Run(ctx *Context) error {
	if err := ctx.Repo.Load(); err != nil {
		return err
	}

	urgent := ctx.Repo.Urgent()
	if len(urgent) == 0 {
		ctx.Println("There are no habits for today whose deadline also expires today")
		return nil
	}
	for _, h := range urgent {
		ctx.Printf("Habit '%s' is still to be completed today and has not yet been completed!\n", h.Name)
	}
	return nil
}
