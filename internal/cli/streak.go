package cli

type StreakCmd struct {
	All bool `short:"a" help:"Show the best streak of every habit name."`
}

func (c *StreakCmd) Run(ctx *Context) error {
	if err := ctx.Repo.Load(); err != nil {
		return err
	}

	if !c.All {
		ctx.Println(ctx.Repo.LongestStreak().String())
		return nil
	}

	streaks := ctx.Repo.Streaks()
	if len(streaks) == 0 {
		ctx.Println("No habit has been completed yet.")
		return nil
	}
	for _, s := range streaks {
		ctx.Printf("%s: best run %d day(s), %d completion(s)\n", s.Name, s.Length, s.Completions)
	}
	return nil
}
