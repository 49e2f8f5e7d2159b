package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/validation"
)

type ValidateCmd struct{}

// Run reports integrity problems in the stored document. Conflicts are
// reported, not treated as a command failure.
func (cmd *ValidateCmd) Run(ctx *Context) error {
	doc, err := ctx.Store.Load()
	if err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	ctx.Printf("Validating %d habit(s) in %s...\n", len(doc.Habits), ctx.Store.GetConfigPath())
	result := validation.New().ValidateDocument(doc)

	ctx.Println()
	ctx.Println(result.FormatReport())
	return nil
}
