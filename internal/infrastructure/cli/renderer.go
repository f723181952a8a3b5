package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/sahilm/fuzzy"

	"github.com/doeshing/be-go/internal/domain"
)

// RenderError prints err for the user. Unknown items list what is
// available and the closest match; a propagated shell exit status prints
// nothing.
func RenderError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var status domain.ExitStatus
	if errors.As(err, &status) {
		return
	}

	fmt.Fprintln(w, "error:", err)

	var unknown *domain.UnknownItemError
	if !errors.As(err, &unknown) || len(unknown.Available) == 0 {
		return
	}
	if matches := fuzzy.Find(unknown.Item, unknown.Available); len(matches) > 0 {
		fmt.Fprintf(w, "\nDid you mean %q?\n", matches[0].Str)
	}
	fmt.Fprintln(w, "\nAvailable:")
	for _, name := range unknown.Available {
		fmt.Fprintf(w, "- %s\n", name)
	}
}
