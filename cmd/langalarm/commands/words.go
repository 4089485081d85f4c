package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
)

func importCmd() *cobra.Command {
	var (
		deckID     int64
		newDeck    string
		duplicates string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import words from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := deckio.DetectFormat(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, cleanup, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := resolveDeck(cmd.Context(), a.Decks, deckID, newDeck)
			if err != nil {
				return err
			}

			preview, err := a.Decks.PreviewImport(cmd.Context(), id, f, format)
			if err != nil {
				return err
			}
			preview.ResolveAll(entities.ParseDuplicateAction(duplicates))

			res, err := a.Decks.FinalizeImport(cmd.Context(), preview)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deck %d: %d inserted, %d overwritten, %d skipped\n",
				id, res.Inserted, res.Overwritten, res.Skipped)
			return nil
		},
	}

	cmd.Flags().Int64Var(&deckID, "deck", 0, "target deck id (default the active deck)")
	cmd.Flags().StringVar(&newDeck, "new-deck", "", "create a deck with this name and import into it")
	cmd.Flags().StringVar(&duplicates, "duplicates", string(entities.DuplicateSkip), "skip, overwrite or keep_both")
	cmd.MarkFlagsMutuallyExclusive("deck", "new-deck")
	return cmd
}

func exportCmd() *cobra.Command {
	var deckID int64

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a deck to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := deckio.DetectFormat(args[0])
			if err != nil {
				return err
			}

			a, cleanup, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := resolveDeck(cmd.Context(), a.Decks, deckID, "")
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(args[0]), 0o755); err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}

			n, err := a.Decks.Export(cmd.Context(), id, f, format)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d words to %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().Int64Var(&deckID, "deck", 0, "deck id (default the active deck)")
	return cmd
}

// resolveDeck picks the deck a command works on: an explicit id, a newly
// created deck, or the active deck.
func resolveDeck(ctx context.Context, decks *service.DeckService, id int64, newName string) (int64, error) {
	switch {
	case id != 0:
		deck, err := decks.GetDeck(ctx, id)
		if err != nil {
			return 0, err
		}
		return deck.ID, nil
	case newName != "":
		deck, err := decks.CreateDeck(ctx, newName)
		if err != nil {
			return 0, err
		}
		return deck.ID, nil
	default:
		deck, err := decks.ActiveDeck(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: pass --deck or create a deck first", err)
		}
		return deck.ID, nil
	}
}
