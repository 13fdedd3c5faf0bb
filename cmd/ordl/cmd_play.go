package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"svw.info/ordl/internal/domain"
	"svw.info/ordl/internal/metrics"
	"svw.info/ordl/internal/share"
	"svw.info/ordl/internal/usecase"
)

// The CLI keeps a single local player, like a browser's local storage.
const localPlayer = ""

func newTodayCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's puzzle and the time until the next one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			uc, err := a.service(cmd.Context(), metrics.Nop{})
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := uc.Puzzle(cmd.Context(), usecase.TodayID)
			if err != nil {
				return err
			}
			p := newPrinter(cmd)
			p.println(p.style(titleStyle, fmt.Sprintf("Ordl #%d", v.PuzzleNumber)))
			for i, e := range v.Events {
				p.printf("%d. %s %s %s\n", i+1, e.Emoji, e.Text, p.style(mutedStyle, "("+e.ID+")"))
			}
			cd := uc.Countdown()
			p.println(p.style(mutedStyle, fmt.Sprintf("Next puzzle in %dh %02dm %02ds", cd.Hours, cd.Minutes, cd.Seconds)))
			return nil
		},
	}
}

func newPlayCmd(get func() *app) *cobra.Command {
	var (
		order   string
		arrange bool
	)
	cmd := &cobra.Command{
		Use:   "play [id]",
		Short: "Play a puzzle locally; without --order shows the current game",
		Example: `  ordl play
  ordl play today --order challenger,chernobyl,maradona,berlin,mandela,nirvana
  ordl play 3 --order a,b,c,d,e,f --arrange`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := usecase.TodayID
			if len(args) == 1 {
				id = args[0]
			}
			a := get()
			uc, err := a.service(cmd.Context(), metrics.Nop{})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			p := newPrinter(cmd)
			if order == "" {
				v, err := uc.Start(ctx, localPlayer, id)
				if err != nil {
					return err
				}
				printGame(p, v)
				return nil
			}

			ids := splitOrder(order)
			if arrange {
				v, err := uc.Reorder(ctx, localPlayer, id, ids)
				if err != nil {
					return err
				}
				printGame(p, v)
				return nil
			}
			res, err := uc.Submit(ctx, localPlayer, id, ids)
			if err != nil {
				return err
			}
			printGame(p, res.GameView)
			if res.State.Completed {
				text, err := uc.Share(ctx, localPlayer, id)
				if err != nil {
					return err
				}
				p.println()
				p.println(p.box(text))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "order", "", "comma-separated event ids, oldest first")
	cmd.Flags().BoolVar(&arrange, "arrange", false, "save the order without submitting it")
	return cmd
}

func splitOrder(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printGame(p *printer, v usecase.GameView) {
	label := fmt.Sprintf("Ordl #%d", v.PuzzleNumber)
	if v.Mode == domain.Archive {
		label = fmt.Sprintf("Ordl Practice #%d", v.PuzzleNumber)
	}
	p.printf("%s  %s\n", p.style(titleStyle, label), p.style(mutedStyle,
		fmt.Sprintf("%s, attempt %d/%d", v.Status, len(v.State.Attempts), domain.MaxGuesses)))

	for i, e := range v.Events {
		mark := "  "
		if v.State.IsLocked(i) {
			mark = p.style(goodStyle, "✓ ")
		}
		p.printf("%s%d. %s %s %s\n", mark, i+1, e.Emoji, e.Text, p.style(mutedStyle, "("+e.ID+")"))
	}
	if rows := share.GridRows(v.State.Attempts); len(rows) > 0 {
		p.println()
		p.println(strings.Join(rows, "\n"))
	}

	switch v.Status {
	case domain.Won:
		p.println(p.style(goodStyle, "Solved!"))
	case domain.Lost:
		p.println(p.style(badStyle, "Out of guesses."))
	}
	if len(v.Solution) > 0 {
		p.println()
		printSolution(p, v.Solution)
	}
}

func printSolution(p *printer, events []domain.Event) {
	for i, e := range events {
		p.printf("%d. %s %s %s\n", i+1, e.Emoji, e.Text, p.style(mutedStyle, e.FullDate))
	}
}

func newStatsCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show local statistics for daily games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			uc, err := a.service(cmd.Context(), metrics.Nop{})
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := uc.Stats(cmd.Context(), localPlayer)
			if err != nil {
				return err
			}
			winPct := 0
			if st.GamesPlayed > 0 {
				winPct = st.GamesWon * 100 / st.GamesPlayed
			}
			p := newPrinter(cmd)
			p.println(p.style(titleStyle, "Statistics"))
			p.printf("Played %d  Win %% %d  Current streak %d  Max streak %d\n",
				st.GamesPlayed, winPct, st.CurrentStreak, st.MaxStreak)
			p.println(p.style(mutedStyle, "Guess distribution"))
			most := 0
			for _, n := range st.GuessDistribution {
				most = max(most, n)
			}
			for i, n := range st.GuessDistribution {
				p.printf("%d %s %d\n", i+1, p.style(goodStyle, bar(n, most, 20)), n)
			}
			return nil
		},
	}
}

func newSolutionCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "solution <id>",
		Short: "Print a puzzle in chronological order with dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			uc, err := a.service(cmd.Context(), metrics.Nop{})
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := uc.Solution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := newPrinter(cmd)
			p.println(p.style(titleStyle, fmt.Sprintf("Ordl #%d solution", v.PuzzleNumber)))
			printSolution(p, v.Events)
			return nil
		},
	}
}
