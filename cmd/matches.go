package cmd

import (
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

var matchesJSON bool

func init() {
	matchesCmd.Flags().BoolVar(&matchesJSON, "json", false, "Print matches as JSON")
	rootCmd.AddCommand(matchesCmd)
}

type matchSummary struct {
	MatchID       int64   `db:"match_id" json:"match_id"`
	GameID        string  `db:"game_id" json:"game_id"`
	GameName      *string `db:"game_name" json:"game_name,omitempty"`
	FileName      string  `db:"file_name" json:"file_name"`
	TotalTurns    int     `db:"total_turns" json:"total_turns"`
	Players       int     `db:"players" json:"players"`
	ProcessedDate string  `db:"processed_date" json:"processed_date"`
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List imported matches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		st, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		var matches []matchSummary
		err = st.DB().SelectContext(cmd.Context(), &matches, `
			SELECT m.match_id, m.game_id, m.game_name, m.file_name, m.total_turns,
			       (SELECT COUNT(*) FROM players p WHERE p.match_id = m.match_id) AS players,
			       m.processed_date
			FROM matches m
			ORDER BY m.match_id`)
		if err != nil {
			return err
		}

		if matchesJSON {
			cmd.Println(oj.JSON(matches, &oj.Options{Indent: 2, OmitNil: true}))
			return nil
		}
		if len(matches) == 0 {
			cmd.Println("no matches imported")
			return nil
		}
		for _, m := range matches {
			name := m.GameID
			if m.GameName != nil && *m.GameName != "" {
				name = *m.GameName
			}
			cmd.Printf("%4d  %-30s  turn %-4d  %d players  %s  (%s)\n",
				m.MatchID, name, m.TotalTurns, m.Players, m.ProcessedDate, m.FileName)
		}
		return nil
	},
}
