package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/perankh/perankh/internal/archive"
	"github.com/perankh/perankh/internal/importer"
)

var importJSON bool

func init() {
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <save.zip> [save.zip ...]",
	Short: "Import one or more save archives into the database",
	Args:  cobra.MinimumNArgs(1),
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

		loader := archive.NewLoader(osfs.New("/"), cfg.Limits(), log)
		imp := importer.New(st, loader, log)

		var failed int
		for _, arg := range args {
			path, err := filepath.Abs(arg)
			if err != nil {
				return err
			}

			res, err := imp.Import(cmd.Context(), path)
			if importJSON {
				cmd.Println(oj.JSON(res, &oj.Options{Indent: 2, OmitNil: true}))
			} else if err != nil {
				cmd.PrintErrf("import %s failed: %v\n", arg, err)
			} else {
				verb := "updated"
				if res.IsNew {
					verb = "created"
				}
				cmd.Printf("%s: %s match %d (game %s), %d players, %d tiles, %d characters\n",
					arg, verb, res.MatchID, res.GameID,
					res.Counts["players"], res.Counts["tiles"], res.Counts["characters"])
			}
			if err != nil {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d imports failed", failed, len(args))
		}
		return nil
	},
}
