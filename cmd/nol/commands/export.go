package commands

import (
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/store"
	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const exportPageSize = 100

var exportOutput string

// turnRecord is one CSV row. Move totals are empty for illegal moves.
type turnRecord struct {
	GameID            string `csv:"game_id"`
	Turn              int    `csv:"turn"`
	Move              string `csv:"move"`
	TurnsUntilStarved int    `csv:"turns_until_starved"`
	Hungry            bool   `csv:"hungry"`
	Fallback          bool   `csv:"fallback"`
	ElapsedMicros     int64  `csv:"elapsed_micros"`
	Left              string `csv:"left"`
	Up                string `csv:"up"`
	Right             string `csv:"right"`
	Down              string `csv:"down"`
}

func newTurnRecord(t *store.Turn) *turnRecord {
	r := &turnRecord{
		GameID:            t.GameID,
		Turn:              t.Turn,
		Move:              t.Move.String(),
		TurnsUntilStarved: t.TurnsUntilStarved,
		Hungry:            t.Hungry,
		Fallback:          t.Fallback,
		ElapsedMicros:     t.ElapsedMicros,
	}
	totals := map[board.Move]*string{
		board.Left:  &r.Left,
		board.Up:    &r.Up,
		board.Right: &r.Right,
		board.Down:  &r.Down,
	}
	for _, sc := range t.Scores {
		if dst, ok := totals[sc.Move]; ok && sc.Valid {
			*dst = strconv.FormatFloat(sc.Total, 'f', -1, 64)
		}
	}
	return r
}

func exportTurns(w io.Writer, turns []*store.Turn) error {
	records := make([]*turnRecord, 0, len(turns))
	for _, t := range turns {
		records = append(records, newTurnRecord(t))
	}
	return gocsv.Marshal(records, w)
}

func fetchTurns(id string) ([]*store.Turn, error) {
	var turns []*store.Turn
	for {
		s, err := getStatus(id, exportPageSize, len(turns))
		if err != nil {
			return nil, err
		}
		turns = append(turns, s.Turns...)
		if len(s.Turns) < exportPageSize {
			return turns, nil
		}
	}
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "exports the recorded turns of a game as csv",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		turns, err := fetchTurns(gameID)
		if err != nil {
			return err
		}

		out := io.Writer(os.Stdout)
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.WithError(err).Warn("failed to close export file")
				}
			}()
			out = f
		}

		log.WithFields(log.Fields{"id": gameID, "turns": len(turns)}).Info("exporting turns")
		return exportTurns(out, turns)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to export")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file to write, defaults to stdout")
}
