package commands

import (
	"errors"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	statusLimit  int
	statusOffset int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "gets the recorded status of a game from the snake api",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		s, err := getStatus(gameID, statusLimit, statusOffset)
		if err != nil {
			log.WithError(err).WithField("id", gameID).Error("unable to get status")
			return
		}
		spew.Dump(s)
	},
}

func init() {
	statusCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to get the status of")
	statusCmd.Flags().IntVar(&statusLimit, "limit", 1, "how many turns to include")
	statusCmd.Flags().IntVar(&statusOffset, "offset", -1, "first turn to include, negative counts from the end")
}
