package commands

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/brain"
	"github.com/battlesnakeio/nol/config"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	ttl         int
	weightsFile string
	dump        bool
)

var moveCmd = &cobra.Command{
	Use:   "move <board.txt>",
	Short: "decides a move for a text board",
	Long: `Decides a move for a board in the text format: one line per row, ' ' for
empty, '*' for food, '#' for walls, 'A'/'a' for our head and body and the
other letters for opponents. Use - to read the board from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		g, err := readBoard(args[0])
		if err != nil {
			return err
		}
		e, err := newEngine()
		if err != nil {
			return err
		}

		d := e.EvaluateGrid(g, ttl)
		if dump {
			fmt.Print(board.Frame(g))
			spew.Dump(dumpOf(d))
		}
		fmt.Println(d.Move)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{moveCmd, renderCmd} {
		c.Flags().IntVarP(&ttl, "ttl", "t", 100, "turns until starvation")
		c.Flags().StringVarP(&weightsFile, "weights", "w", "", "yaml file with scoring weights")
	}
	moveCmd.Flags().BoolVar(&dump, "dump", false, "dump the decision and smell maps")
}

func newEngine() (*brain.Engine, error) {
	w, err := config.LoadWeights(weightsFile)
	if err != nil {
		return nil, err
	}
	return brain.New(w, brain.WithObserver(brain.LogObserver{})), nil
}

func readBoard(path string) (*board.Grid, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = ioutil.ReadAll(os.Stdin)
	} else {
		data, err = ioutil.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to read board")
	}

	text := string(data)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	g, err := board.Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}
	log.WithFields(log.Fields{
		"width":  g.Width(),
		"height": g.Height(),
	}).Debug("read board")
	return g, nil
}

// decisionDump is the printable part of a decision.
type decisionDump struct {
	Move              string
	Fallback          bool
	Hungry            bool
	NearestFood       int
	TurnsUntilStarved int
	Scores            []brain.Score
	Food              []int
	Enemy             []int
	Self              []int
	Space             map[board.Move]int
}

func dumpOf(d *brain.Decision) decisionDump {
	return decisionDump{
		Move:              d.Move.String(),
		Fallback:          d.Fallback,
		Hungry:            d.Hungry,
		NearestFood:       d.NearestFood,
		TurnsUntilStarved: d.TurnsUntilStarved,
		Scores:            d.Scores,
		Food:              d.Food.Raw(),
		Enemy:             d.Enemy.Raw(),
		Self:              d.Self.Raw(),
		Space:             d.Space.Counts(),
	}
}
