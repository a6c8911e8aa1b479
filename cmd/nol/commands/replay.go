package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/brain"
	"github.com/battlesnakeio/nol/smell"
	"github.com/battlesnakeio/nol/store"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var replayDelay time.Duration

func init() {
	replayCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to replay")
	replayCmd.Flags().DurationVar(&replayDelay, "delay", 200*time.Millisecond, "time between turns")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replays a recorded game turn by turn",
	Long: `Replays a recorded game in the terminal. Space pauses, the arrow keys step
through turns and the overlay keys of the render command apply. Esc quits.`,
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		return replayGame()
	},
}

// turnDecision rebuilds what the snake saw on a recorded turn. Scores come
// from the record, the smells are recomputed from the board.
func turnDecision(t *store.Turn) (*brain.Decision, smell.DistanceMap, error) {
	g, err := board.Parse(t.Board)
	if err != nil {
		return nil, smell.DistanceMap{}, err
	}
	d := &brain.Decision{
		Move:              t.Move,
		Scores:            t.Scores,
		Fallback:          t.Fallback,
		Hungry:            t.Hungry,
		NearestFood:       -1,
		TurnsUntilStarved: t.TurnsUntilStarved,
		Grid:              g,
		Food:              smell.Transform(g, board.FoodCells),
		Enemy:             smell.Transform(g, board.EnemyCells),
		Self:              smell.Transform(g, board.SelfCells),
		Space:             smell.Partition(g, g.Head()),
	}
	return d, smell.Transform(g, board.EnemyHeads), nil
}

func renderTurn(t *store.Turn, o overlay) error {
	d, heads, err := turnDecision(t)
	if err != nil {
		return err
	}
	return render(d, heads, o, fmt.Sprintf("game %s turn %d", t.GameID, t.Turn))
}

func moveFrameForwards(frameIndex int, frames *frameHolder) (int, *store.Turn, bool) {
	frameIndex++
	if frameIndex >= frames.count() {
		return frameIndex, nil, true
	}
	return frameIndex, frames.get(frameIndex), false
}

func moveFrameBackwards(frameIndex int, frames *frameHolder) (int, *store.Turn) {
	frameIndex--
	if frameIndex <= 0 {
		frameIndex = 0
	}
	return frameIndex, frames.get(frameIndex)
}

// streamTurns reads turns from the socket into frames until the server
// closes it.
func streamTurns(c *websocket.Conn, frames *frameHolder) {
	defer func() {
		if err := c.Close(); err != nil {
			log.WithError(err).Debug("failure to close websocket connection")
		}
	}()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("read failed")
			}
			return
		}

		switch mt {
		case websocket.TextMessage:
			t := &store.Turn{}
			if err := json.Unmarshal(message, t); err != nil {
				log.WithError(err).Warn("unmarshal turn failed")
				return
			}
			frames.append(t)
		default:
			log.WithField("type", mt).Debug("unhandled message type")
		}
	}
}

func loadGame() (*frameHolder, error) {
	if _, err := getStatus(gameID, 0, 0); err != nil {
		return nil, err
	}

	u, err := socketURL(fmt.Sprintf("/socket/%s", gameID))
	if err != nil {
		return nil, err
	}
	log.WithField("url", u).Debug("connecting")

	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return nil, err
	}

	frames := newFrameHolder()
	go streamTurns(c, frames)
	return frames, nil
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}

func replayGame() error {
	frames, err := loadGame()
	if err != nil {
		return err
	}

	var currentFrame *store.Turn
	select {
	case currentFrame = <-frames.initialFrame():
	case <-time.After(5 * time.Second):
		return errors.New("game has no turns")
	}

	if err = termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	eventQueue := setupEventQueue()
	cycle := time.NewTicker(replayDelay)
	defer func() { cycle.Stop() }()

	frameIndex := 0
	paused := false
	done := false
	current := overlayNone

	for !done {
		select {
		case ev := <-eventQueue:
			if ev.Type != termbox.EventKey {
				continue
			}
			if o, ok := overlayKeys[ev.Ch]; ok {
				current = o
				if err = renderTurn(currentFrame, current); err != nil {
					return err
				}
				continue
			}
			switch ev.Key {
			case termbox.KeyEsc:
				return nil
			case termbox.KeySpace:
				paused = !paused
			case termbox.KeyArrowLeft:
				paused = true
				frameIndex, currentFrame = moveFrameBackwards(frameIndex, frames)
				if err = renderTurn(currentFrame, current); err != nil {
					return err
				}
			case termbox.KeyArrowRight:
				paused = true
				if next := frames.get(frameIndex + 1); next != nil {
					frameIndex, currentFrame = frameIndex+1, next
				}
				if err = renderTurn(currentFrame, current); err != nil {
					return err
				}
			}
		case <-cycle.C:
			if paused {
				continue
			}
			if err = renderTurn(currentFrame, current); err != nil {
				return err
			}
			var next *store.Turn
			frameIndex, next, done = moveFrameForwards(frameIndex, frames)
			if next != nil {
				currentFrame = next
			}
		}
	}

	tbprint(0, 0, defaultColor, defaultColor, "Press any key to exit...")
	if err = termbox.Flush(); err != nil {
		return err
	}
	<-eventQueue
	return nil
}
