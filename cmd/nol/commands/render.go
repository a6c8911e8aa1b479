package commands

import (
	"fmt"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/brain"
	"github.com/battlesnakeio/nol/smell"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
	"github.com/spf13/cobra"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	selfColor    = termbox.ColorGreen
	enemyColor   = termbox.ColorRed
	foodColor    = termbox.ColorYellow
	wallColor    = termbox.ColorWhite
)

// overlay selects which smell is drawn over the empty cells of the board.
type overlay int

const (
	overlayNone overlay = iota
	overlayFood
	overlayEnemy
	overlayEnemyHeads
	overlaySelf
	overlaySpace
)

var overlayNames = [...]string{"none", "food", "enemy", "enemy heads", "self", "space"}

var overlayKeys = map[rune]overlay{
	'n': overlayNone,
	'f': overlayFood,
	'e': overlayEnemy,
	'h': overlayEnemyHeads,
	's': overlaySelf,
	'p': overlaySpace,
}

var renderCmd = &cobra.Command{
	Use:   "render <board.txt>",
	Short: "shows a text board, its smells and the scores of each move",
	Long: `Shows a text board in the terminal. Keys switch the overlay drawn on the
board: n none, f food, e enemy, h enemy heads, s self, p space partition.
Esc quits.`,
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
		heads := smell.Transform(g, board.EnemyHeads)

		if err := termbox.Init(); err != nil {
			return err
		}
		defer termbox.Close()

		current := overlayNone
		for {
			if err := render(d, heads, current, ""); err != nil {
				return err
			}
			ev := termbox.PollEvent()
			if ev.Type != termbox.EventKey {
				continue
			}
			if ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
				return nil
			}
			if o, ok := overlayKeys[ev.Ch]; ok {
				current = o
			}
		}
	},
}

// distanceRune draws a distance as a single base 36 digit, '+' beyond that
// and '.' for unreachable cells.
func distanceRune(d smell.Distance) rune {
	n, ok := d.Steps()
	switch {
	case !ok:
		return '.'
	case n < 10:
		return rune('0' + n)
	case n < 36:
		return rune('a' + n - 10)
	default:
		return '+'
	}
}

var moveRunes = [...]rune{'<', '^', '>', 'v'}

func overlayRune(d *brain.Decision, heads smell.DistanceMap, o overlay, i int) (rune, bool) {
	switch o {
	case overlayFood:
		return distanceRune(d.Food.At(i)), true
	case overlayEnemy:
		return distanceRune(d.Enemy.At(i)), true
	case overlayEnemyHeads:
		return distanceRune(heads.At(i)), true
	case overlaySelf:
		return distanceRune(d.Self.At(i)), true
	case overlaySpace:
		if m, ok := d.Space.At(i); ok {
			return moveRunes[m], true
		}
		return '.', true
	}
	return 0, false
}

func cellStyle(c board.Cell) (rune, termbox.Attribute) {
	switch c.Class {
	case board.Food:
		return '●', foodColor
	case board.Wall:
		return '█', wallColor
	case board.SelfHead, board.SelfBody:
		return c.Rune(), selfColor
	case board.EnemyHead, board.EnemyBody:
		return c.Rune(), enemyColor
	}
	return ' ', defaultColor
}

func render(d *brain.Decision, heads smell.DistanceMap, o overlay, title string) error {
	if err := termbox.Clear(defaultColor, defaultColor); err != nil {
		return err
	}

	g := d.Grid
	var (
		left = 2
		top  = 2
	)

	if title == "" {
		title = "nöl"
	}
	tbprint(left, top-2, defaultColor, defaultColor, title)
	renderBoard(g.Width(), g.Height(), top, left)

	for i := 0; i < g.Len(); i++ {
		p := g.Coords(i)
		ch, fg := cellStyle(g.Cell(i))
		if c := g.Cell(i); c.Class == board.Empty || c.Class == board.Food {
			if r, ok := overlayRune(d, heads, o, i); ok {
				ch, fg = r, termbox.ColorCyan
			}
		}
		termbox.SetCell(left+p.X, top+p.Y, ch, fg, bgColor)
	}

	x := left + g.Width() + 3
	y := top
	tbprint(x, y, defaultColor, defaultColor, fmt.Sprintf("overlay: %s", overlayNames[o]))
	y += 2
	for _, sc := range d.Scores {
		fg := defaultColor
		if sc.Move == d.Move {
			fg = selfColor
		}
		tbprint(x, y, fg, defaultColor, scoreLine(sc))
		y++
	}
	y++
	tbprint(x, y, defaultColor, defaultColor, fmt.Sprintf("move: %s", d.Move))
	y++
	tbprint(x, y, defaultColor, defaultColor, fmt.Sprintf("ttl: %d hungry: %t fallback: %t", d.TurnsUntilStarved, d.Hungry, d.Fallback))

	return termbox.Flush()
}

func scoreLine(sc brain.Score) string {
	if !sc.Valid {
		return fmt.Sprintf("%-5s invalid", sc.Move)
	}
	danger := ""
	if sc.Danger {
		danger = " danger"
	}
	return fmt.Sprintf("%-5s %8.3f  enemy %.2f food %.2f space %.2f%s",
		sc.Move, sc.Total, sc.Enemy, sc.Food, sc.Space, danger)
}

func renderBoard(width, height, top, left int) {
	bottom := top + height
	for i := top; i < bottom; i++ {
		termbox.SetCell(left-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(left+width, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(left-1, top-1, '┌', defaultColor, bgColor)
	termbox.SetCell(left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(left+width, top-1, '┐', defaultColor, bgColor)
	termbox.SetCell(left+width, bottom, '┘', defaultColor, bgColor)

	fill(left, top-1, width, 1, termbox.Cell{Ch: '─'})
	fill(left, bottom, width, 1, termbox.Cell{Ch: '─'})
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}
