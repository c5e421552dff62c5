package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tangram/internal/board"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// errBadMove reports a malformed line in a move script.
var errBadMove = errors.New("bad move")

func newPlayCmd() *cobra.Command {
	var movesFile string
	cmd := &cobra.Command{
		Use:   "play <shape>",
		Short: "Play a headless round from a move script",
		Long: `Play starts a round for the shape and applies moves read from --moves,
or from standard input when --moves is not set. One move per line:

  place <slot> <x> <y> <rotation> [flipped]   drop a piece, docking if it matches
  move <slot> <x> <y> <rotation> [flipped]    move a free piece without docking
  release <slot>                              pick a docked piece up again
  hint <slot>                                 list the poses the slot can dock at
  board                                       print every piece

Blank lines and lines starting with # are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if movesFile != "" {
				f, err := os.Open(movesFile)
				if err != nil {
					return fmt.Errorf("open moves: %w", err)
				}
				defer f.Close()
				in = f
			}

			store, cfg, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			out := cmd.OutOrStdout()
			b := board.New(store,
				board.WithConfig(cfg),
				board.WithLogger(newLogger(cmd)),
				board.WithCompletion(func(s board.RoundSummary) {
					fmt.Fprintf(out, "round complete: %s in %d attempts\n", s.ShapeID, s.Attempts)
				}),
			)
			if err := b.StartRound(cmd.Context(), args[0]); err != nil {
				return err
			}
			return runScript(cmd.Context(), b, in, out)
		},
	}
	cmd.Flags().StringVar(&movesFile, "moves", "", "file of moves (default: standard input)")
	return cmd
}

// runScript applies each line of r to b and reports the outcome on w. It
// stops at the first malformed line.
func runScript(ctx context.Context, b *board.Board, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := applyMove(b, strings.Fields(text), w); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

func applyMove(b *board.Board, fields []string, w io.Writer) error {
	switch verb := fields[0]; verb {
	case "place", "move":
		slot, pose, err := parsePlacement(fields[1:])
		if err != nil {
			return err
		}
		if verb == "move" {
			if !b.MovePiece(slot, pose) {
				fmt.Fprintf(w, "%s: not moved\n", slot)
				return nil
			}
			fmt.Fprintf(w, "%s: moved to %s\n", slot, formatPose(pose))
			return nil
		}
		if b.TrySetPiecePose(slot, pose) {
			snapped, _ := b.PiecePose(slot)
			fmt.Fprintf(w, "%s: docked at %s (%d solutions reachable)\n", slot, formatPose(snapped), len(b.Reachable()))
			return nil
		}
		fmt.Fprintf(w, "%s: no match\n", slot)
	case "release":
		slot, err := parseSlotArg(fields[1:])
		if err != nil {
			return err
		}
		if b.ReleasePiece(slot) {
			fmt.Fprintf(w, "%s: released (%d solutions reachable)\n", slot, len(b.Reachable()))
			return nil
		}
		fmt.Fprintf(w, "%s: not docked\n", slot)
	case "hint":
		slot, err := parseSlotArg(fields[1:])
		if err != nil {
			return err
		}
		for _, p := range b.Admissible(slot) {
			fmt.Fprintf(w, "%s: %s\n", slot, formatPose(p))
		}
	case "board":
		snap := b.Snapshot()
		for _, p := range snap.Pieces {
			state := "free"
			if p.Docked {
				state = "docked"
			}
			fmt.Fprintf(w, "%-17s %-6s %s\n", p.Slot, state, formatPose(p.Pose))
		}
	default:
		return fmt.Errorf("%w: unknown verb %q", errBadMove, verb)
	}
	return nil
}

func parseSlotArg(args []string) (types.Slot, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: want exactly one slot", errBadMove)
	}
	return types.ParseSlot(args[0])
}

// parsePlacement parses "<slot> <x> <y> <rotation> [flipped]".
func parsePlacement(args []string) (types.Slot, types.Pose, error) {
	if len(args) != 4 && len(args) != 5 {
		return 0, types.Pose{}, fmt.Errorf("%w: want <slot> <x> <y> <rotation> [flipped]", errBadMove)
	}
	slot, err := types.ParseSlot(args[0])
	if err != nil {
		return 0, types.Pose{}, err
	}
	var nums [3]float64
	for i, a := range args[1:4] {
		nums[i], err = strconv.ParseFloat(a, 64)
		if err != nil {
			return 0, types.Pose{}, fmt.Errorf("%w: %q is not a number", errBadMove, a)
		}
		if math.IsNaN(nums[i]) || math.IsInf(nums[i], 0) {
			return 0, types.Pose{}, fmt.Errorf("%w: %q is not a finite number", errBadMove, a)
		}
	}
	pose := types.Pose{Position: types.Point{X: nums[0], Y: nums[1]}, Rotation: nums[2]}
	if len(args) == 5 {
		if args[4] != "flipped" {
			return 0, types.Pose{}, fmt.Errorf("%w: expected \"flipped\", got %q", errBadMove, args[4])
		}
		pose.Flipped = true
	}
	return slot, pose, nil
}
