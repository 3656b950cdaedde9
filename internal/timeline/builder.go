package timeline

import (
	"errors"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/chess-coach-go/internal/obslog"
	"go.uber.org/zap"
)

// Move is one ply of the game timeline. Classification is empty until an
// analysis run completes; it is the only field written after construction.
type Move struct {
	Ply            int
	SAN            string
	UCI            string
	FENAfter       string
	Classification string
}

// Game is the ordered, ply-indexed timeline for one finished game. Ply 0 is
// the starting position and never appears in Moves.
type Game struct {
	StartFEN string
	Moves    []Move
}

func (g *Game) TotalPlies() int { return len(g.Moves) }

// MoveAt returns the move for a 1-based ply, or nil for ply 0 / out of range.
func (g *Game) MoveAt(ply int) *Move {
	if ply < 1 || ply > len(g.Moves) {
		return nil
	}
	return &g.Moves[ply-1]
}

var ErrEmptyMovetext = errors.New("empty movetext")

// Build replays raw movetext (PGN body, annotations tolerated) into a
// ply-indexed timeline. A move that cannot be replayed truncates the timeline
// at that point instead of failing the whole build; downstream consumers must
// tolerate a timeline shorter than the source movetext.
func Build(movetext string) (*Game, error) {
	tokens := tokenize(movetext)
	if len(tokens) == 0 {
		return nil, ErrEmptyMovetext
	}

	game := nchess.NewGame()
	out := &Game{StartFEN: game.FEN()}

	for i, tok := range tokens {
		pos := game.Position()
		if err := game.PushNotationMove(tok, nchess.AlgebraicNotation{}, nil); err != nil {
			obslog.L().Warn("timeline_truncated",
				zap.Int("ply", i+1),
				zap.String("token", tok),
				zap.Error(err),
			)
			break
		}
		moves := game.Moves()
		last := moves[len(moves)-1]
		out.Moves = append(out.Moves, Move{
			Ply:      i + 1,
			SAN:      nchess.AlgebraicNotation{}.Encode(pos, last),
			UCI:      last.String(),
			FENAfter: game.FEN(),
		})
	}
	return out, nil
}

// tokenize strips headers, comments, variations, NAGs, move numbers and game
// results, leaving bare SAN tokens in order.
func tokenize(movetext string) []string {
	var tokens []string
	depth := 0
	inComment := false

	for _, line := range strings.Split(movetext, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (strings.HasPrefix(line, "[") && depth == 0 && !inComment) {
			continue
		}
		for _, field := range strings.Fields(line) {
			field = strings.TrimSpace(field)
			for field != "" {
				switch {
				case inComment:
					if idx := strings.Index(field, "}"); idx >= 0 {
						inComment = false
						field = field[idx+1:]
					} else {
						field = ""
					}
				case strings.HasPrefix(field, "{"):
					inComment = true
					field = field[1:]
				case strings.HasPrefix(field, "("):
					depth++
					field = field[1:]
				case strings.HasPrefix(field, ")"):
					if depth > 0 {
						depth--
					}
					field = field[1:]
				case depth > 0:
					if idx := strings.IndexAny(field, "()"); idx >= 0 {
						field = field[idx:]
					} else {
						field = ""
					}
				default:
					tok, rest := splitToken(field)
					field = rest
					if tok = cleanToken(tok); tok != "" {
						tokens = append(tokens, tok)
					}
				}
			}
		}
	}
	return tokens
}

func splitToken(s string) (string, string) {
	if idx := strings.IndexAny(s, "({)"); idx >= 0 {
		return s[:idx], s[idx:]
	}
	return s, ""
}

func cleanToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if tok == "" || strings.HasPrefix(tok, "$") {
		return ""
	}
	switch tok {
	case "1-0", "0-1", "1/2-1/2", "*":
		return ""
	}
	// "12.Nf3" and "12..." prefixes
	if idx := strings.LastIndex(tok, "."); idx >= 0 {
		head := tok[:idx]
		if head == "" || isDigitsAndDots(head) {
			tok = tok[idx+1:]
		}
	}
	// annotation glyphs: e4!, Nf6??, Qh5?!
	tok = strings.TrimRight(tok, "!?")
	if tok == "" || isDigitsAndDots(tok) {
		return ""
	}
	return tok
}

func isDigitsAndDots(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return s != ""
}
