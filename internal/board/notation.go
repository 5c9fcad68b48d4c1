package board

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StartBoard is the board text for the starting position.
// Black holds row 0 plus outposts b8, h8, c7, g7, d6, f6; White mirrors it.
const StartBoard = "bbbbbbbbb/1b5b1/2b3b2/3b1b3/9/3w1w3/2w3w2/1w5w1/wwwwwwwww w"

// ErrInvalidBoard is returned when board text cannot be parsed.
var ErrInvalidBoard = errors.New("invalid board")

// ParseBoard parses board text: nine '/'-separated rows starting at Black's
// home row, digits for runs of empty cells, 'b'/'w' for pieces, then the
// side to move ('b' or 'w').
func ParseBoard(s string) (*Position, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return nil, errors.Wrapf(ErrInvalidBoard, "need 2 fields, got %d", len(parts))
	}

	var stm Color
	switch parts[1] {
	case "b":
		stm = Black
	case "w":
		stm = White
	default:
		return nil, errors.Wrapf(ErrInvalidBoard, "side to move %q", parts[1])
	}

	pos := NewEmptyPosition(stm)
	if err := parsePlacement(pos, parts[0]); err != nil {
		return nil, err
	}
	return pos, nil
}

func parsePlacement(pos *Position, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != Size {
		return errors.Wrapf(ErrInvalidBoard, "need %d rows, got %d", Size, len(rows))
	}

	for row, rowStr := range rows {
		col := 0
		for i := 0; i < len(rowStr); i++ {
			ch := rowStr[i]
			if col >= Size {
				return errors.Wrapf(ErrInvalidBoard, "too many cells in row %d", row)
			}

			switch {
			case ch >= '1' && ch <= '9':
				col += int(ch - '0')
			case ch == 'b':
				pos.Put(Black, NewSquare(row, col))
				col++
			case ch == 'w':
				pos.Put(White, NewSquare(row, col))
				col++
			default:
				return errors.Wrapf(ErrInvalidBoard, "bad character %q in row %d", ch, row)
			}
		}

		if col != Size {
			return errors.Wrapf(ErrInvalidBoard, "row %d has %d cells", row, col)
		}
	}

	for c := Black; c <= White; c++ {
		if pos.Count[c] > MaxPieces {
			return errors.Wrapf(ErrInvalidBoard, "%s has %d pieces, at most %d", c, pos.Count[c], MaxPieces)
		}
	}

	return nil
}

// Text returns the board text for the position.
func (p *Position) Text() string {
	var sb strings.Builder

	for row := 0; row < Size; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < Size; col++ {
			cell := p.Cells[NewSquare(row, col)]
			if cell == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(cell.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}
	return sb.String()
}
