package game

import "lowbid/internal/model"

// Player is a participant's in-game state.
type Player struct {
	ID       string
	Username string
	Balance  int
	WonCards []int
	Left     bool
}

// Score is the sum of won card values. Lower is better.
func (p *Player) Score() int {
	total := 0
	for _, v := range p.WonCards {
		total += v
	}
	return total
}

func (p *Player) view() model.PlayerView {
	return model.PlayerView{
		Username: p.Username,
		Balance:  p.Balance,
		WonCards: copyInts(p.WonCards),
		Left:     p.Left,
	}
}

func (p *Player) standing() model.Standing {
	return model.Standing{
		ID:       p.ID,
		Username: p.Username,
		Score:    p.Score(),
		Balance:  p.Balance,
		WonCards: copyInts(p.WonCards),
		Left:     p.Left,
	}
}

func copyInts(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}
