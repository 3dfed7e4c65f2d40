package game

const (
	MinCard = -10
	MaxCard = 10
)

// NewDeck returns every card value from MinCard to MaxCard in ascending order.
func NewDeck() []int {
	deck := make([]int, 0, MaxCard-MinCard+1)
	for v := MinCard; v <= MaxCard; v++ {
		deck = append(deck, v)
	}
	return deck
}
