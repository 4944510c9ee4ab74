package board

// DefaultPool holds the stock animal identities. Boards larger than 20 cards
// reuse them cyclically.
var DefaultPool = []string{
	"cat", "dog", "elephant", "fox", "lion",
	"monkey", "panda", "rabbit", "tiger", "zebra",
}
