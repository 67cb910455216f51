package relay

import (
	"crypto/rand"
	"math/big"
)

var adjectives = []string{
	"amazing", "boundless", "cuddly", "dangerous", "defiant",
	"determined", "diligent", "dizzy", "electric", "enchanting",
	"excellent", "fearless", "fierce", "flagrant", "fresh",
	"glorious", "happy", "impartial", "industrious", "intelligent",
	"neighborly", "quarrelsome", "rustic", "swanky", "thoughtful",
	"unruly", "unusual", "wasteful",
}

var nouns = []string{
	"alpaca", "anteater", "basilisk", "beaver", "buffalo",
	"canary", "chameleon", "cheetah", "chinchilla", "coyote",
	"ferret", "finch", "gazelle", "giraffe", "hamster",
	"ibex", "iguana", "jackal", "jaguar", "jellyfish",
	"jerboa", "lemur", "lynx", "marmoset", "marten",
	"mink", "mole", "mongoose", "oryx", "owl",
	"panther", "platypus", "porcupine", "salamander", "sloth",
	"snail", "starfish", "vicuna", "warthog", "wombat",
}

// GuestName builds a throwaway display name for a client that connected
// without identifying itself.
func GuestName() string {
	return pick(adjectives) + " " + pick(nouns)
}

func pick(words []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// a fixed name beats taking the server down.
		return words[0]
	}
	return words[n.Int64()]
}
