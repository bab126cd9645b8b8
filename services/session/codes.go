package session

import (
	game_constants "jdr/constants/game"

	"crypto/rand"
	"fmt"
)

// GenerateGameCode returns a random session code of the given length.
// The alphabet has exactly 32 characters, so masking each random byte
// with 0x1F indexes it uniformly with no modulo bias.
func GenerateGameCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error reading random bytes: %v", err)
	}
	for i, b := range buf {
		buf[i] = game_constants.GameCodeAlphabet[b&0x1F]
	}
	return string(buf), nil
}
