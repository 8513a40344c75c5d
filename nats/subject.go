package nats

import (
	"fmt"
)

// Players publish intents on one shared subject and each receive
// engine output on their own subjects.

const PlayerRequestSubject = "poker.player.request"

func GetPlayerStateSubject(playerID uint64) string {
	return fmt.Sprintf("poker.player.%d.state", playerID)
}

func GetPlayerErrorSubject(playerID uint64) string {
	return fmt.Sprintf("poker.player.%d.error", playerID)
}

func GetHandResultSubject(playerID uint64) string {
	return fmt.Sprintf("poker.player.%d.handresult", playerID)
}
