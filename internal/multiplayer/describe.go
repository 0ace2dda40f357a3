package multiplayer

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/pacsnake/internal/game"
)

// Describe turns a failed command into the notice shown to the player.
func Describe(cmd Command, err error) string {
	switch c := cmd.(type) {
	case CreateLobbyCmd:
		switch {
		case errors.Is(err, game.ErrCapacityExceeded):
			return "The maximum number of lobbies are already open."
		case errors.Is(err, game.ErrNameConflict):
			return "Lobby with that name already exists."
		case errors.Is(err, game.ErrInvalidName):
			return "Lobby name cannot be empty."
		}
	case JoinLobbyCmd:
		switch {
		case errors.Is(err, game.ErrCapacityExceeded):
			return fmt.Sprintf("Could not join lobby: %s as it is already full", c.Lobby)
		case errors.Is(err, game.ErrGameInProgress):
			return fmt.Sprintf("Could not join lobby: %s as the game is already running", c.Lobby)
		case errors.Is(err, game.ErrNotFound):
			return fmt.Sprintf("Could not join lobby: %s as it does not exist", c.Lobby)
		}
	case CloseLobbyCmd:
		switch {
		case errors.Is(err, game.ErrNotEmpty):
			return fmt.Sprintf("Could not close lobby: %s as players are still in it", c.Name)
		case errors.Is(err, game.ErrNotFound):
			return fmt.Sprintf("Could not close lobby: %s as it does not exist", c.Name)
		}
	case ChangeSpeedCmd:
		if errors.Is(err, game.ErrGameInProgress) {
			return "Speed can only be changed before the game starts."
		}
	}

	switch {
	case errors.Is(err, game.ErrNotInLobby):
		return "You are not in a lobby."
	case errors.Is(err, game.ErrInvalidName):
		return "Name cannot be empty."
	}
	return err.Error()
}
