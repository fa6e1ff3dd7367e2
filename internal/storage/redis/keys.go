package redis

import (
	"fmt"

	"github.com/dropfour/dropfour/internal/model"
)

// Key prefix for all match-server data
const keyPrefix = "dropfour"

// inviteKey returns the Redis key for the invitation from the given origin
func inviteKey(origin model.PlayerName) string {
	return fmt.Sprintf("%s:invite:%s", keyPrefix, origin)
}

// invitePattern matches every invitation key
func invitePattern() string {
	return keyPrefix + ":invite:*"
}
