package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewSessionID returns a collision-resistant opaque token used to bind the
// channel to a server-side conversation context. The time prefix keeps server
// logs roughly sortable; the token itself is never parsed.
func NewSessionID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}
