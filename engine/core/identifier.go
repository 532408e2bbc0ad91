package core

import (
	"strings"

	"github.com/google/uuid"
)

// NewBuildID returns a short random identifier used to correlate the log
// lines of one build.
func NewBuildID() string {
	id := uuid.New()
	return strings.SplitN(id.String(), "-", 2)[0]
}
