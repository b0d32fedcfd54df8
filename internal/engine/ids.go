package engine

import (
	"github.com/google/uuid"

	"attendance-engine/internal/roster"
)

// idNamespace is the fixed UUIDv5 namespace for everything this engine
// derives. Ids are keyed on stable input fields only, so re-running the
// same inputs reproduces them byte for byte.
var idNamespace = uuid.MustParse("5b1f3c6e-8a14-4f0a-9c14-2f7d1f6b9a02")

func deriveID(kind, key string) string {
	return uuid.NewSHA1(idNamespace, []byte(kind+"|"+key)).String()
}

func recordID(a roster.ShiftAssignment) string {
	return deriveID("record", a.ID)
}
