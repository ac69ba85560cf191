package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberSuffixLen = 6

// NewOrderNumber builds an externally visible order number of the form
// ORD-<YYMMDD><6 uppercase hex chars>. Uniqueness is enforced by the
// database; callers regenerate and retry on collision.
func NewOrderNumber(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	suffix := strings.ToUpper(random[:orderNumberSuffixLen])
	return fmt.Sprintf("ORD-%s%s", now.Format("060102"), suffix)
}
