// Package id generates record and request identifiers.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Len is the length of an id returned by NextID.
const Len = 50

// NextID returns a 50 character record id: the creation time in milliseconds
// zero padded to 15 digits, a random UUID in hex, and a "000" suffix.
// Ids sort by creation time.
func NextID() string {
	return NextIDAt(time.Now())
}

// NextIDAt is NextID for a given creation time.
func NextIDAt(t time.Time) string {
	u := uuid.New()
	return fmt.Sprintf("%015d%s000", t.UnixMilli(), strings.ReplaceAll(u.String(), "-", ""))
}

// Request returns a new request id.
func Request() string {
	return uuid.NewString()
}

// Time extracts the creation time encoded in an id returned by NextID.
func Time(id string) (time.Time, bool) {
	if len(id) != Len {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(id[:15], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
