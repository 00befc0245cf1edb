package identity

import (
	"os"
	"strings"
)

const anonymous = "anonymous"

// Author returns the name written into the author field of new records.
// An explicit override wins, then $COURSEHUB_USER, then $USER.
func Author(override string) string {
	for _, name := range []string{override, os.Getenv("COURSEHUB_USER"), os.Getenv("USER")} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return anonymous
}
