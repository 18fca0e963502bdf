package devices

import (
	"fmt"
	"strings"
)

// makeName creates a prometheus metric name in the gotach space
// This function doesn't have to be very efficient because it's only
// called at init time.
func makeName(parts ...interface{}) string {
	args := make([]string, len(parts)+1)
	args[0] = "gotach"
	for i, v := range parts {
		args[i+1] = fmt.Sprintf("%v", v)
	}
	rv := strings.Join(args, "_")
	rv = strings.ReplaceAll(rv, "-", ":")
	rv = strings.ReplaceAll(rv, " ", ":")
	return rv
}
