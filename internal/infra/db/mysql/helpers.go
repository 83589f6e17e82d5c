package mysql

import (
	"fmt"
	"strings"
)

// requireKey rejects blank visitor ids and keys before they hit the primary key.
func requireKey(visitorID, key string) error {
	if strings.TrimSpace(visitorID) == "" || strings.TrimSpace(key) == "" {
		return fmt.Errorf("visitor id and key are required")
	}
	return nil
}
