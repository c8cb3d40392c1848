package idutil

import "github.com/bwmarrin/snowflake"

// IsSnowflake reports whether id is a well-formed platform identifier.
func IsSnowflake(id string) bool {
	if id == "" {
		return false
	}

	parsed, err := snowflake.ParseString(id)
	return err == nil && parsed.Int64() > 0
}
