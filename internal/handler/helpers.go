package handler

import (
	"fmt"
	"strconv"
)

// bindID parses a numeric path parameter.
func bindID(raw string, out *uint) error {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}
	*out = uint(v)
	return nil
}
