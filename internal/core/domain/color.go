package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	rendererrors "docrender/internal/pkg/errors"
)

// Color decodes a "#RRGGBB" JSON string into a packed 0xRRGGBB value, the
// shape every shape-drawing Draw callback in elements expects.
type Color uint32

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return rendererrors.MalformedInput("color must be a \"#RRGGBB\" string").WithCause(err)
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rendererrors.MalformedInput(fmt.Sprintf("color %q must be 6 hex digits", s))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rendererrors.MalformedInput(fmt.Sprintf("color %q is not valid hex", s)).WithCause(err)
	}
	*c = Color(v)
	return nil
}

func (c *Color) toPtr() *uint32 {
	if c == nil {
		return nil
	}
	v := uint32(*c)
	return &v
}
