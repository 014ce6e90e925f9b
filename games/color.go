package games

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
)

const (
	colorMin = 50
	colorMax = 255
)

// Color is a player's cursor color. Each channel lies in [50, 255) so
// cursors stay visible on a dark board.
type Color struct {
	R, G, B uint8
}

func randomColor(rng *rand.Rand) Color {
	channel := func() uint8 {
		return uint8(colorMin + rng.IntN(colorMax-colorMin))
	}

	return Color{R: channel(), G: channel(), B: channel()}
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	var r, g, bl uint8
	if _, err := fmt.Sscanf(s, "rgb(%d, %d, %d)", &r, &g, &bl); err != nil {
		return fmt.Errorf("invalid color %q: %w", s, err)
	}

	*c = Color{R: r, G: g, B: bl}

	return nil
}
