package render

import (
	"os"

	"reelcut/internal/config"
)

// NewSurfaceProvider resolves the drawing surface from configuration. The
// configured display wins over the DISPLAY environment variable. The provider
// returns nil while no display and no embed window are known, which keeps the
// preview layer in its recoverable surface-unavailable state.
func NewSurfaceProvider(cfg *config.Config) func() *Surface {
	return func() *Surface {
		display := cfg.Preview.Display
		if display == "" {
			display = os.Getenv("DISPLAY")
		}
		if display == "" && cfg.Preview.WindowID <= 0 {
			return nil
		}
		return &Surface{
			Display:  display,
			WindowID: cfg.Preview.WindowID,
		}
	}
}
