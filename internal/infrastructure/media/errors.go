package media

import "errors"

// ErrAutoplayBlocked signals that the environment refused to start
// playback without user interaction.
var ErrAutoplayBlocked = errors.New("autoplay blocked by environment")
