package chatview

// DefaultScrollThreshold is how close to the bottom, in rows or pixels, the
// view must be for streaming output to keep following it.
const DefaultScrollThreshold = 400

// Viewport describes the scroll position of the message list.
type Viewport struct {
	ScrollHeight int
	ScrollTop    int
	ClientHeight int
}

type ScrollAction int

const (
	ScrollNone ScrollAction = iota
	ScrollJump
	ScrollSmooth
)

// NearBottom reports whether v is within threshold of the bottom.
func NearBottom(v Viewport, threshold int) bool {
	return v.ScrollHeight-v.ScrollTop <= v.ClientHeight+threshold
}

// FollowOutput decides how to scroll after the messages changed. v must be
// the position from before the update. While loading, the view follows only
// if the reader was already near the bottom; once loading ends it always
// scrolls to the bottom.
func FollowOutput(loading bool, v Viewport, threshold int) ScrollAction {
	if !loading {
		return ScrollSmooth
	}
	if NearBottom(v, threshold) {
		return ScrollJump
	}
	return ScrollNone
}
