package core

// Logger receives progress and diagnostic lines from the renderer and its
// front ends. Messages carry their own trailing newline.
type Logger interface {
	Printf(format string, args ...interface{})
}
