package session

// Context is the monitored session.
type Context struct {
	id        string
	threshold float64
	window    Window
}

// New returns a Context with an empty window.
func New(id string, threshold float64) *Context {
	return &Context{id: id, threshold: threshold}
}

// ID returns the order identifier.
func (c *Context) ID() string { return c.id }

// Threshold returns the low-power threshold in watts. Zero disables the
// low-power alert and leaves only completion detection.
func (c *Context) Threshold() float64 { return c.threshold }

// SetID switches to a newly acquired identifier and clears the window.
func (c *Context) SetID(id string) {
	c.id = id
	c.window.Reset()
}

// Window returns the reading window of the current identifier.
func (c *Context) Window() *Window { return &c.window }
