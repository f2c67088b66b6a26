package ui

// Element is a node of the headless page tree.
type Element struct {
	ID     string
	Hidden bool
	Text   string
	// Blurred marks content rendered behind a blur (the job board while
	// logged out).
	Blurred bool

	parent   *Element
	children []*Element
}

func NewElement(id string, children ...*Element) *Element {
	e := &Element{ID: id}
	e.Append(children...)
	return e
}

// Append attaches children to e and returns e.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		c.parent = e
		e.children = append(e.children, c)
	}
	return e
}

func (e *Element) Parent() *Element { return e.parent }

func (e *Element) Children() []*Element { return e.children }

// Contains reports whether other is e or one of its descendants.
// A nil other is contained by nothing.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Find returns the element with the given id in e's subtree, or nil.
func (e *Element) Find(id string) *Element {
	if e.ID == id {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}
