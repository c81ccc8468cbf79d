package diff

// Side identifies one pane of a side-by-side view.
type Side string

const (
	SideOld Side = "left"
	SideNew Side = "right"
)

// Unit is one styled span in a pane.
type Unit struct {
	Class Classification `json:"class"`
	Value string         `json:"value"`
	Side  Side           `json:"side"`
}

// Highlighted reports whether the unit marks a change on its own side:
// removals on the old side, insertions on the new side.
func (u Unit) Highlighted() bool {
	return (u.Side == SideOld && u.Class == Removed) || (u.Side == SideNew && u.Class == Inserted)
}

// Views holds the two panes of a comparison.
type Views struct {
	Old []Unit `json:"old"`
	New []Unit `json:"new"`
}

// Render projects an alignment into its two panes. Inserted entries are
// omitted from the old pane and removed entries from the new pane; they are
// not rendered as blanks.
func Render(a Alignment) Views {
	var v Views
	for _, e := range a {
		value := e.Value()
		switch e.Class {
		case Unchanged:
			v.Old = append(v.Old, Unit{Class: Unchanged, Value: value, Side: SideOld})
			v.New = append(v.New, Unit{Class: Unchanged, Value: value, Side: SideNew})
		case Removed:
			v.Old = append(v.Old, Unit{Class: Removed, Value: value, Side: SideOld})
		case Inserted:
			v.New = append(v.New, Unit{Class: Inserted, Value: value, Side: SideNew})
		}
	}
	return v
}

// Pane returns the units for side.
func (v Views) Pane(side Side) []Unit {
	if side == SideNew {
		return v.New
	}
	return v.Old
}

// Text concatenates the units of side, reproducing that side's input.
func (v Views) Text(side Side) string {
	var n int
	units := v.Pane(side)
	for _, u := range units {
		n += len(u.Value)
	}
	buf := make([]byte, 0, n)
	for _, u := range units {
		buf = append(buf, u.Value...)
	}
	return string(buf)
}

// Selection describes a unit picked by the user.
type Selection struct {
	Class Classification `json:"class"`
	Value string         `json:"value"`
	Side  Side           `json:"side"`
}

// SelectFunc receives selections from Views.Select.
type SelectFunc func(Selection)

// Select reports the unit at index on side to fn. It performs no other
// action. It returns false, without calling fn, when index is out of range.
func (v Views) Select(side Side, index int, fn SelectFunc) bool {
	units := v.Pane(side)
	if index < 0 || index >= len(units) {
		return false
	}
	if fn != nil {
		u := units[index]
		fn(Selection{Class: u.Class, Value: u.Value, Side: u.Side})
	}
	return true
}

// Highlights returns the indexes of highlighted units on side, in order.
func (v Views) Highlights(side Side) []int {
	var out []int
	for i, u := range v.Pane(side) {
		if u.Highlighted() {
			out = append(out, i)
		}
	}
	return out
}
