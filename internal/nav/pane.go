package nav

import "iter"

// Record is one displayable entry in a pane.
type Record struct {
	// Locator identifies the record's children for the next pane's provider.
	// Leaf records leave it empty.
	Locator string
	Label   string
}

// CloneRecords produces a shallow copy of the provided records.
func CloneRecords(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	return dup
}

// Pane tracks the items, selection and scroll position of one chain level.
type Pane struct {
	title    string
	items    []Record
	selected int
	offset   int
	capacity int
	source   string
}

// NewPane returns an empty pane with a single-row viewport.
func NewPane(title string) *Pane {
	return &Pane{title: title, selected: -1, capacity: 1}
}

func (p *Pane) Title() string { return p.title }

// Source is the locator the current items were fetched for.
func (p *Pane) Source() string { return p.source }

func (p *Pane) Len() int { return len(p.items) }

func (p *Pane) ScrollOffset() int { return p.offset }

func (p *Pane) Capacity() int { return p.capacity }

// Items returns a copy of the pane's records.
func (p *Pane) Items() []Record {
	return CloneRecords(p.items)
}

// Selected returns the selected index; ok is false when the pane is empty.
func (p *Pane) Selected() (int, bool) {
	if len(p.items) == 0 {
		return -1, false
	}
	return p.selected, true
}

// SelectedRecord returns the record under the selection.
func (p *Pane) SelectedRecord() (Record, bool) {
	idx, ok := p.Selected()
	if !ok {
		return Record{}, false
	}
	return p.items[idx], true
}

// SetItems replaces the records and resets selection and scroll. The pane no
// longer belongs to any source, so background refreshes are not applied to it.
func (p *Pane) SetItems(records []Record) {
	p.populate("", records)
}

func (p *Pane) populate(source string, records []Record) {
	p.items = CloneRecords(records)
	p.source = source
	p.offset = 0
	if len(p.items) == 0 {
		p.selected = -1
		return
	}
	p.selected = 0
}

// Refresh swaps in a newer copy of the same list, keeping the selection and
// scroll where they were as far as the new length allows.
func (p *Pane) Refresh(records []Record) {
	p.items = CloneRecords(records)
	if len(p.items) == 0 {
		p.selected = -1
		p.offset = 0
		return
	}
	if p.selected < 0 {
		p.selected = 0
	}
	if p.selected >= len(p.items) {
		p.selected = len(p.items) - 1
	}
	p.ensureVisible()
}

// MoveSelection shifts the selection by delta, clamped to the item range,
// and reports whether it moved.
func (p *Pane) MoveSelection(delta int) bool {
	n := len(p.items)
	if n == 0 {
		return false
	}
	old := p.selected
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if p.selected > n-1 {
		p.selected = n - 1
	}
	p.ensureVisible()
	return p.selected != old
}

// SetCapacity updates the number of visible rows. Values below one are
// treated as one.
func (p *Pane) SetCapacity(rows int) {
	if rows < 1 {
		rows = 1
	}
	p.capacity = rows
	if maxOffset := len(p.items) - rows; p.offset > maxOffset {
		p.offset = maxOffset
	}
	p.ensureVisible()
}

func (p *Pane) ensureVisible() {
	if len(p.items) == 0 {
		p.offset = 0
		return
	}
	if p.selected < p.offset {
		p.offset = p.selected
	}
	if upper := p.offset + p.capacity - 1; p.selected > upper {
		p.offset = p.selected - p.capacity + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// VisibleSlice yields the records inside the viewport with their absolute
// indices. Each range over the result reads the pane afresh.
func (p *Pane) VisibleSlice() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		end := p.offset + p.capacity
		if end > len(p.items) {
			end = len(p.items)
		}
		for i := p.offset; i < end; i++ {
			if !yield(i, p.items[i]) {
				return
			}
		}
	}
}
