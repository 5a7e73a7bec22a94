package dining

// Table is a ring of chopsticks: seat p sits between chopstick p-1 (left)
// and chopstick p (right), modulo the number of seats.
type Table struct {
	chopsticks []*Chopstick
}

func NewTable(seats int) *Table {
	t := &Table{chopsticks: make([]*Chopstick, seats)}
	for i := range t.chopsticks {
		t.chopsticks[i] = NewChopstick()
	}
	return t
}

func (t *Table) Seats() int { return len(t.chopsticks) }

func (t *Table) LeftChopstickAt(seat int) *Chopstick {
	return t.chopsticks[t.index(seat-1)]
}

func (t *Table) RightChopstickAt(seat int) *Chopstick {
	return t.chopsticks[t.index(seat)]
}

func (t *Table) ChopsticksInUse() int {
	n := 0
	for _, c := range t.chopsticks {
		if c.InUse() {
			n++
		}
	}
	return n
}

func (t *Table) index(i int) int {
	n := len(t.chopsticks)
	return ((i % n) + n) % n
}
