package naming

import "strconv"

// Table is one identifier namespace of a single transpile call. It is not
// safe for concurrent use and must not outlive the call.
type Table struct {
	owners     map[string]any
	byProducer map[any]string
}

// NewTable returns an empty namespace.
func NewTable() *Table {
	return &Table{
		owners:     make(map[string]any),
		byProducer: make(map[any]string),
	}
}

// Declare records name as used and returns it. Declaring the same name
// again is a no-op; the first declaration wins.
func (t *Table) Declare(name string) string {
	if _, ok := t.owners[name]; !ok {
		t.owners[name] = nil
	}
	return name
}

// Assign allocates a name for producer, a comparable key identifying the
// produced value. base is used if free, otherwise base2, base3, ... A
// producer that already holds a name gets the same name back.
func (t *Table) Assign(base string, producer any) string {
	if name, ok := t.byProducer[producer]; ok {
		return name
	}

	name := base
	for i := 2; ; i++ {
		owner, taken := t.owners[name]
		if !taken {
			break
		}
		if owner != nil && owner == producer {
			return name
		}
		name = base + strconv.Itoa(i)
	}

	t.owners[name] = producer
	t.byProducer[producer] = name
	return name
}

// Release frees a name allocated by Assign so the next allocation of the
// same base can take it. Unknown names are ignored.
func (t *Table) Release(name string) {
	owner, ok := t.owners[name]
	if !ok {
		return
	}
	delete(t.owners, name)
	if owner != nil {
		delete(t.byProducer, owner)
	}
}

// Len returns the number of names taken.
func (t *Table) Len() int {
	return len(t.owners)
}
