package ecs

import "github.com/kamstrup/intmap"

// entityQueue is a sparse set of entity ids. Ids are kept densely in
// insertion order; removal swaps the last id into the freed position.
type entityQueue struct {
	dense  []EntityId
	sparse *intmap.Map[EntityId, int]
}

func newEntityQueue() entityQueue {
	return entityQueue{
		sparse: intmap.New[EntityId, int](64),
	}
}

func (q *entityQueue) Has(id EntityId) bool {
	_, ok := q.sparse.Get(id)
	return ok
}

// Add inserts id and reports whether it was not already present.
func (q *entityQueue) Add(id EntityId) bool {
	if q.Has(id) {
		return false
	}
	q.sparse.Put(id, len(q.dense))
	q.dense = append(q.dense, id)
	return true
}

// Remove deletes id and reports whether it was present.
func (q *entityQueue) Remove(id EntityId) bool {
	idx, ok := q.sparse.Get(id)
	if !ok {
		return false
	}
	last := len(q.dense) - 1
	lastId := q.dense[last]

	q.dense[idx] = lastId
	q.sparse.Put(lastId, idx)

	q.dense = q.dense[:last]
	q.sparse.Del(id)
	return true
}

func (q *entityQueue) Len() int {
	return len(q.dense)
}

func (q *entityQueue) Ids() []EntityId {
	return q.dense
}

func (q *entityQueue) Clear() {
	q.dense = q.dense[:0]
	q.sparse.Clear()
}
