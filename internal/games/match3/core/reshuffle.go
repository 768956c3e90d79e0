package core

// maxReshuffleAttempts bounds both the permutation and the regeneration
// phase of a reshuffle.
const maxReshuffleAttempts = 100

// reshuffle permutes the element types already on the board until it has
// no standing match and at least one legal move. If no permutation works
// the board is regenerated from the spawner. It reports whether a playable
// board was reached.
func (e *Engine) reshuffle() bool {
	var elems []*Element
	for el := range e.grid.AllOccupants() {
		elems = append(elems, el)
	}
	types := make([]ElementType, len(elems))
	for i, el := range elems {
		types[i] = el.Type
	}

	for range maxReshuffleAttempts {
		e.rng.Shuffle(len(types), func(i, j int) {
			types[i], types[j] = types[j], types[i]
		})
		for i, el := range elems {
			el.Type = types[i]
		}
		if len(e.matcher.FindAll()) == 0 && e.matcher.HasAnyLegalMove() {
			e.emit(ReshuffledEvent{})
			return true
		}
	}

	for range maxReshuffleAttempts {
		e.grid.Clear()
		Fill(e.grid, e.spawner, e.matcher, true)
		if e.settle() && e.matcher.HasAnyLegalMove() {
			e.emit(ReshuffledEvent{Regenerated: true})
			return true
		}
	}

	if e.logger != nil {
		e.logger.Warn("reshuffle could not reach a playable board")
	}
	return false
}
