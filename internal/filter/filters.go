package filter

import (
	"github.com/rebeliceyang/lazymongo/internal/models"
)

// BuildFilterDocument merges the compiled column filters into the base filter
// according to the builder's policy. No active filter yields All.
func (b *Builder) BuildFilterDocument(filters []models.ColumnFilter) (p Predicate) {
	defer b.guard("filters", &p)

	type part struct {
		pred Predicate
		conn models.Connector
	}

	var parts []part
	for _, f := range filters {
		if pred := b.CombineFilter(f); pred != nil {
			parts = append(parts, part{pred: pred, conn: f.Connector})
		}
	}

	switch len(parts) {
	case 0:
		return All{}
	case 1:
		return parts[0].pred
	}

	if b.Policy != PolicyConnector && b.Policy != PolicyConnectorNor {
		terms := make([]Predicate, len(parts))
		for i, pt := range parts {
			terms[i] = pt.pred
		}
		return And{Terms: terms}
	}

	// the first contributing filter seeds the fold and its connector is ignored
	running := parts[0].pred
	for _, pt := range parts[1:] {
		running = fold(running, pt.pred, pt.conn, b.Policy == PolicyConnectorNor)
	}
	return running
}
