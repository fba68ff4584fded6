package merge

import (
	"ridefunnel/model"
)

// Engine owns one snapshot of the source tables and the funnel table merged
// from them. The funnel is built on first use and cached; every analysis in
// a run reads the same build. Not safe for concurrent use.
type Engine struct {
	tables *model.EventTables
	funnel model.FunnelTable
	built  bool
}

func New(tables *model.EventTables) *Engine {
	return &Engine{tables: tables}
}

// Tables returns the current source snapshot, for analyses that work off a
// single relation and never need the merge.
func (e *Engine) Tables() *model.EventTables {
	return e.tables
}

// Funnel returns the merged funnel table, building it on the first call and
// reusing the cached build afterwards.
func (e *Engine) Funnel() (model.FunnelTable, error) {
	if e.built {
		return e.funnel, nil
	}

	funnel, err := BuildFunnelTable(e.tables)
	if err != nil {
		return nil, err
	}

	e.funnel = funnel
	e.built = true
	return e.funnel, nil
}

// Invalidate drops the cached funnel. The next Funnel call rebuilds it from
// the current snapshot.
func (e *Engine) Invalidate() {
	e.funnel = nil
	e.built = false
}

// SetTables replaces the snapshot and drops the cached funnel with it.
func (e *Engine) SetTables(tables *model.EventTables) {
	e.tables = tables
	e.Invalidate()
}
