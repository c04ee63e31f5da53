// Package viewdef loads saved-view definitions from CUE files.
//
// Views are declared under the top-level view field, keyed by name:
//
//	view: open_orders: {
//		table:  "orders"
//		filter: "status:=open total:>#100"
//		order:  "-created"
//	}
//
// Every view is unified with the #View schema, so unknown fields and
// wrongly typed values are reported with their CUE position.
package viewdef

import (
	_ "embed"

	"cuelang.org/go/cue"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// CompileView turns the CUE value of one view into a store.View with
// canonical filter and order text. The view name is the last path label.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`view: open: { table: "items", filter: "status:=open" }`)
//	view, err := CompileView(v.LookupPath(cue.ParsePath("view.open")))
func CompileView(v cue.Value) (store.View, error) {
	if err := v.Err(); err != nil {
		return store.View{}, formatCUEError(err)
	}

	var view store.View
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		view.Name = labels[len(labels)-1].String()
	}

	schema := v.Context().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return store.View{}, formatCUEError(err)
	}
	unified := v.Unify(schema.LookupPath(cue.ParsePath("#View")))
	if err := unified.Validate(); err != nil {
		return store.View{}, formatCUEError(err)
	}

	tableVal := unified.LookupPath(cue.ParsePath("table"))
	if !tableVal.IsConcrete() {
		return store.View{}, &CompileError{
			Field:   "table",
			Message: "table is required",
			Pos:     v.Pos(),
		}
	}
	table, err := tableVal.String()
	if err != nil {
		return store.View{}, formatCUEError(err)
	}
	view.Table = table

	filterVal := unified.LookupPath(cue.ParsePath("filter"))
	if view.Filter, err = stringField(filterVal); err != nil {
		return store.View{}, err
	}
	if _, diags := filter.ParseWithDiagnostics(view.Filter, 0); len(diags) > 0 {
		return store.View{}, &CompileError{
			Field:   "filter",
			Message: diags[0].String(),
			Pos:     filterVal.Pos(),
		}
	}

	if view.Order, err = stringField(unified.LookupPath(cue.ParsePath("order"))); err != nil {
		return store.View{}, err
	}
	if view.Description, err = stringField(unified.LookupPath(cue.ParsePath("description"))); err != nil {
		return store.View{}, err
	}

	return view.Normalize(), nil
}

// stringField reads an optional string field, using its default when
// the view leaves it out.
func stringField(v cue.Value) (string, error) {
	if d, ok := v.Default(); ok {
		v = d
	}
	s, err := v.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}
