// Package grid implements a sectioned grid layout engine.
//
// The engine places every item of a sectioned data source into a
// rectangle, caches the rectangles by [Index], and keeps a running
// bounding size per section. Queries (by index or by rectangle) are always
// answered from the cache; only [Layout.Prepare] recomputes.
//
// # Strategies
//
// The placement formulas live in a [Strategy]. The engine fixes the
// dispatch: item 0 of a section is positioned by FirstItemOrigin, every
// other item by NextItemOrigin, and ItemSize gives the dimensions.
// Strategies see the pass in progress through [Env], which resolves
// spacing and insets (policy first, engine default second) and exposes the
// rectangles placed so far. Concrete strategies live in package flow.
//
// A layout built without a strategy uses [BaseStrategy]. Every hook then
// logs an error and yields zero geometry, which keeps the host alive and
// makes the integration mistake visible. [WithStrict] turns that into a
// failed pass.
//
// # Viewport
//
// [Layout.ShouldInvalidate] asks for a new pass only when the cross-axis
// extent of the viewport changes. [Layout.CorrectOffset] pulls the scroll
// offset back inside the content after a size change unless paging is on.
//
// # Usage
//
//	l := grid.New(flow.Vertical{Sizer: lst},
//	    grid.WithPolicy(lst),
//	    grid.WithSupplementary(lst, "header", "footer"))
//	l.Attach(view)
//	if err := l.Prepare(); err != nil {
//	    return err
//	}
//	visible := l.ElementsIn(view.Bounds())
package grid
