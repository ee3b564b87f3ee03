// Package renderers turns resolved section data into HTML fragments.
//
// Every renderer is a pure function of its driven.RenderInput: no I/O, no
// state kept between calls, and no panics on malformed data. When a section
// has no data at all, renderers emit the shared Placeholder so the rest of
// the document still assembles.
//
// Renderers are looked up by visual type through a Registry. Unregistered
// types fall back to the narrative renderer.
package renderers
