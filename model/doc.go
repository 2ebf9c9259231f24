// Package model defines the layout-document graph the rest of the module
// operates on: a Document owning ordered Pages, independent text flows
// (Stories) threaded across geometric Frames, externally linked assets, and
// per-character style runs on Paragraphs.
//
// Coordinates are top-down: the Y axis increases toward the bottom of the
// page, matching print layout conventions. All page references are 0-based
// offsets into Document.Pages; offsets shift when pages are added or removed,
// so derived values such as chapter ranges must be recomputed after
// structural edits.
//
// Text layout is modeled by capacity: each frame holds a bounded number of
// runes, and Document.Reflow fills a story's frame chain in thread order.
// A story whose text exceeds the combined capacity of its frames is overset.
package model
