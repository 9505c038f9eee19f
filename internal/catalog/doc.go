// Package catalog holds the header rule tables the analyzer scores against.
//
// A Catalog is built once (Default or LoadFile) and passed into the
// analyzer. It never changes after construction, so a single value can be
// shared by every concurrent analysis.
package catalog
